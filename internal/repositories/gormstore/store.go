package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Lumerin-protocol/milestone-ledger/internal/interfaces"
	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	ErrUnknownDriver   = errors.New("unknown store driver")
	ErrValueOutOfRange = errors.New("value does not fit a database integer")
	ErrReadOnly        = errors.New("write in read only transaction")
)

// Store keeps the ledger in a relational database, one database transaction per Update
type Store struct {
	db  *gorm.DB
	log interfaces.ILogger
}

// Open connects to postgres or to a sqlite file and migrates the schema
func Open(driver string, dsn string, log interfaces.ILogger) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(dsn))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if driver == DriverSQLite {
		// a single connection serializes writers, sqlite would return SQLITE_BUSY otherwise
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return NewStore(db, log)
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

func NewStore(db *gorm.DB, log interfaces.ILogger) (*Store, error) {
	if err := db.AutoMigrate(allModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Infof("database schema migrated")
	return &Store{db: db, log: log}, nil
}

func (s *Store) View(ctx context.Context, fn func(tx ledger.Tx) error) error {
	return fn(&tx{db: s.db.WithContext(ctx), readOnly: true})
}

func (s *Store) Update(ctx context.Context, fn func(tx ledger.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&tx{db: db})
	})
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type tx struct {
	db       *gorm.DB
	readOnly bool
}

func (t *tx) writable() error {
	if t.readOnly {
		return ErrReadOnly
	}
	return nil
}

func (t *tx) State() (ledger.State, bool, error) {
	var m stateModel
	err := t.db.Take(&m, stateRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ledger.State{}, false, nil
	}
	if err != nil {
		return ledger.State{}, false, err
	}
	return stateFromModel(&m), true, nil
}

func (t *tx) PutState(state ledger.State) error {
	if err := t.writable(); err != nil {
		return err
	}
	m, err := stateToModel(state)
	if err != nil {
		return err
	}
	return t.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(m).Error
}

func orderedMilestones(db *gorm.DB) *gorm.DB {
	return db.Order("idx")
}

func (t *tx) Campaign(id ledger.CampaignID) (*ledger.Campaign, bool, error) {
	dbID, err := toDB(uint64(id))
	if err != nil {
		return nil, false, nil
	}
	var m campaignModel
	err = t.db.Preload("Milestones", orderedMilestones).Where("id = ?", dbID).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return campaignFromModel(&m), true, nil
}

func (t *tx) PutCampaign(campaign *ledger.Campaign) error {
	if err := t.writable(); err != nil {
		return err
	}
	m, err := campaignToModel(campaign)
	if err != nil {
		return err
	}
	err = t.db.Omit(clause.Associations).Clauses(clause.OnConflict{UpdateAll: true}).Create(m).Error
	if err != nil {
		return err
	}
	if len(m.Milestones) == 0 {
		return nil
	}
	return t.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&m.Milestones).Error
}

func (t *tx) Campaigns() ([]*ledger.Campaign, error) {
	var models []campaignModel
	err := t.db.Preload("Milestones", orderedMilestones).Order("id").Find(&models).Error
	if err != nil {
		return nil, err
	}
	res := make([]*ledger.Campaign, len(models))
	for i := range models {
		res[i] = campaignFromModel(&models[i])
	}
	return res, nil
}

func (t *tx) Contribution(id ledger.CampaignID, contributor ledger.Identity) (*ledger.Contribution, bool, error) {
	var m contributionModel
	err := t.db.Where("campaign_id = ? AND contributor = ?", int64(id), addrToDB(contributor)).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return contributionFromModel(&m), true, nil
}

func (t *tx) PutContribution(contribution *ledger.Contribution) error {
	if err := t.writable(); err != nil {
		return err
	}
	id, err := toDB(uint64(contribution.CampaignID))
	if err != nil {
		return err
	}
	amount, err := toDB(contribution.Amount)
	if err != nil {
		return err
	}
	m := &contributionModel{
		CampaignID:  id,
		Contributor: addrToDB(contribution.Contributor),
		Amount:      amount,
		Refunded:    contribution.Refunded,
	}
	return t.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(m).Error
}

func (t *tx) Contributions(id ledger.CampaignID) ([]*ledger.Contribution, error) {
	var models []contributionModel
	err := t.db.Where("campaign_id = ?", int64(id)).Order("contributor").Find(&models).Error
	if err != nil {
		return nil, err
	}
	res := make([]*ledger.Contribution, len(models))
	for i := range models {
		res[i] = contributionFromModel(&models[i])
	}
	return res, nil
}

func (t *tx) Verification(id ledger.CampaignID, index uint32) (*ledger.MilestoneVerification, bool, error) {
	var m verificationModel
	err := t.db.Where("campaign_id = ? AND idx = ?", int64(id), int(index)).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return verificationFromModel(&m), true, nil
}

// PutVerification fails on an existing key, verifications are written once
func (t *tx) PutVerification(v *ledger.MilestoneVerification) error {
	if err := t.writable(); err != nil {
		return err
	}
	id, err := toDB(uint64(v.CampaignID))
	if err != nil {
		return err
	}
	ts, err := toDB(uint64(v.Timestamp))
	if err != nil {
		return err
	}
	return t.db.Create(&verificationModel{
		CampaignID: id,
		Idx:        int(v.Index),
		Verifier:   addrToDB(v.Verifier),
		Timestamp:  ts,
		Evidence:   v.Evidence,
	}).Error
}

func (t *tx) AppendEvent(event ledger.Event) error {
	if err := t.writable(); err != nil {
		return err
	}
	m, err := eventToModel(event)
	if err != nil {
		return err
	}
	return t.db.Create(m).Error
}

func (t *tx) Events(id ledger.CampaignID) ([]ledger.Event, error) {
	var models []eventModel
	err := t.db.Where("campaign_id = ?", int64(id)).Order("seq").Find(&models).Error
	if err != nil {
		return nil, err
	}
	res := make([]ledger.Event, 0, len(models))
	for i := range models {
		e, err := eventFromModel(&models[i])
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, nil
}
