package gormstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/Lumerin-protocol/milestone-ledger/internal/lib"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// addresses are stored lowercase so that column order matches byte order
func addrToDB(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}

func addrFromDB(s string) common.Address {
	return common.HexToAddress(s)
}

func toDB(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, lib.WrapError(ErrValueOutOfRange, fmt.Errorf("%d", v))
	}
	return int64(v), nil
}

func stateToModel(s ledger.State) (*stateModel, error) {
	next, err := toDB(uint64(s.NextCampaignID))
	if err != nil {
		return nil, err
	}
	return &stateModel{
		ID:             stateRowID,
		Owner:          addrToDB(s.Owner),
		Paused:         s.Paused,
		NextCampaignID: next,
		Governance:     addrToDB(s.Governance),
		Oracle:         addrToDB(s.Oracle),
		Custodian:      addrToDB(s.Custodian),
	}, nil
}

func stateFromModel(m *stateModel) ledger.State {
	return ledger.State{
		Owner:          addrFromDB(m.Owner),
		Paused:         m.Paused,
		NextCampaignID: ledger.CampaignID(m.NextCampaignID),
		Governance:     addrFromDB(m.Governance),
		Oracle:         addrFromDB(m.Oracle),
		Custodian:      addrFromDB(m.Custodian),
	}
}

func campaignToModel(c *ledger.Campaign) (*campaignModel, error) {
	var values [5]int64
	for i, v := range []uint64{uint64(c.ID), c.Goal, c.Raised, uint64(c.Deadline), uint64(c.CreatedAt)} {
		dbv, err := toDB(v)
		if err != nil {
			return nil, err
		}
		values[i] = dbv
	}

	m := &campaignModel{
		ID:            values[0],
		Organizer:     addrToDB(c.Organizer),
		Goal:          values[1],
		Raised:        values[2],
		Deadline:      values[3],
		Active:        c.Active,
		Approved:      c.Approved,
		Paused:        c.Paused,
		Metadata:      c.Metadata,
		Refundable:    c.Refundable,
		CreatedHeight: values[4],
		Milestones:    make([]milestoneModel, len(c.Milestones)),
	}
	for i, ms := range c.Milestones {
		released, err := toDB(ms.ReleasedAmount)
		if err != nil {
			return nil, err
		}
		m.Milestones[i] = milestoneModel{
			CampaignID:     m.ID,
			Idx:            i,
			Description:    ms.Description,
			Percentage:     int(ms.Percentage),
			Verified:       ms.Verified,
			Released:       ms.Released,
			ReleasedAmount: released,
		}
	}
	return m, nil
}

func campaignFromModel(m *campaignModel) *ledger.Campaign {
	c := &ledger.Campaign{
		ID:         ledger.CampaignID(m.ID),
		Organizer:  addrFromDB(m.Organizer),
		Goal:       uint64(m.Goal),
		Raised:     uint64(m.Raised),
		Deadline:   ledger.LogicalTime(m.Deadline),
		Active:     m.Active,
		Approved:   m.Approved,
		Paused:     m.Paused,
		Metadata:   m.Metadata,
		Refundable: m.Refundable,
		CreatedAt:  ledger.LogicalTime(m.CreatedHeight),
		Milestones: make([]ledger.Milestone, len(m.Milestones)),
	}
	for _, ms := range m.Milestones {
		if ms.Idx < 0 || ms.Idx >= len(c.Milestones) {
			continue
		}
		c.Milestones[ms.Idx] = ledger.Milestone{
			Description:    ms.Description,
			Percentage:     uint8(ms.Percentage),
			Verified:       ms.Verified,
			Released:       ms.Released,
			ReleasedAmount: uint64(ms.ReleasedAmount),
		}
	}
	return c
}

func contributionFromModel(m *contributionModel) *ledger.Contribution {
	return &ledger.Contribution{
		CampaignID:  ledger.CampaignID(m.CampaignID),
		Contributor: addrFromDB(m.Contributor),
		Amount:      uint64(m.Amount),
		Refunded:    m.Refunded,
	}
}

func verificationFromModel(m *verificationModel) *ledger.MilestoneVerification {
	return &ledger.MilestoneVerification{
		CampaignID: ledger.CampaignID(m.CampaignID),
		Index:      uint32(m.Idx),
		Verifier:   addrFromDB(m.Verifier),
		Timestamp:  ledger.LogicalTime(m.Timestamp),
		Evidence:   m.Evidence,
	}
}

func eventToModel(e ledger.Event) (*eventModel, error) {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return nil, err
	}
	id, err := toDB(uint64(e.CampaignID))
	if err != nil {
		return nil, err
	}
	t, err := toDB(uint64(e.Time))
	if err != nil {
		return nil, err
	}
	return &eventModel{
		EventID:    e.ID.String(),
		Name:       e.Name,
		CampaignID: id,
		Caller:     addrToDB(e.Caller),
		Time:       t,
		Data:       string(data),
	}, nil
}

// numbers in event data come back as json.Number to keep uint64 precision
func eventFromModel(m *eventModel) (ledger.Event, error) {
	id, err := uuid.Parse(m.EventID)
	if err != nil {
		return ledger.Event{}, err
	}
	data := map[string]interface{}{}
	if m.Data != "" {
		dec := json.NewDecoder(bytes.NewReader([]byte(m.Data)))
		dec.UseNumber()
		if err := dec.Decode(&data); err != nil {
			return ledger.Event{}, err
		}
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	return ledger.Event{
		ID:         id,
		Name:       m.Name,
		CampaignID: ledger.CampaignID(m.CampaignID),
		Caller:     addrFromDB(m.Caller),
		Time:       ledger.LogicalTime(m.Time),
		Data:       data,
	}, nil
}
