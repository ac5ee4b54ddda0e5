package gormstore

import (
	"time"
)

const stateRowID = 1

type stateModel struct {
	ID             uint   `gorm:"primaryKey;autoIncrement:false"`
	Owner          string `gorm:"size:42;not null"`
	Paused         bool   `gorm:"not null"`
	NextCampaignID int64  `gorm:"not null"`
	Governance     string `gorm:"size:42;not null"`
	Oracle         string `gorm:"size:42;not null"`
	Custodian      string `gorm:"size:42;not null"`
	UpdatedAt      time.Time
}

func (stateModel) TableName() string {
	return "ledger_state"
}

type campaignModel struct {
	ID            int64  `gorm:"primaryKey;autoIncrement:false"`
	Organizer     string `gorm:"size:42;not null;index"`
	Goal          int64  `gorm:"not null"`
	Raised        int64  `gorm:"not null"`
	Deadline      int64  `gorm:"not null;index"`
	Active        bool   `gorm:"not null;index"`
	Approved      bool   `gorm:"not null"`
	Paused        bool   `gorm:"not null"`
	Metadata      string `gorm:"size:2000"`
	Refundable    bool   `gorm:"not null"`
	CreatedHeight int64  `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Milestones []milestoneModel `gorm:"foreignKey:CampaignID"`
}

func (campaignModel) TableName() string {
	return "campaign"
}

type milestoneModel struct {
	CampaignID     int64  `gorm:"primaryKey;autoIncrement:false"`
	Idx            int    `gorm:"primaryKey;autoIncrement:false"`
	Description    string `gorm:"size:400"`
	Percentage     int    `gorm:"not null"`
	Verified       bool   `gorm:"not null"`
	Released       bool   `gorm:"not null"`
	ReleasedAmount int64  `gorm:"not null"`
}

func (milestoneModel) TableName() string {
	return "campaign_milestone"
}

type contributionModel struct {
	CampaignID  int64  `gorm:"primaryKey;autoIncrement:false"`
	Contributor string `gorm:"primaryKey;size:42"`
	Amount      int64  `gorm:"not null"`
	Refunded    bool   `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (contributionModel) TableName() string {
	return "contribution"
}

type verificationModel struct {
	CampaignID int64  `gorm:"primaryKey;autoIncrement:false"`
	Idx        int    `gorm:"primaryKey;autoIncrement:false"`
	Verifier   string `gorm:"size:42;not null"`
	Timestamp  int64  `gorm:"not null"`
	Evidence   string `gorm:"size:800"`
	CreatedAt  time.Time
}

func (verificationModel) TableName() string {
	return "milestone_verification"
}

type eventModel struct {
	Seq        int64  `gorm:"primaryKey;autoIncrement"`
	EventID    string `gorm:"size:36;uniqueIndex;not null"`
	Name       string `gorm:"size:64;not null"`
	CampaignID int64  `gorm:"not null;index"`
	Caller     string `gorm:"size:42;not null"`
	Time       int64  `gorm:"not null"`
	Data       string `gorm:"type:text"`
	CreatedAt  time.Time
}

func (eventModel) TableName() string {
	return "ledger_event"
}

func allModels() []interface{} {
	return []interface{}{
		&stateModel{},
		&campaignModel{},
		&milestoneModel{},
		&contributionModel{},
		&verificationModel{},
		&eventModel{},
	}
}
