package ledger

import (
	"github.com/ethereum/go-ethereum/common"
)

const (
	MaxMilestones          = 10
	MaxMetadataLength      = 500
	MaxEvidenceLength      = 200
	MaxDescriptionLength   = 100
	PercentageTotal        = 100
	DefaultMinContribution = 1_000_000
	FirstCampaignID        = CampaignID(1)
)

// Identity of a caller, organizer, contributor or collaborator
type Identity = common.Address

// LogicalTime is a monotonically increasing point in time, block height or equivalent
type LogicalTime uint64

type CampaignID uint64

type Campaign struct {
	ID         CampaignID
	Organizer  Identity
	Goal       uint64
	Raised     uint64
	Deadline   LogicalTime
	Milestones []Milestone
	Active     bool
	Approved   bool
	Paused     bool
	Metadata   string
	Refundable bool
	CreatedAt  LogicalTime
}

type Milestone struct {
	Description    string
	Percentage     uint8
	Verified       bool
	Released       bool
	ReleasedAmount uint64
}

// MilestoneSpec is the creation time definition of a milestone
type MilestoneSpec struct {
	Description string
	Percentage  uint8
}

type Contribution struct {
	CampaignID  CampaignID
	Contributor Identity
	Amount      uint64
	Refunded    bool
}

type MilestoneVerification struct {
	CampaignID CampaignID
	Index      uint32
	Verifier   Identity
	Timestamp  LogicalTime
	Evidence   string
}

// State is the process-wide part of the ledger
type State struct {
	Owner          Identity
	Paused         bool
	NextCampaignID CampaignID
	Governance     Identity
	Oracle         Identity
	Custodian      Identity
}

func NewState(deployer Identity) State {
	return State{
		Owner:          deployer,
		NextCampaignID: FirstCampaignID,
		Governance:     deployer,
		Oracle:         deployer,
		Custodian:      deployer,
	}
}

func (c *Campaign) Clone() *Campaign {
	cp := *c
	cp.Milestones = make([]Milestone, len(c.Milestones))
	copy(cp.Milestones, c.Milestones)
	return &cp
}

// IsSuccessful reports whether the goal was met
func (c *Campaign) IsSuccessful() bool {
	return c.Raised >= c.Goal
}

// Released is the total amount paid out to the organizer so far
func (c *Campaign) Released() uint64 {
	var total uint64
	for _, m := range c.Milestones {
		total += m.ReleasedAmount
	}
	return total
}

// ReleaseAmount returns floor(raised * percentage / 100) without overflowing uint64
func ReleaseAmount(raised uint64, percentage uint8) uint64 {
	p := uint64(percentage)
	return raised/PercentageTotal*p + (raised%PercentageTotal)*p/PercentageTotal
}
