package httphandlers

import (
	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
)

type CollaboratorsRequest struct {
	Governance string `json:"governance" binding:"required,eth_addr"`
	Oracle     string `json:"oracle"     binding:"required,eth_addr"`
	Custodian  string `json:"custodian"  binding:"required,eth_addr"`
}

type MilestoneRequest struct {
	Description string `json:"description"`
	Percentage  uint8  `json:"percentage"`
}

// CreateCampaignRequest leaves value checks to the ledger so they fail with its error codes
type CreateCampaignRequest struct {
	Goal       uint64             `json:"goal"`
	Deadline   uint64             `json:"deadline"`
	Milestones []MilestoneRequest `json:"milestones"`
	Metadata   string             `json:"metadata"`
	Refundable bool               `json:"refundable"`
}

func (r *CreateCampaignRequest) params() ledger.CreateCampaignParams {
	milestones := make([]ledger.MilestoneSpec, len(r.Milestones))
	for i, m := range r.Milestones {
		milestones[i] = ledger.MilestoneSpec{Description: m.Description, Percentage: m.Percentage}
	}
	return ledger.CreateCampaignParams{
		Goal:       r.Goal,
		Deadline:   ledger.LogicalTime(r.Deadline),
		Milestones: milestones,
		Metadata:   r.Metadata,
		Refundable: r.Refundable,
	}
}

type ContributeRequest struct {
	Amount uint64 `json:"amount"`
}

type VerifyMilestoneRequest struct {
	Evidence string `json:"evidence"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

type StateResponse struct {
	Owner          string `json:"owner"`
	Paused         bool   `json:"paused"`
	NextCampaignID uint64 `json:"nextCampaignId"`
	Governance     string `json:"governance"`
	Oracle         string `json:"oracle"`
	Custodian      string `json:"custodian"`
}

type MilestoneResponse struct {
	Index          int    `json:"index"`
	Description    string `json:"description"`
	Percentage     uint8  `json:"percentage"`
	Verified       bool   `json:"verified"`
	Released       bool   `json:"released"`
	ReleasedAmount uint64 `json:"releasedAmount"`
}

type CampaignResponse struct {
	ID         uint64              `json:"id"`
	Organizer  string              `json:"organizer"`
	Goal       uint64              `json:"goal"`
	Raised     uint64              `json:"raised"`
	Released   uint64              `json:"released"`
	Deadline   uint64              `json:"deadline"`
	Milestones []MilestoneResponse `json:"milestones"`
	Active     bool                `json:"active"`
	Approved   bool                `json:"approved"`
	Paused     bool                `json:"paused"`
	Successful bool                `json:"successful"`
	Metadata   string              `json:"metadata"`
	Refundable bool                `json:"refundable"`
	CreatedAt  uint64              `json:"createdAt"`
}

type ContributionResponse struct {
	CampaignID  uint64 `json:"campaignId"`
	Contributor string `json:"contributor"`
	Amount      uint64 `json:"amount"`
	Refunded    bool   `json:"refunded"`
}

type VerificationResponse struct {
	CampaignID uint64 `json:"campaignId"`
	Index      uint32 `json:"index"`
	Verifier   string `json:"verifier"`
	Timestamp  uint64 `json:"timestamp"`
	Evidence   string `json:"evidence"`
}

func mapState(s ledger.State) StateResponse {
	return StateResponse{
		Owner:          s.Owner.Hex(),
		Paused:         s.Paused,
		NextCampaignID: uint64(s.NextCampaignID),
		Governance:     s.Governance.Hex(),
		Oracle:         s.Oracle.Hex(),
		Custodian:      s.Custodian.Hex(),
	}
}

func mapCampaign(c *ledger.Campaign) CampaignResponse {
	milestones := make([]MilestoneResponse, len(c.Milestones))
	for i, m := range c.Milestones {
		milestones[i] = MilestoneResponse{
			Index:          i,
			Description:    m.Description,
			Percentage:     m.Percentage,
			Verified:       m.Verified,
			Released:       m.Released,
			ReleasedAmount: m.ReleasedAmount,
		}
	}
	return CampaignResponse{
		ID:         uint64(c.ID),
		Organizer:  c.Organizer.Hex(),
		Goal:       c.Goal,
		Raised:     c.Raised,
		Released:   c.Released(),
		Deadline:   uint64(c.Deadline),
		Milestones: milestones,
		Active:     c.Active,
		Approved:   c.Approved,
		Paused:     c.Paused,
		Successful: c.IsSuccessful(),
		Metadata:   c.Metadata,
		Refundable: c.Refundable,
		CreatedAt:  uint64(c.CreatedAt),
	}
}

func mapContribution(c *ledger.Contribution) ContributionResponse {
	return ContributionResponse{
		CampaignID:  uint64(c.CampaignID),
		Contributor: c.Contributor.Hex(),
		Amount:      c.Amount,
		Refunded:    c.Refunded,
	}
}

func mapVerification(v *ledger.MilestoneVerification) VerificationResponse {
	return VerificationResponse{
		CampaignID: uint64(v.CampaignID),
		Index:      v.Index,
		Verifier:   v.Verifier.Hex(),
		Timestamp:  uint64(v.Timestamp),
		Evidence:   v.Evidence,
	}
}
