package ledger

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/Lumerin-protocol/milestone-ledger/internal/lib"
)

type CreateCampaignParams struct {
	Goal       uint64
	Deadline   LogicalTime
	Milestones []MilestoneSpec
	Metadata   string
	Refundable bool
}

func (p *CreateCampaignParams) validate(now LogicalTime) error {
	if p.Goal == 0 {
		return errors.New("goal must be positive")
	}
	if p.Deadline <= now {
		return fmt.Errorf("deadline %d is not after current time %d", p.Deadline, now)
	}
	if len(p.Milestones) > MaxMilestones {
		return fmt.Errorf("too many milestones: %d, max %d", len(p.Milestones), MaxMilestones)
	}
	sum := 0
	for _, m := range p.Milestones {
		sum += int(m.Percentage)
	}
	if sum != PercentageTotal {
		return fmt.Errorf("milestone percentages sum to %d, expected %d", sum, PercentageTotal)
	}
	if n := utf8.RuneCountInString(p.Metadata); n > MaxMetadataLength {
		return fmt.Errorf("metadata too long: %d, max %d", n, MaxMetadataLength)
	}
	for i, m := range p.Milestones {
		if n := utf8.RuneCountInString(m.Description); n > MaxDescriptionLength {
			return fmt.Errorf("milestone %d description too long: %d, max %d", i, n, MaxDescriptionLength)
		}
	}
	return nil
}

// CreateCampaign registers a new campaign organized by the caller and returns its id
func (l *Ledger) CreateCampaign(ctx context.Context, caller Identity, params CreateCampaignParams) (CampaignID, error) {
	var id CampaignID
	err := l.mutate(ctx, "create-campaign", caller, func(o *op) error {
		if err := params.validate(o.now); err != nil {
			return lib.WrapError(ErrInvalidParam, err)
		}
		if o.state.Paused {
			return lib.WrapError(ErrInvalidParam, errors.New("ledger is paused"))
		}

		milestones := make([]Milestone, len(params.Milestones))
		for i, m := range params.Milestones {
			milestones[i] = Milestone{
				Description: m.Description,
				Percentage:  m.Percentage,
			}
		}

		state := o.state
		id = state.NextCampaignID
		state.NextCampaignID++
		o.setState(state)

		campaign := &Campaign{
			ID:         id,
			Organizer:  o.caller,
			Goal:       params.Goal,
			Deadline:   params.Deadline,
			Milestones: milestones,
			Active:     true,
			Metadata:   params.Metadata,
			Refundable: params.Refundable,
			CreatedAt:  o.now,
		}
		if err := o.tx.PutCampaign(campaign); err != nil {
			return err
		}

		o.emit(EventCampaignCreated, id, map[string]interface{}{
			"organizer":  o.caller.Hex(),
			"goal":       params.Goal,
			"deadline":   uint64(params.Deadline),
			"milestones": len(milestones),
			"refundable": params.Refundable,
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ApproveCampaign asks the governance collaborator about the campaign and records a positive answer
func (l *Ledger) ApproveCampaign(ctx context.Context, caller Identity, id CampaignID) error {
	return l.mutate(ctx, "approve-campaign", caller, func(o *op) error {
		campaign, err := o.campaign(id)
		if err != nil {
			return err
		}
		if campaign.Approved {
			return lib.WrapError(ErrNotApproved, fmt.Errorf("campaign %d is already approved", id))
		}
		if o.state.Paused {
			return lib.WrapError(ErrNotApproved, errors.New("ledger is paused"))
		}

		approved, err := l.isApproved(o, id)
		if err != nil {
			l.log.Warnf("governance %s failed for campaign %d: %s", lib.AddrShort(o.state.Governance.Hex()), id, err)
			return lib.WrapError(ErrNotApproved, err)
		}
		if !approved {
			return lib.WrapError(ErrNotApproved, fmt.Errorf("governance rejected campaign %d", id))
		}

		campaign.Approved = true
		if err := o.tx.PutCampaign(campaign); err != nil {
			return err
		}

		o.emit(EventCampaignApproved, id, nil)
		return nil
	})
}

func (l *Ledger) isApproved(o *op, id CampaignID) (bool, error) {
	governance, err := l.governance(o)
	if err != nil {
		return false, err
	}
	return governance.IsApproved(o.ctx, id)
}

// EndCampaign closes the campaign for good. The organizer may end it at any time,
// anyone else once the deadline is reached. Returns whether the goal was met
func (l *Ledger) EndCampaign(ctx context.Context, caller Identity, id CampaignID) (bool, error) {
	var successful bool
	err := l.mutate(ctx, "end-campaign", caller, func(o *op) error {
		campaign, err := o.campaign(id)
		if err != nil {
			return err
		}
		if o.state.Paused {
			return lib.WrapError(ErrCampaignActive, errors.New("ledger is paused"))
		}
		if !campaign.Active {
			return lib.WrapError(ErrCampaignActive, fmt.Errorf("campaign %d already ended", id))
		}
		if o.caller != campaign.Organizer && o.now < campaign.Deadline {
			return lib.WrapError(ErrCampaignActive, fmt.Errorf("deadline %d not reached", campaign.Deadline))
		}

		campaign.Active = false
		if err := o.tx.PutCampaign(campaign); err != nil {
			return err
		}

		successful = campaign.IsSuccessful()
		o.emit(EventCampaignEnded, id, map[string]interface{}{
			"successful": successful,
			"raised":     campaign.Raised,
			"goal":       campaign.Goal,
		})
		return nil
	})
	if err != nil {
		return false, err
	}
	return successful, nil
}
