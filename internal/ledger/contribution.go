package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Lumerin-protocol/milestone-ledger/internal/lib"
)

// Contribute moves amount from the caller into custody and credits it to the campaign
func (l *Ledger) Contribute(ctx context.Context, caller Identity, id CampaignID, amount uint64) error {
	return l.mutate(ctx, "contribute", caller, func(o *op) error {
		campaign, err := o.campaign(id)
		if err != nil {
			return err
		}
		if err := l.checkContribution(o, campaign, amount); err != nil {
			return lib.WrapError(ErrInvalidParam, err)
		}

		err = l.transfer(o, func(c Custodian) error {
			return c.Deposit(o.ctx, o.caller, id, amount)
		})
		if err != nil {
			return err
		}

		campaign.Raised += amount
		if err := o.tx.PutCampaign(campaign); err != nil {
			return err
		}

		contribution, ok, err := o.tx.Contribution(id, o.caller)
		if err != nil {
			return err
		}
		if !ok {
			contribution = &Contribution{CampaignID: id, Contributor: o.caller}
		}
		contribution.Amount += amount
		if err := o.tx.PutContribution(contribution); err != nil {
			return err
		}

		o.emit(EventContributionReceived, id, map[string]interface{}{
			"contributor": o.caller.Hex(),
			"amount":      amount,
			"total":       contribution.Amount,
			"raised":      campaign.Raised,
		})
		return nil
	})
}

func (l *Ledger) checkContribution(o *op, campaign *Campaign, amount uint64) error {
	switch {
	case o.state.Paused:
		return errors.New("ledger is paused")
	case campaign.Paused:
		return fmt.Errorf("campaign %d is paused", campaign.ID)
	case !campaign.Active:
		return fmt.Errorf("campaign %d ended", campaign.ID)
	case !campaign.Approved:
		return fmt.Errorf("campaign %d is not approved", campaign.ID)
	case o.now >= campaign.Deadline:
		return fmt.Errorf("campaign %d deadline %d passed", campaign.ID, campaign.Deadline)
	case amount < l.cfg.MinContribution:
		return fmt.Errorf("amount %d below minimum %d", amount, l.cfg.MinContribution)
	case amount > math.MaxUint64-campaign.Raised:
		return fmt.Errorf("amount %d overflows raised %d", amount, campaign.Raised)
	}
	return nil
}
