package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lumerin-protocol/milestone-ledger/internal/lib"
)

// ClaimRefund returns the caller's whole contribution to a failed refundable campaign.
// A caller without a contribution gets ErrCampaignNotFound whether or not the campaign exists
func (l *Ledger) ClaimRefund(ctx context.Context, caller Identity, id CampaignID) (uint64, error) {
	var amount uint64
	err := l.mutate(ctx, "claim-refund", caller, func(o *op) error {
		contribution, ok, err := o.tx.Contribution(id, o.caller)
		if err != nil {
			return err
		}
		if !ok {
			return lib.WrapError(ErrCampaignNotFound, fmt.Errorf("no contribution to campaign %d", id))
		}
		campaign, err := o.campaign(id)
		if err != nil {
			return err
		}

		switch {
		case o.state.Paused:
			return lib.WrapError(ErrFundsLocked, errors.New("ledger is paused"))
		case campaign.Active:
			return lib.WrapError(ErrFundsLocked, fmt.Errorf("campaign %d is active", id))
		case !campaign.Refundable:
			return lib.WrapError(ErrFundsLocked, fmt.Errorf("campaign %d is not refundable", id))
		case campaign.IsSuccessful():
			return lib.WrapError(ErrFundsLocked, fmt.Errorf("campaign %d met its goal", id))
		case contribution.Refunded:
			return lib.WrapError(ErrFundsLocked, errors.New("already refunded"))
		}

		amount = contribution.Amount
		err = l.transfer(o, func(c Custodian) error {
			return c.Refund(o.ctx, o.caller, id, amount)
		})
		if err != nil {
			return err
		}

		contribution.Refunded = true
		if err := o.tx.PutContribution(contribution); err != nil {
			return err
		}

		o.emit(EventRefundClaimed, id, map[string]interface{}{
			"contributor": o.caller.Hex(),
			"amount":      amount,
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}
