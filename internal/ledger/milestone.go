package ledger

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/Lumerin-protocol/milestone-ledger/internal/lib"
)

func milestoneAt(campaign *Campaign, index uint32) (*Milestone, error) {
	if int64(index) >= int64(len(campaign.Milestones)) {
		return nil, lib.WrapError(ErrInvalidMilestone, fmt.Errorf("campaign %d has %d milestones, got index %d", campaign.ID, len(campaign.Milestones), index))
	}
	return &campaign.Milestones[index], nil
}

// checkMilestoneOpen covers the preconditions shared by verification and release
func checkMilestoneOpen(o *op, campaign *Campaign) error {
	switch {
	case o.state.Paused:
		return lib.WrapError(ErrMilestoneNotReached, errors.New("ledger is paused"))
	case campaign.Paused:
		return lib.WrapError(ErrMilestoneNotReached, fmt.Errorf("campaign %d is paused", campaign.ID))
	case !campaign.Active:
		return lib.WrapError(ErrMilestoneNotReached, fmt.Errorf("campaign %d ended", campaign.ID))
	}
	return nil
}

// VerifyMilestone submits evidence to the oracle and records the verification if the oracle accepts it
func (l *Ledger) VerifyMilestone(ctx context.Context, caller Identity, id CampaignID, index uint32, evidence string) error {
	return l.mutate(ctx, "verify-milestone", caller, func(o *op) error {
		campaign, err := o.campaign(id)
		if err != nil {
			return err
		}
		milestone, err := milestoneAt(campaign, index)
		if err != nil {
			return err
		}
		if n := utf8.RuneCountInString(evidence); n > MaxEvidenceLength {
			return lib.WrapError(ErrInvalidParam, fmt.Errorf("evidence too long: %d, max %d", n, MaxEvidenceLength))
		}
		if err := checkMilestoneOpen(o, campaign); err != nil {
			return err
		}
		if milestone.Verified {
			return lib.WrapError(ErrMilestoneNotReached, fmt.Errorf("milestone %d already verified", index))
		}

		accepted, err := l.verify(o, id, index, evidence)
		if err != nil {
			l.log.Warnf("oracle %s failed for campaign %d milestone %d: %s", lib.AddrShort(o.state.Oracle.Hex()), id, index, err)
			return lib.WrapError(ErrMilestoneNotReached, err)
		}
		if !accepted {
			return lib.WrapError(ErrMilestoneNotReached, fmt.Errorf("oracle rejected milestone %d", index))
		}

		milestone.Verified = true
		if err := o.tx.PutCampaign(campaign); err != nil {
			return err
		}
		err = o.tx.PutVerification(&MilestoneVerification{
			CampaignID: id,
			Index:      index,
			Verifier:   o.caller,
			Timestamp:  o.now,
			Evidence:   evidence,
		})
		if err != nil {
			return err
		}

		o.emit(EventMilestoneVerified, id, map[string]interface{}{
			"index":    index,
			"verifier": o.caller.Hex(),
			"evidence": evidence,
		})
		return nil
	})
}

func (l *Ledger) verify(o *op, id CampaignID, index uint32, evidence string) (bool, error) {
	oracle, err := l.oracle(o)
	if err != nil {
		return false, err
	}
	return oracle.VerifyMilestone(o.ctx, id, index, evidence)
}

// ReleaseMilestoneFunds pays the milestone share of the current raised total to the organizer
// and returns the amount paid
func (l *Ledger) ReleaseMilestoneFunds(ctx context.Context, caller Identity, id CampaignID, index uint32) (uint64, error) {
	var amount uint64
	err := l.mutate(ctx, "release-milestone", caller, func(o *op) error {
		campaign, err := o.campaign(id)
		if err != nil {
			return err
		}
		milestone, err := milestoneAt(campaign, index)
		if err != nil {
			return err
		}
		if err := checkMilestoneOpen(o, campaign); err != nil {
			return err
		}
		if !milestone.Verified {
			return lib.WrapError(ErrMilestoneNotReached, fmt.Errorf("milestone %d is not verified", index))
		}
		if milestone.Released {
			return lib.WrapError(ErrMilestoneNotReached, fmt.Errorf("milestone %d already released", index))
		}

		amount = ReleaseAmount(campaign.Raised, milestone.Percentage)
		if amount < 1 {
			return lib.WrapError(ErrInsufficientFunds, fmt.Errorf("release amount is zero, raised %d", campaign.Raised))
		}

		err = l.transfer(o, func(c Custodian) error {
			return c.ReleaseFunds(o.ctx, campaign.Organizer, amount)
		})
		if err != nil {
			return err
		}

		milestone.Released = true
		milestone.ReleasedAmount = amount
		if err := o.tx.PutCampaign(campaign); err != nil {
			return err
		}

		o.emit(EventMilestoneReleased, id, map[string]interface{}{
			"index":     index,
			"amount":    amount,
			"recipient": campaign.Organizer.Hex(),
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}
