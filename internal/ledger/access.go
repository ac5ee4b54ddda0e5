package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lumerin-protocol/milestone-ledger/internal/lib"
	"github.com/ethereum/go-ethereum/common"
)

func (l *Ledger) IsOwner(ctx context.Context, caller Identity) (bool, error) {
	state, err := l.GetState(ctx)
	if err != nil {
		return false, err
	}
	return state.Owner == caller, nil
}

func requireOwner(o *op) error {
	if o.caller != o.state.Owner {
		return lib.WrapError(ErrUnauthorized, fmt.Errorf("caller %s is not the owner", o.caller.Hex()))
	}
	return nil
}

// SetCollaboratorAddresses retargets subsequent governance, oracle and custodian calls
func (l *Ledger) SetCollaboratorAddresses(ctx context.Context, caller Identity, governance, oracle, custodian Identity) error {
	return l.mutate(ctx, "set-collaborators", caller, func(o *op) error {
		if err := requireOwner(o); err != nil {
			return err
		}
		for _, addr := range []Identity{governance, oracle, custodian} {
			if addr == (common.Address{}) {
				return lib.WrapError(ErrInvalidParam, errors.New("collaborator address is zero"))
			}
		}

		state := o.state
		state.Governance = governance
		state.Oracle = oracle
		state.Custodian = custodian
		o.setState(state)

		o.emit(EventCollaboratorsUpdated, 0, map[string]interface{}{
			"governance": governance.Hex(),
			"oracle":     oracle.Hex(),
			"custodian":  custodian.Hex(),
		})
		return nil
	})
}

func (l *Ledger) Pause(ctx context.Context, caller Identity) error {
	return l.setPaused(ctx, caller, true)
}

func (l *Ledger) Unpause(ctx context.Context, caller Identity) error {
	return l.setPaused(ctx, caller, false)
}

func (l *Ledger) setPaused(ctx context.Context, caller Identity, paused bool) error {
	name := EventUnpaused
	if paused {
		name = EventPaused
	}
	return l.mutate(ctx, name, caller, func(o *op) error {
		if err := requireOwner(o); err != nil {
			return err
		}
		if o.state.Paused == paused {
			return lib.WrapError(ErrInvalidParam, fmt.Errorf("ledger paused is already %t", paused))
		}

		state := o.state
		state.Paused = paused
		o.setState(state)

		o.emit(name, 0, nil)
		return nil
	})
}

// SetCampaignPaused flips the per-campaign pause flag, it does not affect other campaigns
func (l *Ledger) SetCampaignPaused(ctx context.Context, caller Identity, id CampaignID, paused bool) error {
	name := EventCampaignUnpaused
	if paused {
		name = EventCampaignPaused
	}
	return l.mutate(ctx, name, caller, func(o *op) error {
		if err := requireOwner(o); err != nil {
			return err
		}
		campaign, err := o.campaign(id)
		if err != nil {
			return err
		}
		if campaign.Paused == paused {
			return lib.WrapError(ErrInvalidParam, fmt.Errorf("campaign %d paused is already %t", id, paused))
		}

		campaign.Paused = paused
		if err := o.tx.PutCampaign(campaign); err != nil {
			return err
		}

		o.emit(name, id, nil)
		return nil
	})
}
