package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/Lumerin-protocol/milestone-ledger/internal/interfaces"
	"github.com/Lumerin-protocol/milestone-ledger/internal/lib"
)

type Config struct {
	// Deployer becomes the owner and the initial collaborator address when the store is empty
	Deployer        Identity
	MinContribution uint64
}

// Ledger is the campaign lifecycle and fund accounting engine. Mutating operations are
// serialized and each one commits all of its writes and events or none of them
type Ledger struct {
	cfg       Config
	store     Store
	directory Directory
	clock     Clock
	publisher EventPublisher
	log       interfaces.ILogger

	mu sync.Mutex
}

func NewLedger(cfg Config, store Store, directory Directory, clock Clock, publisher EventPublisher, log interfaces.ILogger) *Ledger {
	if cfg.MinContribution == 0 {
		cfg.MinContribution = DefaultMinContribution
	}
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &Ledger{
		cfg:       cfg,
		store:     store,
		directory: directory,
		clock:     clock,
		publisher: publisher,
		log:       log,
	}
}

// op carries the state of a single mutating operation while its transaction is open
type op struct {
	ctx        context.Context
	name       string
	tx         Tx
	state      State
	stateDirty bool
	caller     Identity
	now        LogicalTime
	events     []Event
}

func (o *op) emit(name string, campaignID CampaignID, data map[string]interface{}) {
	o.events = append(o.events, newEvent(name, campaignID, o.caller, o.now, data))
}

func (o *op) setState(state State) {
	o.state = state
	o.stateDirty = true
}

func (o *op) campaign(id CampaignID) (*Campaign, error) {
	campaign, ok, err := o.tx.Campaign(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, lib.WrapError(ErrCampaignNotFound, fmt.Errorf("id %d", id))
	}
	return campaign, nil
}

func (l *Ledger) mutate(ctx context.Context, name string, caller Identity, fn func(o *op) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now, err := l.clock.Now(ctx)
	if err != nil {
		return fmt.Errorf("cannot read clock: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// once a collaborator has moved funds the writes must land, so the commit ignores cancellation
	var events []Event
	err = l.store.Update(context.WithoutCancel(ctx), func(tx Tx) error {
		state, ok, err := tx.State()
		if err != nil {
			return err
		}
		o := &op{
			ctx:    ctx,
			name:   name,
			tx:     tx,
			state:  state,
			caller: caller,
			now:    now,
		}
		if !ok {
			o.setState(NewState(l.cfg.Deployer))
		}

		if err := fn(o); err != nil {
			return err
		}

		if o.stateDirty {
			if err := tx.PutState(o.state); err != nil {
				return err
			}
		}
		for _, event := range o.events {
			if err := tx.AppendEvent(event); err != nil {
				return err
			}
		}
		events = o.events
		return nil
	})
	if err != nil {
		if IsCategorical(err) {
			l.log.Debugf("%s rejected for %s: %s", name, lib.AddrShort(caller.Hex()), err)
		} else {
			l.log.Errorf("%s failed for %s: %s", name, lib.AddrShort(caller.Hex()), err)
		}
		return err
	}

	for _, event := range events {
		l.log.Infof("%s committed: campaign %d, caller %s, time %d", event.Name, event.CampaignID, lib.AddrShort(caller.Hex()), event.Time)
		l.publisher.Publish(ctx, event)
	}
	return nil
}

// view runs fn against a read only transaction with the state initialized the same way mutate does
func (l *Ledger) view(ctx context.Context, fn func(tx Tx, state State) error) error {
	return l.store.View(ctx, func(tx Tx) error {
		state, ok, err := tx.State()
		if err != nil {
			return err
		}
		if !ok {
			state = NewState(l.cfg.Deployer)
		}
		return fn(tx, state)
	})
}

// Init persists the initial state if the store is empty, it is a no-op otherwise
func (l *Ledger) Init(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.store.Update(ctx, func(tx Tx) error {
		_, ok, err := tx.State()
		if err != nil || ok {
			return err
		}
		l.log.Infof("initializing ledger state, owner %s", l.cfg.Deployer.Hex())
		return tx.PutState(NewState(l.cfg.Deployer))
	})
}

func (l *Ledger) governance(o *op) (Governance, error) {
	return l.directory.Governance(o.state.Governance)
}

func (l *Ledger) oracle(o *op) (Oracle, error) {
	return l.directory.Oracle(o.state.Oracle)
}

func (l *Ledger) custodian(o *op) (Custodian, error) {
	return l.directory.Custodian(o.state.Custodian)
}

// transfer runs a custodian instruction, failures abort the enclosing operation
func (l *Ledger) transfer(o *op, fn func(c Custodian) error) error {
	custodian, err := l.custodian(o)
	if err == nil {
		err = fn(custodian)
	}
	if err != nil {
		l.log.Warnf("%s: custodian %s failed: %s", o.name, lib.AddrShort(o.state.Custodian.Hex()), err)
		return lib.WrapError(ErrTransferFailed, err)
	}
	return nil
}
