package local

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/Lumerin-protocol/milestone-ledger/internal/lib"
)

var (
	ErrInsufficientBalance = errors.New("insufficient custodial balance")
	ErrZeroAmount          = errors.New("zero amount")
)

// Custodian is a balance book of the funds held in custody. Releases are not tied to a
// campaign, so they are paid from the pool; refunds are limited by the campaign holdings
type Custodian struct {
	addr     ledger.Identity
	pool     uint64
	held     map[ledger.CampaignID]uint64
	paid     map[ledger.Identity]uint64
	mu       sync.Mutex
	failNext error
}

func NewCustodian(addr ledger.Identity) *Custodian {
	return &Custodian{
		addr: addr,
		held: make(map[ledger.CampaignID]uint64),
		paid: make(map[ledger.Identity]uint64),
	}
}

func (c *Custodian) ID() string {
	return c.addr.Hex()
}

// FailNext makes the next transfer fail with err
func (c *Custodian) FailNext(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failNext = err
}

func (c *Custodian) takeFailure() error {
	err := c.failNext
	c.failNext = nil
	return err
}

func (c *Custodian) Deposit(ctx context.Context, from ledger.Identity, id ledger.CampaignID, amount uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure(); err != nil {
		return err
	}
	if amount == 0 {
		return ErrZeroAmount
	}
	c.pool += amount
	c.held[id] += amount
	return nil
}

func (c *Custodian) ReleaseFunds(ctx context.Context, recipient ledger.Identity, amount uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure(); err != nil {
		return err
	}
	if amount > c.pool {
		return lib.WrapError(ErrInsufficientBalance, fmt.Errorf("release %d, pool %d", amount, c.pool))
	}
	c.pool -= amount
	c.paid[recipient] += amount
	return nil
}

func (c *Custodian) Refund(ctx context.Context, recipient ledger.Identity, id ledger.CampaignID, amount uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure(); err != nil {
		return err
	}
	if amount > c.held[id] || amount > c.pool {
		return lib.WrapError(ErrInsufficientBalance, fmt.Errorf("refund %d, campaign %d holds %d", amount, id, c.held[id]))
	}
	c.pool -= amount
	c.held[id] -= amount
	c.paid[recipient] += amount
	return nil
}

func (c *Custodian) Pool() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pool
}

func (c *Custodian) Held(id ledger.CampaignID) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.held[id]
}

func (c *Custodian) Paid(recipient ledger.Identity) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paid[recipient]
}
