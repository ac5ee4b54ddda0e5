package ethereum

import (
	"context"
	"time"

	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/Lumerin-protocol/milestone-ledger/internal/lib"
)

// Directory binds collaborator contracts at the addresses the ledger stores
type Directory struct {
	client      EthereumClient
	transactor  *Transactor
	callTimeout time.Duration
}

func NewDirectory(client EthereumClient, transactor *Transactor, callTimeout time.Duration) *Directory {
	return &Directory{
		client:      client,
		transactor:  transactor,
		callTimeout: callTimeout,
	}
}

func (d *Directory) Governance(addr ledger.Identity) (ledger.Governance, error) {
	return &timeoutGovernance{NewGovernance(addr, d.client), d.callTimeout}, nil
}

func (d *Directory) Oracle(addr ledger.Identity) (ledger.Oracle, error) {
	return &timeoutOracle{NewOracle(addr, d.client), d.callTimeout}, nil
}

func (d *Directory) Custodian(addr ledger.Identity) (ledger.Custodian, error) {
	return &timeoutCustodian{NewCustodian(addr, d.client, d.transactor), d.callTimeout}, nil
}

type timeoutGovernance struct {
	*Governance
	timeout time.Duration
}

func (g *timeoutGovernance) IsApproved(ctx context.Context, id ledger.CampaignID) (bool, error) {
	ctx, cancel := lib.WithOptionalTimeout(ctx, g.timeout)
	defer cancel()
	return g.Governance.IsApproved(ctx, id)
}

type timeoutOracle struct {
	*Oracle
	timeout time.Duration
}

func (o *timeoutOracle) VerifyMilestone(ctx context.Context, id ledger.CampaignID, index uint32, evidence string) (bool, error) {
	ctx, cancel := lib.WithOptionalTimeout(ctx, o.timeout)
	defer cancel()
	return o.Oracle.VerifyMilestone(ctx, id, index, evidence)
}

type timeoutCustodian struct {
	*Custodian
	timeout time.Duration
}

func (c *timeoutCustodian) Deposit(ctx context.Context, from ledger.Identity, id ledger.CampaignID, amount uint64) error {
	ctx, cancel := lib.WithOptionalTimeout(ctx, c.timeout)
	defer cancel()
	return c.Custodian.Deposit(ctx, from, id, amount)
}

func (c *timeoutCustodian) ReleaseFunds(ctx context.Context, recipient ledger.Identity, amount uint64) error {
	ctx, cancel := lib.WithOptionalTimeout(ctx, c.timeout)
	defer cancel()
	return c.Custodian.ReleaseFunds(ctx, recipient, amount)
}

func (c *timeoutCustodian) Refund(ctx context.Context, recipient ledger.Identity, id ledger.CampaignID, amount uint64) error {
	ctx, cancel := lib.WithOptionalTimeout(ctx, c.timeout)
	defer cancel()
	return c.Custodian.Refund(ctx, recipient, id, amount)
}
