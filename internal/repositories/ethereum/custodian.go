package ethereum

import (
	"context"

	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// Custodian instructs the treasury contract, every call is a mined transaction
type Custodian struct {
	addr       common.Address
	contract   *bind.BoundContract
	transactor *Transactor
}

func NewCustodian(addr common.Address, client EthereumClient, transactor *Transactor) *Custodian {
	return &Custodian{
		addr:       addr,
		contract:   bind.NewBoundContract(addr, CustodianABI, client, client, client),
		transactor: transactor,
	}
}

func (c *Custodian) Deposit(ctx context.Context, from ledger.Identity, id ledger.CampaignID, amount uint64) error {
	_, err := c.transactor.Transact(ctx, c.contract, "deposit", toBig(uint64(id)), from, toBig(amount))
	return err
}

func (c *Custodian) ReleaseFunds(ctx context.Context, recipient ledger.Identity, amount uint64) error {
	_, err := c.transactor.Transact(ctx, c.contract, "releaseFunds", recipient, toBig(amount))
	return err
}

func (c *Custodian) Refund(ctx context.Context, recipient ledger.Identity, id ledger.CampaignID, amount uint64) error {
	_, err := c.transactor.Transact(ctx, c.contract, "refund", recipient, toBig(uint64(id)), toBig(amount))
	return err
}
