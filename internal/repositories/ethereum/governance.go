package ethereum

import (
	"context"
	"errors"

	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

var ErrEmptyOutput = errors.New("contract call returned no values")

// Governance reads campaign approvals from the governance contract
type Governance struct {
	addr     common.Address
	contract *bind.BoundContract
}

func NewGovernance(addr common.Address, caller bind.ContractCaller) *Governance {
	return &Governance{
		addr:     addr,
		contract: bind.NewBoundContract(addr, GovernanceABI, caller, nil, nil),
	}
}

func (g *Governance) IsApproved(ctx context.Context, id ledger.CampaignID) (bool, error) {
	var out []interface{}
	err := g.contract.Call(&bind.CallOpts{Context: ctx}, &out, "isApproved", toBig(uint64(id)))
	if err != nil {
		return false, err
	}
	return unpackBool(out)
}

func unpackBool(out []interface{}) (bool, error) {
	if len(out) == 0 {
		return false, ErrEmptyOutput
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

// Oracle asks the verification contract whether a milestone happened
type Oracle struct {
	addr     common.Address
	contract *bind.BoundContract
}

func NewOracle(addr common.Address, caller bind.ContractCaller) *Oracle {
	return &Oracle{
		addr:     addr,
		contract: bind.NewBoundContract(addr, OracleABI, caller, nil, nil),
	}
}

func (o *Oracle) VerifyMilestone(ctx context.Context, id ledger.CampaignID, index uint32, evidence string) (bool, error) {
	var out []interface{}
	err := o.contract.Call(&bind.CallOpts{Context: ctx}, &out, "verifyMilestone", toBig(uint64(id)), index, evidence)
	if err != nil {
		return false, err
	}
	return unpackBool(out)
}
