package local

import (
	"errors"
	"fmt"

	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/Lumerin-protocol/milestone-ledger/internal/lib"
	"github.com/ethereum/go-ethereum/common"
)

// Addresses the simulators are deployed at when none are configured
var (
	DefaultGovernanceAddress = common.HexToAddress("0x000000000000000000000000000000000000a001")
	DefaultOracleAddress     = common.HexToAddress("0x000000000000000000000000000000000000a002")
	DefaultCustodianAddress  = common.HexToAddress("0x000000000000000000000000000000000000a003")
)

var (
	ErrNotDeployed = errors.New("no collaborator deployed at address")
	ErrWrongKind   = errors.New("collaborator at address has a different kind")
)

// Directory maps addresses to in-process collaborators
type Directory struct {
	collaborators *lib.Collection[lib.IDer]
}

func NewDirectory() *Directory {
	return &Directory{
		collaborators: lib.NewCollection[lib.IDer](),
	}
}

// Register deploys the collaborator at the address returned by its ID
func (d *Directory) Register(collaborator lib.IDer) {
	d.collaborators.Store(collaborator)
}

func (d *Directory) lookup(addr ledger.Identity) (lib.IDer, error) {
	c, ok := d.collaborators.Load(addr.Hex())
	if !ok {
		return nil, lib.WrapError(ErrNotDeployed, fmt.Errorf("%s", addr.Hex()))
	}
	return c, nil
}

func (d *Directory) Governance(addr ledger.Identity) (ledger.Governance, error) {
	c, err := d.lookup(addr)
	if err != nil {
		return nil, err
	}
	g, ok := c.(ledger.Governance)
	if !ok {
		return nil, lib.WrapError(ErrWrongKind, fmt.Errorf("%s is not governance", addr.Hex()))
	}
	return g, nil
}

func (d *Directory) Oracle(addr ledger.Identity) (ledger.Oracle, error) {
	c, err := d.lookup(addr)
	if err != nil {
		return nil, err
	}
	o, ok := c.(ledger.Oracle)
	if !ok {
		return nil, lib.WrapError(ErrWrongKind, fmt.Errorf("%s is not an oracle", addr.Hex()))
	}
	return o, nil
}

func (d *Directory) Custodian(addr ledger.Identity) (ledger.Custodian, error) {
	c, err := d.lookup(addr)
	if err != nil {
		return nil, err
	}
	cu, ok := c.(ledger.Custodian)
	if !ok {
		return nil, lib.WrapError(ErrWrongKind, fmt.Errorf("%s is not a custodian", addr.Hex()))
	}
	return cu, nil
}
