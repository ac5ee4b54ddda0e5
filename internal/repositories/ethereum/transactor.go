package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/Lumerin-protocol/milestone-ledger/internal/interfaces"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var ErrTxReverted = errors.New("transaction reverted")

// Transactor signs and submits transactions from a single wallet, tracking the nonce locally
// so that consecutive transactions do not reuse a pending nonce
type Transactor struct {
	// config
	legacyTx bool // use legacy transaction fee, for local node testing

	// state
	nonce uint64
	mutex sync.Mutex

	// deps
	client EthereumClient
	wallet *Wallet
	log    interfaces.ILogger
}

func NewTransactor(client EthereumClient, wallet *Wallet, legacyTx bool, log interfaces.ILogger) *Transactor {
	return &Transactor{
		legacyTx: legacyTx,
		client:   client,
		wallet:   wallet,
		log:      log,
	}
}

func (t *Transactor) From() common.Address {
	return t.wallet.Address()
}

// Transact submits the call and waits until it is mined
func (t *Transactor) Transact(ctx context.Context, contract *bind.BoundContract, method string, params ...interface{}) (*types.Receipt, error) {
	opts, err := t.getTransactOpts(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := contract.Transact(opts, method, params...)
	if err != nil {
		t.releaseNonce(opts.Nonce.Uint64())
		return nil, err
	}
	t.log.Debugf("%s submitted, tx %s, nonce %d", method, tx.Hash().Hex(), tx.Nonce())

	receipt, err := bind.WaitMined(ctx, t.client, tx)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s in tx %s", ErrTxReverted, method, tx.Hash().Hex())
	}
	t.log.Debugf("%s mined in block %s", method, receipt.BlockNumber)
	return receipt, nil
}

func (t *Transactor) getTransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	chainId, err := t.client.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	transactOpts, err := bind.NewKeyedTransactorWithChainID(t.wallet.PrivateKey(), chainId)
	if err != nil {
		return nil, err
	}

	if t.legacyTx {
		gasPrice, err := t.client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, err
		}
		transactOpts.GasPrice = gasPrice
	}

	nonce, err := t.getNonce(ctx, t.wallet.Address())
	if err != nil {
		return nil, err
	}

	transactOpts.Value = big.NewInt(0)
	transactOpts.Nonce = nonce
	transactOpts.Context = ctx

	return transactOpts, nil
}

func (t *Transactor) getNonce(ctx context.Context, from common.Address) (*big.Int, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	nonce := &big.Int{}
	blockchainNonce, err := t.client.PendingNonceAt(ctx, from)
	if err != nil {
		return nonce, err
	}

	if t.nonce > blockchainNonce {
		nonce.SetUint64(t.nonce)
	} else {
		nonce.SetUint64(blockchainNonce)
	}

	t.nonce = nonce.Uint64() + 1

	return nonce, nil
}

// releaseNonce returns a nonce that was never submitted. When later nonces were handed out
// in the meantime the local counter is dropped and the next call reads the pending nonce again
func (t *Transactor) releaseNonce(nonce uint64) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.nonce == nonce+1 {
		t.nonce = nonce
		return
	}
	t.nonce = 0
}
