package ethereum

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/Lumerin-protocol/milestone-ledger/internal/lib"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"
)

// Wallet signs the custodian transactions
type Wallet struct {
	address    common.Address
	privateKey *ecdsa.PrivateKey
}

func NewWalletFromMnemonic(mnemonic string, accountIndex int) (*Wallet, error) {
	wallet, err := hdwallet.NewFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}

	path := hdwallet.MustParseDerivationPath(fmt.Sprintf("m/44'/60'/0'/0/%d", accountIndex))

	account, err := wallet.Derive(path, false)
	if err != nil {
		return nil, err
	}

	privateKeyHex, err := wallet.PrivateKeyHex(account)
	if err != nil {
		return nil, err
	}

	return NewWalletFromPrivateKey(privateKeyHex)
}

func NewWalletFromPrivateKey(privateKey string) (*Wallet, error) {
	privKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKey, "0x"))
	if err != nil {
		return nil, err
	}

	address, err := lib.PrivKeyToAddr(privKey)
	if err != nil {
		return nil, err
	}

	return &Wallet{
		address:    address,
		privateKey: privKey,
	}, nil
}

func (w *Wallet) Address() common.Address {
	return w.address
}

func (w *Wallet) PrivateKey() *ecdsa.PrivateKey {
	return w.privateKey
}
