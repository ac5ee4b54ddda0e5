package lib

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

func PrivKeyToAddr(privateKey *ecdsa.PrivateKey) (common.Address, error) {
	publicKey := privateKey.Public()
	publicKeyECDSA, ok := publicKey.(*ecdsa.PublicKey)
	if !ok {
		return common.Address{}, fmt.Errorf("error casting public key to ECDSA")
	}

	return crypto.PubkeyToAddress(*publicKeyECDSA), nil
}

// PrivKeyStringToAddr accepts keys with or without 0x prefix
func PrivKeyStringToAddr(privateKey string) (common.Address, error) {
	privKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKey, "0x"))
	if err != nil {
		return common.Address{}, err
	}

	return PrivKeyToAddr(privKey)
}

// AddrShort shortens an address for log output, 0x60E..ec2
func AddrShort(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:5] + ".." + addr[len(addr)-3:]
}

// ParseAddr is strict, unlike common.HexToAddress which silently accepts garbage
func ParseAddr(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address: %q", s)
	}
	return common.HexToAddress(s), nil
}

// MustParseAddr is ParseAddr for input that was validated already
func MustParseAddr(s string) common.Address {
	addr, err := ParseAddr(s)
	if err != nil {
		panic(err)
	}
	return addr
}
