package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddrShort(t *testing.T) {
	assert.Equal(t, "0x60E..ec2", AddrShort("0x60EbdC73d89a9f02D1cA0EbcD842650873c4dec2"), "should correctly shorten address")
	assert.Equal(t, "test", AddrShort("test"), "shorter strings should remain")
}

func TestPrivKeyStringToAddr(t *testing.T) {
	addr, err := PrivKeyStringToAddr("0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	require.NoError(t, err)
	require.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", addr.Hex())
}

func TestParseAddr(t *testing.T) {
	_, err := ParseAddr("0x123")
	require.Error(t, err)

	addr, err := ParseAddr("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	require.NoError(t, err)
	require.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", addr.Hex())
}
