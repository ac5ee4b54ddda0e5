package ethereum

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/ethclient"
)

// EthereumClient is the part of the node api used by the collaborator adapters
type EthereumClient interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

type EthClient struct {
	// config
	url string

	// state
	*ethclient.Client
}

func DialContext(ctx context.Context, url string) (*EthClient, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}
	return &EthClient{
		Client: client,
		url:    url,
	}, nil
}

func (c *EthClient) URL() string {
	return c.url
}
