package ethereum

import (
	"context"

	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
)

type BlockNumberer interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// BlockClock uses the chain head height as logical time
type BlockClock struct {
	client BlockNumberer
}

func NewBlockClock(client BlockNumberer) *BlockClock {
	return &BlockClock{client: client}
}

func (c *BlockClock) Now(ctx context.Context) (ledger.LogicalTime, error) {
	height, err := c.client.BlockNumber(ctx)
	if err != nil {
		return 0, err
	}
	return ledger.LogicalTime(height), nil
}
