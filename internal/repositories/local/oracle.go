package local

import (
	"context"
	"strings"
	"sync"

	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/Lumerin-protocol/milestone-ledger/internal/lib"
)

type milestoneKey struct {
	campaign ledger.CampaignID
	index    uint32
}

// Oracle accepts any non-blank evidence unless the milestone was rejected
type Oracle struct {
	addr     ledger.Identity
	rejected lib.Set[milestoneKey]
	mu       sync.RWMutex
}

func NewOracle(addr ledger.Identity) *Oracle {
	return &Oracle{
		addr:     addr,
		rejected: lib.NewSet[milestoneKey](),
	}
}

func (o *Oracle) ID() string {
	return o.addr.Hex()
}

func (o *Oracle) Reject(id ledger.CampaignID, index uint32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rejected.Add(milestoneKey{id, index})
}

func (o *Oracle) Accept(id ledger.CampaignID, index uint32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rejected.Remove(milestoneKey{id, index})
}

func (o *Oracle) VerifyMilestone(ctx context.Context, id ledger.CampaignID, index uint32, evidence string) (bool, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if strings.TrimSpace(evidence) == "" {
		return false, nil
	}
	return !o.rejected.Contains(milestoneKey{id, index}), nil
}
