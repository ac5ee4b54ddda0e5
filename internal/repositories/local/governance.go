package local

import (
	"context"
	"sync"

	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/Lumerin-protocol/milestone-ledger/internal/lib"
)

// Governance approves the campaigns put on its approval list
type Governance struct {
	addr     ledger.Identity
	approved lib.Set[ledger.CampaignID]
	mu       sync.RWMutex
}

func NewGovernance(addr ledger.Identity) *Governance {
	return &Governance{
		addr:     addr,
		approved: lib.NewSet[ledger.CampaignID](),
	}
}

func (g *Governance) ID() string {
	return g.addr.Hex()
}

func (g *Governance) Approve(id ledger.CampaignID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.approved.Add(id)
}

func (g *Governance) Revoke(id ledger.CampaignID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.approved.Remove(id)
}

func (g *Governance) IsApproved(ctx context.Context, id ledger.CampaignID) (bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.approved.Contains(id), nil
}
