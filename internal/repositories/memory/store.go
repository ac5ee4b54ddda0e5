package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"golang.org/x/exp/slices"
)

type contributionKey struct {
	campaign    ledger.CampaignID
	contributor ledger.Identity
}

type verificationKey struct {
	campaign ledger.CampaignID
	index    uint32
}

// Store keeps the ledger in process memory. Writes of an Update are staged and applied
// only when the callback succeeds
type Store struct {
	state         *ledger.State
	campaigns     map[ledger.CampaignID]*ledger.Campaign
	contributions map[contributionKey]*ledger.Contribution
	verifications map[verificationKey]*ledger.MilestoneVerification
	events        []ledger.Event

	mu sync.RWMutex
}

func NewStore() *Store {
	return &Store{
		campaigns:     make(map[ledger.CampaignID]*ledger.Campaign),
		contributions: make(map[contributionKey]*ledger.Contribution),
		verifications: make(map[verificationKey]*ledger.MilestoneVerification),
	}
}

func (s *Store) View(ctx context.Context, fn func(tx ledger.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(newTx(s, true))
}

func (s *Store) Update(ctx context.Context, fn func(tx ledger.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := newTx(s, false)
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// Close is a no-op, the state lives as long as the store value
func (s *Store) Close() error {
	return nil
}

type tx struct {
	store    *Store
	readOnly bool

	state         *ledger.State
	campaigns     map[ledger.CampaignID]*ledger.Campaign
	contributions map[contributionKey]*ledger.Contribution
	verifications map[verificationKey]*ledger.MilestoneVerification
	events        []ledger.Event
}

func newTx(s *Store, readOnly bool) *tx {
	return &tx{
		store:         s,
		readOnly:      readOnly,
		campaigns:     make(map[ledger.CampaignID]*ledger.Campaign),
		contributions: make(map[contributionKey]*ledger.Contribution),
		verifications: make(map[verificationKey]*ledger.MilestoneVerification),
	}
}

func (t *tx) commit() {
	if t.state != nil {
		t.store.state = t.state
	}
	for id, c := range t.campaigns {
		t.store.campaigns[id] = c
	}
	for key, c := range t.contributions {
		t.store.contributions[key] = c
	}
	for key, v := range t.verifications {
		t.store.verifications[key] = v
	}
	t.store.events = append(t.store.events, t.events...)
}

func (t *tx) State() (ledger.State, bool, error) {
	if t.state != nil {
		return *t.state, true, nil
	}
	if t.store.state != nil {
		return *t.store.state, true, nil
	}
	return ledger.State{}, false, nil
}

func (t *tx) PutState(state ledger.State) error {
	if t.readOnly {
		return ErrReadOnly
	}
	t.state = &state
	return nil
}

func (t *tx) campaign(id ledger.CampaignID) (*ledger.Campaign, bool) {
	if c, ok := t.campaigns[id]; ok {
		return c, true
	}
	c, ok := t.store.campaigns[id]
	return c, ok
}

func (t *tx) Campaign(id ledger.CampaignID) (*ledger.Campaign, bool, error) {
	c, ok := t.campaign(id)
	if !ok {
		return nil, false, nil
	}
	return c.Clone(), true, nil
}

func (t *tx) PutCampaign(campaign *ledger.Campaign) error {
	if t.readOnly {
		return ErrReadOnly
	}
	t.campaigns[campaign.ID] = campaign.Clone()
	return nil
}

func (t *tx) Campaigns() ([]*ledger.Campaign, error) {
	ids := make([]ledger.CampaignID, 0, len(t.store.campaigns)+len(t.campaigns))
	for id := range t.store.campaigns {
		ids = append(ids, id)
	}
	for id := range t.campaigns {
		if _, ok := t.store.campaigns[id]; !ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	res := make([]*ledger.Campaign, 0, len(ids))
	for _, id := range ids {
		c, _ := t.campaign(id)
		res = append(res, c.Clone())
	}
	return res, nil
}

func (t *tx) Contribution(id ledger.CampaignID, contributor ledger.Identity) (*ledger.Contribution, bool, error) {
	key := contributionKey{id, contributor}
	c, ok := t.contributions[key]
	if !ok {
		c, ok = t.store.contributions[key]
	}
	if !ok {
		return nil, false, nil
	}
	cp := *c
	return &cp, true, nil
}

func (t *tx) PutContribution(contribution *ledger.Contribution) error {
	if t.readOnly {
		return ErrReadOnly
	}
	cp := *contribution
	t.contributions[contributionKey{cp.CampaignID, cp.Contributor}] = &cp
	return nil
}

func (t *tx) Contributions(id ledger.CampaignID) ([]*ledger.Contribution, error) {
	merged := make(map[ledger.Identity]*ledger.Contribution)
	for key, c := range t.store.contributions {
		if key.campaign == id {
			merged[key.contributor] = c
		}
	}
	for key, c := range t.contributions {
		if key.campaign == id {
			merged[key.contributor] = c
		}
	}

	res := make([]*ledger.Contribution, 0, len(merged))
	for _, c := range merged {
		cp := *c
		res = append(res, &cp)
	}
	slices.SortStableFunc(res, func(a, b *ledger.Contribution) int {
		return bytes.Compare(a.Contributor.Bytes(), b.Contributor.Bytes())
	})
	return res, nil
}

func (t *tx) Verification(id ledger.CampaignID, index uint32) (*ledger.MilestoneVerification, bool, error) {
	key := verificationKey{id, index}
	v, ok := t.verifications[key]
	if !ok {
		v, ok = t.store.verifications[key]
	}
	if !ok {
		return nil, false, nil
	}
	cp := *v
	return &cp, true, nil
}

func (t *tx) PutVerification(verification *ledger.MilestoneVerification) error {
	if t.readOnly {
		return ErrReadOnly
	}
	key := verificationKey{verification.CampaignID, verification.Index}
	if _, ok := t.store.verifications[key]; ok {
		return ErrVerificationExists
	}
	cp := *verification
	t.verifications[key] = &cp
	return nil
}

func (t *tx) AppendEvent(event ledger.Event) error {
	if t.readOnly {
		return ErrReadOnly
	}
	t.events = append(t.events, event)
	return nil
}

func (t *tx) Events(id ledger.CampaignID) ([]ledger.Event, error) {
	var res []ledger.Event
	for _, events := range [][]ledger.Event{t.store.events, t.events} {
		for _, e := range events {
			if e.CampaignID == id {
				res = append(res, e)
			}
		}
	}
	return res, nil
}
