package ledger_test

import (
	"context"
	"sync"

	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/stretchr/testify/mock"
)

type MockGovernance struct {
	mock.Mock
}

func (m *MockGovernance) IsApproved(ctx context.Context, campaignID ledger.CampaignID) (bool, error) {
	args := m.Called(ctx, campaignID)
	return args.Bool(0), args.Error(1)
}

type MockOracle struct {
	mock.Mock
}

func (m *MockOracle) VerifyMilestone(ctx context.Context, campaignID ledger.CampaignID, index uint32, evidence string) (bool, error) {
	args := m.Called(ctx, campaignID, index, evidence)
	return args.Bool(0), args.Error(1)
}

type MockCustodian struct {
	mock.Mock
}

func (m *MockCustodian) Deposit(ctx context.Context, from ledger.Identity, campaignID ledger.CampaignID, amount uint64) error {
	args := m.Called(ctx, from, campaignID, amount)
	return args.Error(0)
}

func (m *MockCustodian) ReleaseFunds(ctx context.Context, recipient ledger.Identity, amount uint64) error {
	args := m.Called(ctx, recipient, amount)
	return args.Error(0)
}

func (m *MockCustodian) Refund(ctx context.Context, recipient ledger.Identity, campaignID ledger.CampaignID, amount uint64) error {
	args := m.Called(ctx, recipient, campaignID, amount)
	return args.Error(0)
}

// staticDirectory serves the same collaborators for every address and records the lookups
type staticDirectory struct {
	governance *MockGovernance
	oracle     *MockOracle
	custodian  *MockCustodian

	mu      sync.Mutex
	lookups []ledger.Identity
}

func (d *staticDirectory) record(addr ledger.Identity) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lookups = append(d.lookups, addr)
}

func (d *staticDirectory) Governance(addr ledger.Identity) (ledger.Governance, error) {
	d.record(addr)
	return d.governance, nil
}

func (d *staticDirectory) Oracle(addr ledger.Identity) (ledger.Oracle, error) {
	d.record(addr)
	return d.oracle, nil
}

func (d *staticDirectory) Custodian(addr ledger.Identity) (ledger.Custodian, error) {
	d.record(addr)
	return d.custodian, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ledger.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event ledger.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, len(p.events))
	for i, e := range p.events {
		names[i] = e.Name
	}
	return names
}
