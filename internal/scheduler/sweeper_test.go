package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/Lumerin-protocol/milestone-ledger/internal/lib"
	"github.com/Lumerin-protocol/milestone-ledger/internal/repositories/local"
	"github.com/Lumerin-protocol/milestone-ledger/internal/repositories/memory"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

var (
	owner       = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	organizer   = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	contributor = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	service     = common.HexToAddress("0x90F79bf6EB2c4f870365E785982E1f101E93b906")
)

type MockCloser struct {
	mock.Mock
}

func (m *MockCloser) IsPaused(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockCloser) ExpiredCampaigns(ctx context.Context) ([]ledger.CampaignID, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]ledger.CampaignID)
	return ids, args.Error(1)
}

func (m *MockCloser) EndCampaign(ctx context.Context, caller ledger.Identity, id ledger.CampaignID) (bool, error) {
	args := m.Called(ctx, caller, id)
	return args.Bool(0), args.Error(1)
}

type fixture struct {
	ledger    *ledger.Ledger
	clock     *ledger.ManualClock
	gov       *local.Governance
	custodian *local.Custodian
}

func newFixture(t *testing.T) *fixture {
	ctx := context.Background()
	govAddr := common.HexToAddress("0x00000000000000000000000000000000000000b1")
	oracleAddr := common.HexToAddress("0x00000000000000000000000000000000000000b2")
	custodianAddr := common.HexToAddress("0x00000000000000000000000000000000000000b3")

	gov := local.NewGovernance(govAddr)
	custodian := local.NewCustodian(custodianAddr)
	directory := local.NewDirectory()
	directory.Register(gov)
	directory.Register(local.NewOracle(oracleAddr))
	directory.Register(custodian)

	clock := ledger.NewManualClock(1000)
	l := ledger.NewLedger(ledger.Config{Deployer: owner}, memory.NewStore(), directory, clock, nil, &lib.LoggerMock{})
	require.NoError(t, l.Init(ctx))
	require.NoError(t, l.SetCollaboratorAddresses(ctx, owner, govAddr, oracleAddr, custodianAddr))

	return &fixture{ledger: l, clock: clock, gov: gov, custodian: custodian}
}

func (f *fixture) campaign(t *testing.T, goal uint64, deadline ledger.LogicalTime, contribution uint64) ledger.CampaignID {
	ctx := context.Background()
	id, err := f.ledger.CreateCampaign(ctx, organizer, ledger.CreateCampaignParams{
		Goal:       goal,
		Deadline:   deadline,
		Milestones: []ledger.MilestoneSpec{{Description: "Build", Percentage: 100}},
		Metadata:   "Community garden",
		Refundable: true,
	})
	require.NoError(t, err)
	f.gov.Approve(id)
	require.NoError(t, f.ledger.ApproveCampaign(ctx, organizer, id))
	require.NoError(t, f.ledger.Contribute(ctx, contributor, id, contribution))
	return id
}

func TestSweepEndsExpiredUnsuccessfulCampaigns(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	missed := f.campaign(t, 10_000_000, 2000, 1_000_000)
	funded := f.campaign(t, 2_000_000, 2000, 2_000_000)
	later := f.campaign(t, 10_000_000, 5000, 1_000_000)

	sweeper := NewDeadlineSweeper(f.ledger, service, time.Minute, &lib.LoggerMock{})

	ended, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	require.Zero(t, ended)

	f.clock.Set(2000)
	ended, err = sweeper.Sweep(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, ended)

	c, _, err := f.ledger.GetCampaign(ctx, missed)
	require.NoError(t, err)
	require.False(t, c.Active)

	// a funded campaign stays open for its milestones
	c, _, err = f.ledger.GetCampaign(ctx, funded)
	require.NoError(t, err)
	require.True(t, c.Active)

	c, _, err = f.ledger.GetCampaign(ctx, later)
	require.NoError(t, err)
	require.True(t, c.Active)

	events, err := f.ledger.ListEvents(ctx, missed)
	require.NoError(t, err)
	last := events[len(events)-1]
	require.Equal(t, ledger.EventCampaignEnded, last.Name)
	require.Equal(t, service, last.Caller)

	refund, err := f.ledger.ClaimRefund(ctx, contributor, missed)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_000), refund)

	ended, err = sweeper.Sweep(ctx)
	require.NoError(t, err)
	require.Zero(t, ended)
}

func TestSweepSkipsWhilePaused(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.campaign(t, 10_000_000, 2000, 1_000_000)
	f.clock.Set(3000)

	require.NoError(t, f.ledger.Pause(ctx, owner))

	sweeper := NewDeadlineSweeper(f.ledger, service, time.Minute, &lib.LoggerMock{})
	ended, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	require.Zero(t, ended)

	c, _, err := f.ledger.GetCampaign(ctx, id)
	require.NoError(t, err)
	require.True(t, c.Active)
}

func TestSweepContinuesAfterFailure(t *testing.T) {
	ctx := context.Background()
	closer := &MockCloser{}
	closer.On("IsPaused", mock.Anything).Return(false, nil)
	closer.On("ExpiredCampaigns", mock.Anything).Return([]ledger.CampaignID{1, 2, 3}, nil)
	closer.On("EndCampaign", mock.Anything, service, ledger.CampaignID(1)).Return(false, nil)
	closer.On("EndCampaign", mock.Anything, service, ledger.CampaignID(2)).Return(false, ledger.ErrCampaignActive)
	closer.On("EndCampaign", mock.Anything, service, ledger.CampaignID(3)).Return(false, nil)

	sweeper := NewDeadlineSweeper(closer, service, time.Minute, &lib.LoggerMock{})
	ended, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, ended)
	closer.AssertExpectations(t)
}

func TestSweepReturnsListingError(t *testing.T) {
	errStore := errors.New("store unavailable")
	closer := &MockCloser{}
	closer.On("IsPaused", mock.Anything).Return(false, nil)
	closer.On("ExpiredCampaigns", mock.Anything).Return(nil, errStore)

	sweeper := NewDeadlineSweeper(closer, service, time.Minute, &lib.LoggerMock{})
	_, err := sweeper.Sweep(context.Background())
	require.ErrorIs(t, err, errStore)
	closer.AssertNotCalled(t, "EndCampaign", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunSweepsOnInterval(t *testing.T) {
	closer := &MockCloser{}
	closer.On("IsPaused", mock.Anything).Return(false, nil)
	sweeps := atomic.NewInt32(0)
	closer.On("ExpiredCampaigns", mock.Anything).Return([]ledger.CampaignID{}, nil).Run(func(mock.Arguments) {
		sweeps.Inc()
	})

	sweeper := NewDeadlineSweeper(closer, service, 20*time.Millisecond, lib.NewTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Run(ctx) }()

	require.Eventually(t, func() bool {
		return sweeps.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}
