package gormstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/Lumerin-protocol/milestone-ledger/internal/lib"
	"github.com/Lumerin-protocol/milestone-ledger/internal/repositories/gormstore"
	"github.com/Lumerin-protocol/milestone-ledger/internal/repositories/local"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	owner       = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	organizer   = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	contributor = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
)

// TestLedgerOnSQLite runs a whole campaign against the relational store and reopens it
func TestLedgerOnSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")
	log := &lib.LoggerMock{}

	store, err := gormstore.Open(gormstore.DriverSQLite, path, log)
	require.NoError(t, err)

	govAddr := common.HexToAddress("0x00000000000000000000000000000000000000b1")
	oracleAddr := common.HexToAddress("0x00000000000000000000000000000000000000b2")
	custodianAddr := common.HexToAddress("0x00000000000000000000000000000000000000b3")
	gov := local.NewGovernance(govAddr)
	oracle := local.NewOracle(oracleAddr)
	custodian := local.NewCustodian(custodianAddr)
	directory := local.NewDirectory()
	directory.Register(gov)
	directory.Register(oracle)
	directory.Register(custodian)

	clock := ledger.NewManualClock(1000)
	l := ledger.NewLedger(ledger.Config{Deployer: owner}, store, directory, clock, nil, log)
	require.NoError(t, l.Init(ctx))
	require.NoError(t, l.SetCollaboratorAddresses(ctx, owner, govAddr, oracleAddr, custodianAddr))

	id, err := l.CreateCampaign(ctx, organizer, ledger.CreateCampaignParams{
		Goal:     10_000_000,
		Deadline: 2000,
		Milestones: []ledger.MilestoneSpec{
			{Description: "Survey", Percentage: 50},
			{Description: "Report", Percentage: 50},
		},
		Metadata:   "Ocean research",
		Refundable: true,
	})
	require.NoError(t, err)
	require.Equal(t, ledger.CampaignID(1), id)

	require.ErrorIs(t, l.ApproveCampaign(ctx, organizer, id), ledger.ErrNotApproved)
	gov.Approve(id)
	require.NoError(t, l.ApproveCampaign(ctx, organizer, id))

	require.NoError(t, l.Contribute(ctx, contributor, id, 2_000_000))
	require.NoError(t, l.Contribute(ctx, contributor, id, 2_000_000))

	custodian.FailNext(local.ErrInsufficientBalance)
	require.ErrorIs(t, l.Contribute(ctx, contributor, id, 2_000_000), ledger.ErrTransferFailed)

	require.NoError(t, l.VerifyMilestone(ctx, organizer, id, 0, "Evidence"))
	amount, err := l.ReleaseMilestoneFunds(ctx, organizer, id, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(2_000_000), amount)
	require.Equal(t, uint64(2_000_000), custodian.Paid(organizer))

	clock.Set(2000)
	successful, err := l.EndCampaign(ctx, contributor, id)
	require.NoError(t, err)
	require.False(t, successful)

	// the pool only holds what was not released
	_, err = l.ClaimRefund(ctx, contributor, id)
	require.ErrorIs(t, err, ledger.ErrTransferFailed)

	require.NoError(t, store.Close())

	reopened, err := gormstore.Open(gormstore.DriverSQLite, path, log)
	require.NoError(t, err)
	defer reopened.Close()
	l = ledger.NewLedger(ledger.Config{Deployer: owner}, reopened, directory, clock, nil, log)

	campaign, ok, err := l.GetCampaign(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(4_000_000), campaign.Raised)
	require.False(t, campaign.Active)
	require.True(t, campaign.Milestones[0].Released)
	require.Equal(t, uint64(2_000_000), campaign.Milestones[0].ReleasedAmount)

	contribution, ok, err := l.GetContribution(ctx, id, contributor)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(4_000_000), contribution.Amount)
	require.False(t, contribution.Refunded)

	state, err := l.GetState(ctx)
	require.NoError(t, err)
	require.Equal(t, custodianAddr, state.Custodian)
	require.Equal(t, ledger.CampaignID(2), state.NextCampaignID)

	events, err := l.ListEvents(ctx, id)
	require.NoError(t, err)
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.Name
	}
	require.Equal(t, []string{
		ledger.EventCampaignCreated,
		ledger.EventCampaignApproved,
		ledger.EventContributionReceived,
		ledger.EventContributionReceived,
		ledger.EventMilestoneVerified,
		ledger.EventMilestoneReleased,
		ledger.EventCampaignEnded,
	}, names)
}
