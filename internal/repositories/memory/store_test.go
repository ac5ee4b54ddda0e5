package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	alice = common.HexToAddress("0x1000000000000000000000000000000000000001")
	bob   = common.HexToAddress("0x2000000000000000000000000000000000000002")
)

func testCampaign(id ledger.CampaignID) *ledger.Campaign {
	return &ledger.Campaign{
		ID:        id,
		Organizer: alice,
		Goal:      100,
		Deadline:  10,
		Active:    true,
		Milestones: []ledger.Milestone{
			{Description: "first", Percentage: 60},
			{Description: "second", Percentage: 40},
		},
	}
}

func TestUpdateCommits(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	err := store.Update(ctx, func(tx ledger.Tx) error {
		require.NoError(t, tx.PutState(ledger.NewState(alice)))
		require.NoError(t, tx.PutCampaign(testCampaign(1)))
		require.NoError(t, tx.PutContribution(&ledger.Contribution{CampaignID: 1, Contributor: bob, Amount: 5}))
		return tx.AppendEvent(ledger.Event{Name: "test", CampaignID: 1})
	})
	require.NoError(t, err)

	err = store.View(ctx, func(tx ledger.Tx) error {
		state, ok, err := tx.State()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, alice, state.Owner)

		c, ok, err := tx.Campaign(1)
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, c.Milestones, 2)

		contribution, ok, err := tx.Contribution(1, bob)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, uint64(5), contribution.Amount)

		events, err := tx.Events(1)
		require.NoError(t, err)
		require.Len(t, events, 1)
		return nil
	})
	require.NoError(t, err)
}

func TestUpdateDiscardsOnError(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	errTest := errors.New("test")

	err := store.Update(ctx, func(tx ledger.Tx) error {
		require.NoError(t, tx.PutCampaign(testCampaign(1)))
		require.NoError(t, tx.AppendEvent(ledger.Event{Name: "test", CampaignID: 1}))
		return errTest
	})
	require.ErrorIs(t, err, errTest)

	err = store.View(ctx, func(tx ledger.Tx) error {
		_, ok, err := tx.Campaign(1)
		require.NoError(t, err)
		require.False(t, ok)

		events, err := tx.Events(1)
		require.NoError(t, err)
		require.Empty(t, events)
		return nil
	})
	require.NoError(t, err)
}

func TestReturnedCampaignIsACopy(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, func(tx ledger.Tx) error {
		return tx.PutCampaign(testCampaign(1))
	}))

	require.NoError(t, store.View(ctx, func(tx ledger.Tx) error {
		c, _, _ := tx.Campaign(1)
		c.Milestones[0].Verified = true
		c.Raised = 50
		return nil
	}))

	require.NoError(t, store.View(ctx, func(tx ledger.Tx) error {
		c, _, _ := tx.Campaign(1)
		require.False(t, c.Milestones[0].Verified)
		require.Zero(t, c.Raised)
		return nil
	}))
}

func TestViewIsReadOnly(t *testing.T) {
	store := NewStore()

	err := store.View(context.Background(), func(tx ledger.Tx) error {
		return tx.PutCampaign(testCampaign(1))
	})
	require.ErrorIs(t, err, ErrReadOnly)
}

func TestStagedWritesVisibleInsideTx(t *testing.T) {
	store := NewStore()

	err := store.Update(context.Background(), func(tx ledger.Tx) error {
		require.NoError(t, tx.PutCampaign(testCampaign(2)))
		require.NoError(t, tx.PutCampaign(testCampaign(1)))

		campaigns, err := tx.Campaigns()
		require.NoError(t, err)
		require.Len(t, campaigns, 2)
		require.Equal(t, ledger.CampaignID(1), campaigns[0].ID)
		require.Equal(t, ledger.CampaignID(2), campaigns[1].ID)
		return nil
	})
	require.NoError(t, err)
}

func TestContributionsSorted(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, func(tx ledger.Tx) error {
		require.NoError(t, tx.PutContribution(&ledger.Contribution{CampaignID: 1, Contributor: bob, Amount: 2}))
		require.NoError(t, tx.PutContribution(&ledger.Contribution{CampaignID: 1, Contributor: alice, Amount: 1}))
		return tx.PutContribution(&ledger.Contribution{CampaignID: 2, Contributor: alice, Amount: 3})
	}))

	require.NoError(t, store.View(ctx, func(tx ledger.Tx) error {
		list, err := tx.Contributions(1)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, alice, list[0].Contributor)
		require.Equal(t, bob, list[1].Contributor)
		return nil
	}))
}

func TestVerificationImmutable(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	v := &ledger.MilestoneVerification{CampaignID: 1, Index: 0, Verifier: alice, Evidence: "proof"}

	require.NoError(t, store.Update(ctx, func(tx ledger.Tx) error {
		return tx.PutVerification(v)
	}))

	err := store.Update(ctx, func(tx ledger.Tx) error {
		return tx.PutVerification(v)
	})
	require.ErrorIs(t, err, ErrVerificationExists)
}
