package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestLedger(t *testing.T) *sqliteLedger {
	t.Helper()
	ledger, err := OpenLedger(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ledger.Close() })
	return ledger.(*sqliteLedger)
}

func TestRecordVoteAwardsPoints(t *testing.T) {
	ledger := openTestLedger(t)
	ctx := context.Background()

	account, earned, err := ledger.RecordVote(ctx, VoteActivity{
		ProposalID:    "p1",
		WalletAddress: "0xABC",
		Direction:     "For",
		Mode:          "snapshot",
		Points:        100,
	})
	require.NoError(t, err)
	require.Equal(t, 100, earned)
	require.Equal(t, 100, account.TotalPoints)
	require.Equal(t, 100, account.AvailablePoints)
	require.Equal(t, 1, account.Level)
	require.Equal(t, 1, account.Streak)
	// Addresses are normalized to lowercase.
	require.Equal(t, "0xabc", account.WalletAddress)
}

func TestRecordVoteIdempotent(t *testing.T) {
	ledger := openTestLedger(t)
	ctx := context.Background()

	_, earned, err := ledger.RecordVote(ctx, VoteActivity{
		ProposalID: "p1", WalletAddress: "0xabc", Points: 100,
	})
	require.NoError(t, err)
	require.Equal(t, 100, earned)

	// Retried notification for the same (proposal, wallet) awards nothing.
	account, earned, err := ledger.RecordVote(ctx, VoteActivity{
		ProposalID: "p1", WalletAddress: "0xABC", Points: 100,
	})
	require.NoError(t, err)
	require.Equal(t, 0, earned)
	require.Equal(t, 100, account.TotalPoints)
}

func TestRecordVoteLevelsUp(t *testing.T) {
	ledger := openTestLedger(t)
	ctx := context.Background()

	var account PointAccount
	for i := 0; i < 5; i++ {
		var err error
		account, _, err = ledger.RecordVote(ctx, VoteActivity{
			ProposalID:    "p" + string(rune('a'+i)),
			WalletAddress: "0xabc",
			Points:        100,
		})
		require.NoError(t, err)
	}
	require.Equal(t, 500, account.TotalPoints)
	require.Equal(t, 2, account.Level)
}

func TestRecordVoteStreak(t *testing.T) {
	ledger := openTestLedger(t)
	ctx := context.Background()

	now := time.Unix(1_700_000_000, 0)
	ledger.now = func() time.Time { return now }

	account, _, err := ledger.RecordVote(ctx, VoteActivity{
		ProposalID: "p1", WalletAddress: "0xabc", Points: 10,
	})
	require.NoError(t, err)
	require.Equal(t, 1, account.Streak)

	// Within the window the streak grows.
	now = now.Add(24 * time.Hour)
	account, _, err = ledger.RecordVote(ctx, VoteActivity{
		ProposalID: "p2", WalletAddress: "0xabc", Points: 10,
	})
	require.NoError(t, err)
	require.Equal(t, 2, account.Streak)

	// Past the window the streak resets.
	now = now.Add(72 * time.Hour)
	account, _, err = ledger.RecordVote(ctx, VoteActivity{
		ProposalID: "p3", WalletAddress: "0xabc", Points: 10,
	})
	require.NoError(t, err)
	require.Equal(t, 1, account.Streak)
}

func TestRecordVoteValidation(t *testing.T) {
	ledger := openTestLedger(t)
	ctx := context.Background()

	_, _, err := ledger.RecordVote(ctx, VoteActivity{WalletAddress: "0xabc"})
	require.Error(t, err)

	_, _, err = ledger.RecordVote(ctx, VoteActivity{ProposalID: "p1"})
	require.Error(t, err)
}

func TestPointsUnknownWallet(t *testing.T) {
	ledger := openTestLedger(t)

	account, err := ledger.Points(context.Background(), "0xNEW")
	require.NoError(t, err)
	require.Equal(t, "0xnew", account.WalletAddress)
	require.Equal(t, 0, account.TotalPoints)
	require.Equal(t, 1, account.Level)
}

func TestLeaderboardOrdering(t *testing.T) {
	ledger := openTestLedger(t)
	ctx := context.Background()

	for wallet, points := range map[string]int{"0xaaa": 60, "0xbbb": 100, "0xccc": 80} {
		_, _, err := ledger.RecordVote(ctx, VoteActivity{
			ProposalID: "p1", WalletAddress: wallet, Points: points,
		})
		require.NoError(t, err)
	}

	top, err := ledger.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, "0xbbb", top[0].WalletAddress)
	require.Equal(t, "0xccc", top[1].WalletAddress)
}
