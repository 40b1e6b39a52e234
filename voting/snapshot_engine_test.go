package voting

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"votenow/governance"
	"votenow/snapshot"
	"votenow/wallet"
)

func newTestSnapshotEngine(t *testing.T, svc *fakeSnapshots, w *fakeWallet, rw *fakeRewards) Engine {
	t.Helper()
	cfg := Config{
		Proposal:  snapshotProposal(),
		Wallet:    w,
		Snapshots: svc,
		Now:       fixedNow,
	}
	if rw != nil {
		cfg.Rewards = rw
	}
	eng, err := NewEngine(cfg)
	require.NoError(t, err)
	return eng
}

func TestSnapshotSubmitSuccess(t *testing.T) {
	svc := &fakeSnapshots{power: 12.5}
	rw := &fakeRewards{points: 150}
	eng := newTestSnapshotEngine(t, svc, connectedWallet(1), rw)

	eng.Prepare(context.Background())
	eng.Submit(context.Background(), 1, "supports the treasury move")

	st := eng.Status()
	require.Equal(t, PhaseConfirmed, st.Phase)
	require.True(t, st.Voted())
	require.Nil(t, st.Err)
	require.NotNil(t, st.Receipt)
	require.Equal(t, "receipt-1", st.Receipt.ID)
	require.Equal(t, "Qm123", st.Receipt.IPFS)
	require.Empty(t, st.Receipt.TxHash)

	require.NotNil(t, st.Existing)
	require.Equal(t, 1, st.Existing.Choice)
	require.Equal(t, 12.5, st.Existing.Weight)

	require.Equal(t, 150, st.PointsEarned)
	require.Equal(t, 1, rw.calls)
	require.Equal(t, string(governance.DirectionFor), rw.last.Direction)
	require.Equal(t, string(governance.ModeSnapshot), rw.last.Type)
	require.NotNil(t, rw.last.SnapshotReceipt)
	require.Equal(t, "receipt-1", rw.last.SnapshotReceipt.ID)
}

func TestSnapshotSubmitUserRejected(t *testing.T) {
	svc := &fakeSnapshots{}
	w := connectedWallet(1)
	w.signErr = wallet.ErrRejected
	eng := newTestSnapshotEngine(t, svc, w, nil)

	eng.Submit(context.Background(), 1, "")

	st := eng.Status()
	require.Equal(t, PhaseFailed, st.Phase)
	require.NotNil(t, st.Err)
	require.Equal(t, ReasonUserRejected, st.Err.Reason)
	require.True(t, st.Err.Recoverable())
	require.Equal(t, 0, svc.castCalls)

	// Reset returns the machine to Idle; the retry then goes through.
	eng.Reset()
	st = eng.Status()
	require.Equal(t, PhaseIdle, st.Phase)
	require.Nil(t, st.Err)

	w.signErr = nil
	eng.Submit(context.Background(), 1, "")
	require.Equal(t, PhaseConfirmed, eng.Status().Phase)
	require.Equal(t, 1, svc.castCalls)
}

func TestSnapshotSubmitIdempotent(t *testing.T) {
	svc := &fakeSnapshots{}
	eng := newTestSnapshotEngine(t, svc, connectedWallet(1), nil)

	eng.Submit(context.Background(), 2, "")
	require.Equal(t, PhaseConfirmed, eng.Status().Phase)
	require.Equal(t, 1, svc.castCalls)

	// A second trigger on a settled engine is a no-op.
	eng.Submit(context.Background(), 1, "")
	require.Equal(t, 1, svc.castCalls)
	require.Equal(t, 2, eng.Status().Existing.Choice)
}

func TestSnapshotSubmitRewardFailureStaysConfirmed(t *testing.T) {
	svc := &fakeSnapshots{}
	rw := &fakeRewards{err: errors.New("ledger unavailable")}
	eng := newTestSnapshotEngine(t, svc, connectedWallet(1), rw)

	eng.Submit(context.Background(), 1, "")

	st := eng.Status()
	require.Equal(t, PhaseConfirmed, st.Phase)
	require.Nil(t, st.Err)
	require.Equal(t, 0, st.PointsEarned)
	require.Equal(t, 1, rw.calls)
}

func TestSnapshotSubmitConfigMissing(t *testing.T) {
	p := snapshotProposal()
	p.Snapshot.Space = ""
	eng, err := NewEngine(Config{
		Proposal:  p,
		Wallet:    connectedWallet(1),
		Snapshots: &fakeSnapshots{},
		Now:       fixedNow,
	})
	require.NoError(t, err)

	eng.Submit(context.Background(), 1, "")

	st := eng.Status()
	require.Equal(t, PhaseFailed, st.Phase)
	require.Equal(t, ReasonConfigurationMissing, st.Err.Reason)
	require.False(t, st.Err.Recoverable())
}

func TestSnapshotSubmitDetectsExistingVote(t *testing.T) {
	svc := &fakeSnapshots{
		existing: &snapshot.VoteRecord{ID: "vote-9", Choice: 2, Created: 1_699_000_000, VP: 3.5},
	}
	eng := newTestSnapshotEngine(t, svc, connectedWallet(1), nil)

	eng.Submit(context.Background(), 1, "")

	st := eng.Status()
	require.True(t, st.Voted())
	require.Equal(t, 0, svc.castCalls)
	require.Equal(t, "vote-9", st.Existing.ID)
	require.Equal(t, 2, st.Existing.Choice)
	require.Equal(t, 3.5, st.Existing.Weight)
	require.Nil(t, st.Receipt)
}

func TestSnapshotSubmitLookupFailureProceeds(t *testing.T) {
	svc := &fakeSnapshots{existingErr: errors.New("hub timeout")}
	eng := newTestSnapshotEngine(t, svc, connectedWallet(1), nil)

	eng.Submit(context.Background(), 1, "")

	// The duplicate check is best-effort; the sequencer enforces for real.
	require.Equal(t, PhaseConfirmed, eng.Status().Phase)
	require.Equal(t, 1, svc.castCalls)
}

func TestSnapshotSubmitDisconnectedRedirectsToConnect(t *testing.T) {
	svc := &fakeSnapshots{}
	w := &fakeWallet{connected: false}
	eng := newTestSnapshotEngine(t, svc, w, nil)

	eng.Submit(context.Background(), 1, "")

	require.Equal(t, PhaseIdle, eng.Status().Phase)
	require.Equal(t, 1, w.connectCalls)
	require.Equal(t, 0, svc.castCalls)
}

func TestSnapshotPrepareLoadsPowerAndExisting(t *testing.T) {
	svc := &fakeSnapshots{
		power:    42,
		existing: &snapshot.VoteRecord{ID: "vote-1", Choice: 1, VP: 42},
	}
	eng := newTestSnapshotEngine(t, svc, connectedWallet(1), nil)

	eng.Prepare(context.Background())

	st := eng.Status()
	require.NotNil(t, st.Power)
	require.Equal(t, 42.0, st.Power.Score)
	require.False(t, st.PowerLoading)
	require.False(t, st.ExistingLoading)
	require.True(t, st.Voted())
}

func TestSnapshotResetDoesNotClearConfirmed(t *testing.T) {
	svc := &fakeSnapshots{}
	eng := newTestSnapshotEngine(t, svc, connectedWallet(1), nil)

	eng.Submit(context.Background(), 1, "")
	require.Equal(t, PhaseConfirmed, eng.Status().Phase)

	eng.Reset()
	require.Equal(t, PhaseConfirmed, eng.Status().Phase)
}
