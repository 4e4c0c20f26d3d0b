package connection

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/collab-matcher/internal/profile"
	"github.com/spigell/collab-matcher/internal/storage"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T, log *zap.Logger) (*Manager, *storage.Store) {
	t.Helper()

	store, err := storage.Open(storage.DriverSQLite, filepath.Join(t.TempDir(), "collab.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	require.NoError(t, store.SaveAll(context.Background(), []*profile.Profile{
		{ID: "nino", Name: "Nino", Role: "Hotel Manager", Industry: "Hospitality"},
		{ID: "giorgi", Name: "Giorgi", Role: "Software Developer", Industry: "Technology"},
		{ID: "ana", Name: "Ana", Role: "Photographer", Industry: "Photography"},
	}))

	m := NewManager(store, log)
	m.now = func() time.Time { return fixedNow }
	return m, store
}

func recordOf(t *testing.T, store *storage.Store, owner, peer string) *profile.ConnectionRecord {
	t.Helper()
	p, err := store.GetByID(context.Background(), owner)
	require.NoError(t, err)
	return p.Connection(peer)
}

func TestSendCreatesMirroredPendingRecords(t *testing.T) {
	t.Parallel()

	m, store := newTestManager(t, nil)
	ctx := context.Background()

	rec, err := m.Send(ctx, "nino", "giorgi")
	require.NoError(t, err)
	assert.Equal(t, profile.StatusPending, rec.Status)

	own := recordOf(t, store, "nino", "giorgi")
	mirror := recordOf(t, store, "giorgi", "nino")
	require.NotNil(t, own)
	require.NotNil(t, mirror)

	assert.Equal(t, profile.StatusPending, own.Status)
	assert.Equal(t, profile.StatusPending, mirror.Status)
	assert.Equal(t, "nino", own.InitiatedBy)
	assert.Equal(t, "nino", mirror.InitiatedBy)
	assert.True(t, own.ConnectedAt.Equal(mirror.ConnectedAt))
	assert.True(t, own.ConnectedAt.Equal(fixedNow))
}

func TestSendErrors(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, nil)
	ctx := context.Background()

	_, err := m.Send(ctx, "nino", "nino")
	assert.ErrorIs(t, err, profile.ErrSelfConnection)

	_, err = m.Send(ctx, "nino", "ghost")
	assert.ErrorIs(t, err, profile.ErrNotFound)

	_, err = m.Send(ctx, "ghost", "nino")
	assert.ErrorIs(t, err, profile.ErrNotFound)

	_, err = m.Send(ctx, "nino", "giorgi")
	require.NoError(t, err)

	_, err = m.Send(ctx, "nino", "giorgi")
	assert.ErrorIs(t, err, profile.ErrConflict)
	assert.Contains(t, err.Error(), "connection already pending")

	_, err = m.Send(ctx, "giorgi", "nino")
	assert.ErrorIs(t, err, profile.ErrConflict)

	_, err = m.Accept(ctx, "giorgi", "nino")
	require.NoError(t, err)

	_, err = m.Send(ctx, "giorgi", "nino")
	assert.ErrorIs(t, err, profile.ErrConflict)
	assert.Contains(t, err.Error(), "connection already accepted")
}

func TestAccept(t *testing.T) {
	t.Parallel()

	m, store := newTestManager(t, nil)
	ctx := context.Background()

	_, err := m.Send(ctx, "nino", "giorgi")
	require.NoError(t, err)

	_, err = m.Accept(ctx, "nino", "giorgi")
	assert.ErrorIs(t, err, profile.ErrInvalidTransition, "initiator cannot accept its own request")

	rec, err := m.Accept(ctx, "giorgi", "nino")
	require.NoError(t, err)
	assert.Equal(t, profile.StatusAccepted, rec.Status)

	assert.Equal(t, profile.StatusAccepted, recordOf(t, store, "giorgi", "nino").Status)
	assert.Equal(t, profile.StatusAccepted, recordOf(t, store, "nino", "giorgi").Status)
	assert.True(t, recordOf(t, store, "nino", "giorgi").ConnectedAt.Equal(fixedNow))

	_, err = m.Accept(ctx, "giorgi", "nino")
	assert.ErrorIs(t, err, profile.ErrInvalidTransition)

	_, err = m.Reject(ctx, "giorgi", "nino")
	assert.ErrorIs(t, err, profile.ErrInvalidTransition)

	_, err = m.Accept(ctx, "ana", "nino")
	assert.ErrorIs(t, err, profile.ErrNotFound)
}

func TestReject(t *testing.T) {
	t.Parallel()

	m, store := newTestManager(t, nil)
	ctx := context.Background()

	_, err := m.Send(ctx, "ana", "nino")
	require.NoError(t, err)

	_, err = m.Reject(ctx, "ana", "nino")
	assert.ErrorIs(t, err, profile.ErrInvalidTransition)

	rec, err := m.Reject(ctx, "nino", "ana")
	require.NoError(t, err)
	assert.Equal(t, profile.StatusRejected, rec.Status)
	assert.Equal(t, profile.StatusRejected, recordOf(t, store, "ana", "nino").Status)

	_, err = m.Accept(ctx, "nino", "ana")
	assert.ErrorIs(t, err, profile.ErrInvalidTransition)
}

func TestAcceptRepairsMissingMirror(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	m, store := newTestManager(t, zap.New(core))
	ctx := context.Background()

	// A request giorgi received from nino, with nino's side lost.
	err := store.UpdatePair(ctx, "giorgi", "nino", func(_, _ *profile.ConnectionRecord) ([]profile.ConnectionRecord, error) {
		return []profile.ConnectionRecord{{
			OwnerID:     "giorgi",
			PeerID:      "nino",
			Status:      profile.StatusPending,
			InitiatedBy: "nino",
			ConnectedAt: fixedNow,
		}}, nil
	})
	require.NoError(t, err)
	require.Nil(t, recordOf(t, store, "nino", "giorgi"))

	_, err = m.Accept(ctx, "giorgi", "nino")
	require.NoError(t, err)

	repaired := recordOf(t, store, "nino", "giorgi")
	require.NotNil(t, repaired)
	assert.Equal(t, profile.StatusAccepted, repaired.Status)
	assert.Equal(t, "nino", repaired.InitiatedBy)

	assert.Equal(t, 1, logs.FilterMessage("mirror connection record missing, recreating it").Len())
}

func TestRespondToDeletedPeer(t *testing.T) {
	t.Parallel()

	m, store := newTestManager(t, nil)
	ctx := context.Background()

	_, err := m.Send(ctx, "nino", "giorgi")
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "nino"))

	_, err = m.Accept(ctx, "giorgi", "nino")
	assert.ErrorIs(t, err, profile.ErrNotFound)
	_, err = m.Reject(ctx, "giorgi", "nino")
	assert.ErrorIs(t, err, profile.ErrNotFound)

	assert.Equal(t, profile.StatusPending, recordOf(t, store, "giorgi", "nino").Status)

	// A profile recreated under the same ID starts without connections.
	require.NoError(t, store.Save(ctx, &profile.Profile{ID: "nino", Name: "Nino"}))
	assert.Nil(t, recordOf(t, store, "nino", "giorgi"))
}

func TestList(t *testing.T) {
	t.Parallel()

	m, store := newTestManager(t, nil)
	ctx := context.Background()

	entries, err := m.List(ctx, "nino")
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = m.Send(ctx, "nino", "giorgi")
	require.NoError(t, err)
	_, err = m.Send(ctx, "ana", "nino")
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "ana"))

	entries, err = m.List(ctx, "nino")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byPeer := map[string]Entry{}
	for _, e := range entries {
		byPeer[e.Peer.ID] = e
	}

	assert.Equal(t, "Giorgi", byPeer["giorgi"].Peer.Name)
	assert.Equal(t, "Software Developer", byPeer["giorgi"].Peer.Role)
	assert.Equal(t, profile.StatusPending, byPeer["giorgi"].Status)

	assert.Equal(t, profile.Summary{ID: "ana"}, byPeer["ana"].Peer)
	assert.Equal(t, "ana", byPeer["ana"].InitiatedBy)

	_, err = m.List(ctx, "ghost")
	assert.ErrorIs(t, err, profile.ErrNotFound)
}

func TestConcurrentSendCreatesOneRequest(t *testing.T) {
	t.Parallel()

	m, store := newTestManager(t, nil)
	ctx := context.Background()

	const callers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < callers; i++ {
		from, to := "nino", "giorgi"
		if i%2 == 1 {
			from, to = to, from
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Send(ctx, from, to)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, profile.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, callers-1, conflicts)
	assert.Zero(t, m.locks.size())

	own := recordOf(t, store, "nino", "giorgi")
	mirror := recordOf(t, store, "giorgi", "nino")
	require.NotNil(t, own)
	require.NotNil(t, mirror)
	assert.Equal(t, own.InitiatedBy, mirror.InitiatedBy)
}

func TestConcurrentAcceptAndReject(t *testing.T) {
	t.Parallel()

	m, store := newTestManager(t, nil)
	ctx := context.Background()

	_, err := m.Send(ctx, "nino", "giorgi")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = m.Accept(ctx, "giorgi", "nino")
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = m.Reject(ctx, "giorgi", "nino")
	}()
	wg.Wait()

	require.True(t, (errs[0] == nil) != (errs[1] == nil), "exactly one transition must win: %v", errs)

	own := recordOf(t, store, "giorgi", "nino")
	mirror := recordOf(t, store, "nino", "giorgi")
	assert.Equal(t, own.Status, mirror.Status)
	assert.NotEqual(t, profile.StatusPending, own.Status)
}

func TestPairKeyIsUnordered(t *testing.T) {
	t.Parallel()

	assert.Equal(t, pairKey("a", "b"), pairKey("b", "a"))
	assert.NotEqual(t, pairKey("ab", "c"), pairKey("a", "bc"))
}
