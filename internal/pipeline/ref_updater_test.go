package pipeline

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	pusherrors "gitpusher.dev/gitpusher/internal/errors"
)

var repo = RepoCoordinate{Owner: "owner", Name: "repo"}

func newTestUpdater(remote Remote) (*RefUpdater, *recordingSleeper) {
	sleeper := &recordingSleeper{}
	updater := NewRefUpdater(remote, nil)
	updater.Sleep = sleeper.Sleep
	return updater, sleeper
}

func TestRefUpdater(t *testing.T) {
	t.Run("updates with the freshly fetched SHA as precondition", func(t *testing.T) {
		remote := newFakeRemote()
		updater, sleeper := newTestUpdater(remote)

		outcome, err := updater.Update(context.Background(), repo, "main", "new")
		require.NoError(t, err)
		require.False(t, outcome.Created)
		require.Equal(t, 1, outcome.Attempts)
		require.Equal(t, []string{"base"}, remote.updates)
		require.Equal(t, "new", remote.refs["main"])
		require.Empty(t, sleeper.delays)
	})

	t.Run("retries conflicts with linear backoff", func(t *testing.T) {
		remote := newFakeRemote()
		remote.updateErrs = conflicts(2)
		updater, sleeper := newTestUpdater(remote)

		outcome, err := updater.Update(context.Background(), repo, "main", "new")
		require.NoError(t, err)
		require.Equal(t, 3, outcome.Attempts)
		require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sleeper.delays)
		require.Equal(t, 3, remote.getRefs, "every attempt re-reads the ref")
	})

	t.Run("gives up after three retries", func(t *testing.T) {
		remote := newFakeRemote()
		remote.updateErrs = conflicts(10)
		updater, sleeper := newTestUpdater(remote)

		_, err := updater.Update(context.Background(), repo, "main", "new")
		require.Error(t, err)
		require.ErrorIs(t, err, pusherrors.ErrRetriesExhausted)
		require.ErrorIs(t, err, pusherrors.ErrRefConflict)

		var updateErr *pusherrors.RefUpdateError
		require.True(t, errors.As(err, &updateErr))
		require.Equal(t, 4, updateErr.Attempts)
		require.Len(t, remote.updates, 4)
		require.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, sleeper.delays)
		require.Equal(t, "base", remote.refs["main"])
	})

	t.Run("creates the branch when the update reports not found", func(t *testing.T) {
		remote := newFakeRemote()
		remote.updateErrs = []error{pusherrors.NewRefNotFoundError("main")}
		updater, _ := newTestUpdater(remote)

		outcome, err := updater.Update(context.Background(), repo, "main", "new")
		require.NoError(t, err)
		require.True(t, outcome.Created)
		require.Equal(t, []string{"main"}, remote.created)
	})

	t.Run("creates the branch when it cannot be fetched", func(t *testing.T) {
		remote := newFakeRemote()
		updater, _ := newTestUpdater(remote)

		outcome, err := updater.Update(context.Background(), repo, "feature", "new")
		require.NoError(t, err)
		require.True(t, outcome.Created)
		require.Empty(t, remote.updates)
		require.Equal(t, "new", remote.refs["feature"])
	})

	t.Run("creation failure is fatal", func(t *testing.T) {
		remote := newFakeRemote()
		remote.createErr = pusherrors.NewRemoteError("create ref heads/feature", http.StatusForbidden, "Resource not accessible", nil)
		updater, _ := newTestUpdater(remote)

		_, err := updater.Update(context.Background(), repo, "feature", "new")
		var remoteErr *pusherrors.RemoteError
		require.True(t, errors.As(err, &remoteErr))
		require.Equal(t, http.StatusForbidden, remoteErr.Status)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		remote := newFakeRemote()
		remote.updateErrs = []error{pusherrors.NewRemoteError("update ref heads/main", http.StatusInternalServerError, "boom", nil)}
		updater, sleeper := newTestUpdater(remote)

		_, err := updater.Update(context.Background(), repo, "main", "new")
		require.Error(t, err)
		require.NotErrorIs(t, err, pusherrors.ErrRetriesExhausted)
		require.Len(t, remote.updates, 1)
		require.Empty(t, sleeper.delays)
	})

	t.Run("stops when the context is cancelled during backoff", func(t *testing.T) {
		remote := newFakeRemote()
		remote.updateErrs = conflicts(10)
		updater, _ := newTestUpdater(remote)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := updater.Update(ctx, repo, "main", "new")
		require.ErrorIs(t, err, context.Canceled)
		require.Len(t, remote.updates, 1)
	})
}

func TestSleepContext(t *testing.T) {
	require.NoError(t, SleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, SleepContext(ctx, time.Hour), context.Canceled)
}
