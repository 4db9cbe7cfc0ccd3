package repository

import (
	"sync"
	"testing"

	ingestdomain "aura-backend/internal/ingest/domain"
	syncdomain "aura-backend/internal/sync/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginSerializesConcurrentStarts(t *testing.T) {
	repo := NewMemorySyncStateRepository()

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Begin("user-1", ingestdomain.SourceMail)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for err := range results {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyRunning)
		}
	}
	assert.Equal(t, 1, winners)
}

func TestBeginAllowedAgainAfterTerminalState(t *testing.T) {
	repo := NewMemorySyncStateRepository()

	_, err := repo.Begin("user-1", ingestdomain.SourceMail)
	require.NoError(t, err)

	_, err = repo.Begin("user-1", ingestdomain.SourceMail)
	require.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, repo.Complete("user-1", ingestdomain.SourceMail))

	_, err = repo.Begin("user-1", ingestdomain.SourceMail)
	assert.NoError(t, err)
}

func TestProgressIsMonotonic(t *testing.T) {
	repo := NewMemorySyncStateRepository()
	_, err := repo.Begin("user-1", ingestdomain.SourceBanking)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateProgress("user-1", ingestdomain.SourceBanking, 30))
	require.NoError(t, repo.UpdateProgress("user-1", ingestdomain.SourceBanking, 20))

	state, err := repo.Get("user-1", ingestdomain.SourceBanking)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, 30, state.Progress)

	require.NoError(t, repo.UpdateProgress("user-1", ingestdomain.SourceBanking, 55))
	state, _ = repo.Get("user-1", ingestdomain.SourceBanking)
	assert.Equal(t, 55, state.Progress)
}

func TestCompleteAndFail(t *testing.T) {
	repo := NewMemorySyncStateRepository()
	_, err := repo.Begin("user-1", ingestdomain.SourceDrive)
	require.NoError(t, err)

	require.NoError(t, repo.Complete("user-1", ingestdomain.SourceDrive))
	state, _ := repo.Get("user-1", ingestdomain.SourceDrive)
	assert.Equal(t, syncdomain.StatusCompleted, state.Status)
	assert.Equal(t, 100, state.Progress)
	assert.NotNil(t, state.LastSync)

	_, err = repo.Begin("user-1", ingestdomain.SourceDrive)
	require.NoError(t, err)
	require.NoError(t, repo.Fail("user-1", ingestdomain.SourceDrive, "credential expired"))
	state, _ = repo.Get("user-1", ingestdomain.SourceDrive)
	assert.Equal(t, syncdomain.StatusError, state.Status)
	assert.Equal(t, "credential expired", state.ErrorMessage)
}

func TestResetPreservesWatermark(t *testing.T) {
	repo := NewMemorySyncStateRepository()
	_, err := repo.Begin("user-1", ingestdomain.SourceMessaging)
	require.NoError(t, err)

	require.NoError(t, repo.SetWatermark("user-1", ingestdomain.SourceMessaging, `{"since":"2024-03-01T00:00:00Z"}`))
	require.NoError(t, repo.Reset("user-1", ingestdomain.SourceMessaging))

	state, err := repo.Get("user-1", ingestdomain.SourceMessaging)
	require.NoError(t, err)
	assert.Equal(t, syncdomain.StatusIdle, state.Status)
	assert.Equal(t, 0, state.Progress)
	assert.Equal(t, `{"since":"2024-03-01T00:00:00Z"}`, state.Watermark)
}
