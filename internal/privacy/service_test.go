package privacy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	deleted []string
	cutoffs []time.Time
	purged  int64
	err     error
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.purged, nil
}

func TestPurgeExpired(t *testing.T) {
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		days       int
		wantCutoff []time.Time
		wantN      int64
	}{
		{name: "one year", days: 365, wantCutoff: []time.Time{now.AddDate(0, 0, -365)}, wantN: 3},
		{name: "disabled", days: 0, wantN: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{purged: 3}
			ps := NewService(store, tt.days, 15*time.Minute)
			ps.now = func() time.Time { return now }

			n, err := ps.PurgeExpired(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantN, n)
			assert.Equal(t, tt.wantCutoff, store.cutoffs)
		})
	}
}

func TestDeleteDiagnosis(t *testing.T) {
	store := &fakeStore{}
	ps := NewService(store, 30, time.Minute)

	require.NoError(t, ps.DeleteDiagnosis(context.Background(), "d-1"))
	assert.Equal(t, []string{"d-1"}, store.deleted)

	store.err = errors.New("locked")
	assert.Error(t, ps.DeleteDiagnosis(context.Background(), "d-2"))
}

func TestRetentionInfo(t *testing.T) {
	info := NewService(&fakeStore{}, 90, 15*time.Minute).GetDataRetentionInfo()
	assert.Equal(t, 90, info["diagnosis_retention_days"])
	assert.Equal(t, true, info["retention_enforced"])
	assert.Equal(t, 15, info["cache_retention_minutes"])
}

func TestRunPurgesBeforeWaiting(t *testing.T) {
	store := &fakeStore{purged: 1}
	ps := NewService(store, 10, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ps.Run(ctx, time.Hour)

	assert.Len(t, store.cutoffs, 1)
}
