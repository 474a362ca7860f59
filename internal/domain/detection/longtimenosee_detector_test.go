package detection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cmsguard/login-sentinel/internal/config"
	"github.com/cmsguard/login-sentinel/internal/domain"
)

type fakeLoginChecks struct {
	last     *time.Time
	lastErr  error
	touchErr error

	touches []time.Time
}

func (f *fakeLoginChecks) LastCheck(ctx context.Context, userID int64) (*time.Time, error) {
	if f.lastErr != nil {
		return nil, f.lastErr
	}
	return f.last, nil
}

func (f *fakeLoginChecks) Touch(ctx context.Context, userID int64, at time.Time) error {
	if f.touchErr != nil {
		return f.touchErr
	}
	f.touches = append(f.touches, at)
	return nil
}

func defaultLongTimeNoSeeOptions() config.Options {
	b := config.NewBuilder(config.StaticSource{}, config.HostSettings{}, zap.NewNop())
	return b.Build(domain.DetectorLongTimeNoSee)
}

func TestLongTimeNoSeeDetector_Detect(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	threshold := 365 * secondsPerDay * time.Second

	ptr := func(t time.Time) *time.Time { return &t }

	tests := []struct {
		name        string
		last        *time.Time
		wantMatch   bool
		wantDays    int
		wantDaysSet bool
	}{
		{
			name:        "first ever check matches and leaves days unset",
			last:        nil,
			wantMatch:   true,
			wantDaysSet: false,
		},
		{
			name:        "exactly at the threshold matches, boundary inclusive",
			last:        ptr(now.Add(-threshold)),
			wantMatch:   true,
			wantDays:    365,
			wantDaysSet: true,
		},
		{
			name:        "one second inside the threshold does not match",
			last:        ptr(now.Add(-threshold + time.Second)),
			wantMatch:   false,
			wantDays:    364,
			wantDaysSet: true,
		},
		{
			name:        "well past the threshold matches",
			last:        ptr(now.Add(-2 * threshold)),
			wantMatch:   true,
			wantDays:    730,
			wantDaysSet: true,
		},
		{
			name:        "recent check does not match",
			last:        ptr(now.Add(-3 * secondsPerDay * time.Second)),
			wantMatch:   false,
			wantDays:    3,
			wantDaysSet: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checks := &fakeLoginChecks{last: tt.last}
			d := NewLongTimeNoSeeDetector(checks, zap.NewNop())
			d.now = func() time.Time { return now }

			res, err := d.Detect(context.Background(), &domain.User{ID: 3}, nil, defaultLongTimeNoSeeOptions())
			require.NoError(t, err)

			assert.Equal(t, tt.wantMatch, res.Matched)
			assert.Equal(t, domain.DetectorLongTimeNoSee, res.Kind)

			if tt.wantDaysSet {
				assert.Equal(t, tt.wantDays, res.Data["daysSinceLastLogin"])
			} else {
				_, present := res.Data["daysSinceLastLogin"]
				assert.False(t, present)
			}

			// The upsert happens on every call regardless of outcome.
			require.Len(t, checks.touches, 1)
			assert.Equal(t, now, checks.touches[0])
		})
	}
}

func TestLongTimeNoSeeDetector_ThresholdFromOptions(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	last := now.Add(-10 * secondsPerDay * time.Second)

	checks := &fakeLoginChecks{last: &last}
	d := NewLongTimeNoSeeDetector(checks, zap.NewNop())
	d.now = func() time.Time { return now }

	opts := defaultLongTimeNoSeeOptions()
	opts["thresholdDays"] = 7

	res, err := d.Detect(context.Background(), &domain.User{ID: 3}, nil, opts)
	require.NoError(t, err)
	assert.True(t, res.Matched)
}

func TestLongTimeNoSeeDetector_StoreErrorsPropagate(t *testing.T) {
	t.Run("read error", func(t *testing.T) {
		d := NewLongTimeNoSeeDetector(&fakeLoginChecks{lastErr: errors.New("down")}, zap.NewNop())
		_, err := d.Detect(context.Background(), &domain.User{ID: 3}, nil, defaultLongTimeNoSeeOptions())
		assert.Error(t, err)
	})

	t.Run("touch error", func(t *testing.T) {
		d := NewLongTimeNoSeeDetector(&fakeLoginChecks{touchErr: errors.New("down")}, zap.NewNop())
		_, err := d.Detect(context.Background(), &domain.User{ID: 3}, nil, defaultLongTimeNoSeeOptions())
		assert.Error(t, err)
	})
}
