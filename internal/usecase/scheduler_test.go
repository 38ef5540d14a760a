package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fixedDelay time.Duration

func (d fixedDelay) Next(t time.Time) time.Time {
	return t.Add(time.Duration(d))
}

func TestSchedulerRunsUntilCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &Scheduler{schedule: fixedDelay(5 * time.Millisecond)}
	runs := 0
	err := s.Run(ctx, func(context.Context) error {
		runs++
		if runs == 3 {
			cancel()
		}
		return errors.New("transient")
	})
	require.NoError(t, err)
	require.Equal(t, 3, runs)
}

func TestSchedulerWithoutSpecRunsOnce(t *testing.T) {
	t.Parallel()

	s, err := NewScheduler("", nil)
	require.NoError(t, err)

	runs := 0
	want := errors.New("boom")
	err = s.Run(context.Background(), func(context.Context) error {
		runs++
		return want
	})
	require.ErrorIs(t, err, want)
	require.Equal(t, 1, runs)
}

func TestNewSchedulerParsesSpecs(t *testing.T) {
	t.Parallel()

	for _, spec := range []string{"0 6 * * *", "@every 6h", "@daily"} {
		s, err := NewScheduler(spec, nil)
		require.NoError(t, err, spec)
		require.NotNil(t, s.schedule, spec)
	}

	_, err := NewScheduler("every tuesday", nil)
	require.Error(t, err)
}

func TestIsCancelled(t *testing.T) {
	t.Parallel()

	require.True(t, IsCancelled(context.Canceled))
	require.True(t, IsCancelled(errors.Join(errors.New("fetch"), context.Canceled)))
	require.False(t, IsCancelled(errors.New("other")))
}
