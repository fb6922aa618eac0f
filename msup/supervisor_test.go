package msup_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vpetrigo/mwdg"
	"github.com/vpetrigo/mwdg/internal/mtest"
	"github.com/vpetrigo/mwdg/msup"
	"github.com/vpetrigo/mwdg/mwdgtest"
)

func newEngine(t *testing.T) (*mwdg.Engine, *mwdgtest.ManualClock) {
	t.Helper()

	clock := mwdgtest.NewManualClock(0)
	eng, err := mwdg.New(mwdg.Config{Clock: clock, Critical: new(mwdgtest.SpyCritical)})
	require.NoError(t, err)

	return eng, clock
}

func TestNew_validation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng, _ := newEngine(t)

	_, _, err := msup.New(ctx, mtest.NewLogger(t), nil, msup.Config{Interval: time.Second})
	require.ErrorContains(t, err, "nil engine")

	_, _, err = msup.New(ctx, mtest.NewLogger(t), eng, msup.Config{})
	require.ErrorContains(t, err, "Config.Interval must be positive")

	_, _, err = msup.New(ctx, mtest.NewLogger(t), eng, msup.Config{
		Interval: time.Millisecond,
		Jitter:   time.Second,
	})
	require.ErrorContains(t, err, "Config.Jitter must not exceed Config.Interval")
}

func TestSupervisor_Terminate_normal(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng, _ := newEngine(t)

	s, sCtx, err := msup.New(ctx, mtest.NewLogger(t), eng, msup.Config{Interval: time.Second})
	require.NoError(t, err)
	defer s.Wait()
	defer cancel()

	// The returned context is of course not cancelled immediately.
	require.NoError(t, sCtx.Err())
	require.False(t, msup.IsTermination(sCtx))

	// Calling Terminate directly cancels the context.
	s.Terminate("testing purposes")
	require.Error(t, sCtx.Err())
	require.True(t, msup.IsTermination(sCtx))
	require.Equal(t, msup.ForcedTerminationError{
		Reason: "testing purposes",
	}, context.Cause(sCtx))

	// Calling a second time does not change the error.
	s.Terminate("again")
	require.Equal(t, msup.ForcedTerminationError{
		Reason: "testing purposes",
	}, context.Cause(sCtx))
}

func TestSupervisor_Terminate_afterParentCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng, _ := newEngine(t)

	s, sCtx, err := msup.New(ctx, mtest.NewLogger(t), eng, msup.Config{Interval: time.Second})
	require.NoError(t, err)
	defer s.Wait()
	defer cancel()

	// If the parent is canceled first, and then terminate is called...
	cancel()
	s.Terminate("late")

	// The supervisor context is cancelled but does not match IsTermination.
	require.Error(t, sCtx.Err())
	require.False(t, msup.IsTermination(sCtx))
}

func TestSupervisor_stallCausesTermination(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng, clock := newEngine(t)

	var n mwdg.Node
	require.NoError(t, eng.Register(&n, 10*time.Millisecond))
	require.NoError(t, eng.AssignID(&n, 7))

	// The node lapses immediately; the first scheduled pass must see it.
	clock.Advance(50)

	s, sCtx, err := msup.New(ctx, mtest.NewLogger(t), eng, msup.Config{
		Interval:         time.Millisecond,
		TerminateOnStall: true,
	})
	require.NoError(t, err)
	defer s.Wait()
	defer cancel()

	mtest.Sleep(mtest.ScaleMs(50))

	require.Error(t, sCtx.Err())
	require.True(t, msup.IsTermination(sCtx))
	require.Equal(t, msup.StallError{IDs: []uint32{7}}, context.Cause(sCtx))

	// The stall was also published for any observer.
	st := mtest.ReceiveSoon(t, s.Stalls())
	require.Equal(t, []uint32{7}, st.IDs)
}

func TestSupervisor_stallReportedWithoutTermination(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng, clock := newEngine(t)

	var n mwdg.Node
	require.NoError(t, eng.Register(&n, 10*time.Millisecond))
	require.NoError(t, eng.AssignID(&n, 3))

	clock.Advance(50)

	s, sCtx, err := msup.New(ctx, mtest.NewLogger(t), eng, msup.Config{
		Interval: time.Millisecond,
	})
	require.NoError(t, err)
	defer s.Wait()
	defer cancel()

	st := mtest.ReceiveSoon(t, s.Stalls())
	require.Equal(t, []uint32{3}, st.IDs)

	// Reporting does not escalate.
	require.NoError(t, sCtx.Err())

	// Feeding the node recovers it, and an on-demand pass confirms.
	require.NoError(t, eng.Feed(&n))

	h, ok := s.CheckNow(sCtx)
	require.True(t, ok)
	require.Equal(t, mwdg.Healthy, h)
}

func TestSupervisor_CheckNow_healthy(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng, _ := newEngine(t)

	var n mwdg.Node
	require.NoError(t, eng.Register(&n, time.Hour))

	s, sCtx, err := msup.New(ctx, mtest.NewLogger(t), eng, msup.Config{
		Interval: time.Second,
		Jitter:   100 * time.Millisecond,
	})
	require.NoError(t, err)
	defer s.Wait()
	defer cancel()

	h, ok := s.CheckNow(sCtx)
	require.True(t, ok)
	require.Equal(t, mwdg.Healthy, h)

	// A healthy pass publishes nothing.
	mtest.NotSending(t, s.Stalls())
	require.NoError(t, sCtx.Err())
}

func TestSupervisor_CheckNow_canceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng, _ := newEngine(t)

	s, sCtx, err := msup.New(ctx, mtest.NewLogger(t), eng, msup.Config{Interval: time.Second})
	require.NoError(t, err)
	defer s.Wait()
	defer cancel()

	canceled, cancelNow := context.WithCancel(sCtx)
	cancelNow()

	_, ok := s.CheckNow(canceled)
	require.False(t, ok)
}
