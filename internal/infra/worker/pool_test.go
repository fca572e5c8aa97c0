package worker

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"activation-service/internal/usecase"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

func TestPool_RunsAndDrains(t *testing.T) {
	p := NewPool(3, testLogger())
	p.Start(context.Background())

	var done atomic.Int32
	for i := 0; i < 20; i++ {
		require.NoError(t, p.Submit(func(context.Context) error {
			done.Add(1)
			return nil
		}))
	}
	p.Stop()
	assert.Equal(t, int32(20), done.Load())

	assert.ErrorIs(t, p.Submit(func(context.Context) error { return nil }), ErrPoolStopped)
	p.Stop()
}

func TestPool_SurvivesFailingTasks(t *testing.T) {
	p := NewPool(1, testLogger())
	p.Start(context.Background())

	var ran atomic.Int32
	require.NoError(t, p.Submit(func(context.Context) error { panic("boom") }))
	require.NoError(t, p.Submit(func(context.Context) error { return errors.New("fail") }))
	require.NoError(t, p.Submit(func(context.Context) error { ran.Add(1); return nil }))
	p.Stop()

	assert.Equal(t, int32(1), ran.Load())
}

func TestPool_QueueFull(t *testing.T) {
	p := NewPool(1, testLogger())
	// not started: nothing consumes the queue
	var err error
	for i := 0; i < cap(p.jobs)+1; i++ {
		err = p.Submit(func(context.Context) error { return nil })
	}
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Error(t, p.Submit(nil))

	p.Start(context.Background())
	p.Stop()
}

type fakeEngine struct {
	mu     sync.Mutex
	calls  []int
	out    usecase.RewardOutcome
	err    error
	ctxErr error
}

func (f *fakeEngine) OnRedeemed(ctx context.Context, inviteeID string, days int) (usecase.RewardOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, days)
	f.ctxErr = ctx.Err()
	return f.out, f.err
}

func TestRewardNotifier_Inline(t *testing.T) {
	eng := &fakeEngine{out: usecase.RewardFailed, err: errors.New("db down")}
	n := NewRewardNotifier(eng, nil, testLogger())

	assert.NotPanics(t, func() { n.Notify(context.Background(), "invitee", 30) })
	assert.Equal(t, []int{30}, eng.calls)
}

func TestRewardNotifier_AsyncOutlivesRequest(t *testing.T) {
	eng := &fakeEngine{out: usecase.RewardCredited}
	p := NewPool(2, testLogger())
	p.Start(context.Background())
	n := NewRewardNotifier(eng, p, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	n.Notify(ctx, "invitee", 365)
	cancel()
	p.Stop()

	assert.Equal(t, []int{365}, eng.calls)
}

func TestRewardNotifier_InlineWhenStopped(t *testing.T) {
	eng := &fakeEngine{out: usecase.RewardCredited}
	p := NewPool(1, testLogger())
	p.Start(context.Background())
	p.Stop()

	n := NewRewardNotifier(eng, p, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n.Notify(ctx, "invitee", 7)

	assert.Equal(t, []int{7}, eng.calls)
	assert.NoError(t, eng.ctxErr)
}
