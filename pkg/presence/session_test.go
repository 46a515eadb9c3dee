package presence

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tanki-rpc/tanki-rich-presence/pkg/ratings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu         sync.Mutex
	activities []Activity
	cleared    int
	closed     int
	setErr     error
	clearErr   error
}

func (c *fakeConn) SetActivity(_ context.Context, a Activity) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.activities = append(c.activities, a)
	return nil
}

func (c *fakeConn) ClearActivity(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleared++
	return c.clearErr
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return nil
}

type fakeConnector struct {
	connects atomic.Int32
	conn     *fakeConn
	err      error

	// entered and release let a test hold Connect open.
	entered chan struct{}
	release chan struct{}
}

func (f *fakeConnector) Connect(ctx context.Context) (Conn, error) {
	f.connects.Add(1)
	if f.entered != nil {
		close(f.entered)
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.conn, nil
}

type fakeFetcher struct {
	profile ratings.Profile
	err     error
	calls   atomic.Int32
}

func (f *fakeFetcher) Fetch(_ context.Context, username string) (ratings.Profile, error) {
	f.calls.Add(1)
	if f.err != nil {
		return ratings.Profile{}, f.err
	}
	p := f.profile
	if p.Name == "" {
		p.Name = username
	}
	return p, nil
}

func newTestSession(t *testing.T, connector Connector, fetcher ProfileFetcher, opts ...SessionOption) *Session {
	t.Helper()
	source, err := NewProfileSource(fetcher, nil, "Tanker")
	require.NoError(t, err)
	return NewSession(connector, source, opts...)
}

func TestSession_StartStop(t *testing.T) {
	conn := &fakeConn{}
	connector := &fakeConnector{conn: conn}
	fetcher := &fakeFetcher{profile: ratings.Profile{Score: 1000, ScoreNext: 5000, Rank: 5}}

	var transitions []bool
	session := newTestSession(t, connector, fetcher, WithStateObserver(func(active bool) {
		transitions = append(transitions, active)
	}))
	ctx := context.Background()

	assert.False(t, session.Active())

	result, err := session.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, Started, result)
	assert.True(t, session.Active())
	require.Len(t, conn.activities, 1)
	assert.Equal(t, "Username: Tanker", conn.activities[0].Details)
	assert.Equal(t, "1 000 / 5 000 XP till Sergeant", conn.activities[0].State)
	assert.Equal(t, "iconsnormal_05", conn.activities[0].SmallImage)

	result, err = session.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, AlreadyActive, result)
	assert.Equal(t, int32(1), connector.connects.Load(), "no duplicate login")
	assert.Equal(t, int32(1), fetcher.calls.Load())

	stopped, err := session.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stopped, stopped)
	assert.False(t, session.Active())
	assert.Equal(t, 1, conn.cleared)
	assert.Equal(t, 1, conn.closed)

	stopped, err = session.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, NotActive, stopped)

	assert.Equal(t, []bool{true, false}, transitions)
}

func TestSession_RestartLogsInAgain(t *testing.T) {
	connector := &fakeConnector{conn: &fakeConn{}}
	session := newTestSession(t, connector, &fakeFetcher{profile: ratings.DefaultProfile()})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := session.Start(ctx)
		require.NoError(t, err)
		assert.Equal(t, Started, result)
		_, err = session.Stop(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), connector.connects.Load())
}

func TestSession_StopWhenInactive(t *testing.T) {
	session := newTestSession(t, &fakeConnector{conn: &fakeConn{}}, &fakeFetcher{})

	result, err := session.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NotActive, result)
}

func TestSession_LoginFailure(t *testing.T) {
	connector := &fakeConnector{err: errors.New("connection refused")}
	session := newTestSession(t, connector, &fakeFetcher{profile: ratings.DefaultProfile()})

	_, err := session.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLogin)
	assert.False(t, session.Active())

	// a failed start leaves the session startable
	connector.err = nil
	connector.conn = &fakeConn{}
	result, err := session.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Started, result)
}

func TestSession_PublishFailureClosesConn(t *testing.T) {
	conn := &fakeConn{setErr: errors.New("rejected")}
	session := newTestSession(t, &fakeConnector{conn: conn}, &fakeFetcher{profile: ratings.DefaultProfile()})

	_, err := session.Start(context.Background())
	assert.ErrorIs(t, err, ErrPublish)
	assert.Equal(t, 1, conn.closed)
	assert.False(t, session.Active())
}

func TestSession_ProfileFailureSkipsLogin(t *testing.T) {
	connector := &fakeConnector{conn: &fakeConn{}}
	session := newTestSession(t, connector, &fakeFetcher{err: ratings.ErrFetchProfile})

	_, err := session.Start(context.Background())
	assert.ErrorIs(t, err, ErrProfileUnavailable)
	assert.ErrorIs(t, err, ratings.ErrFetchProfile)
	assert.Equal(t, int32(0), connector.connects.Load())
	assert.False(t, session.Active())
}

func TestSession_RankZeroProfileStarts(t *testing.T) {
	conn := &fakeConn{}
	connector := &fakeConnector{conn: conn}
	session := newTestSession(t, connector, &fakeFetcher{profile: ratings.Profile{Name: "x"}})

	result, err := session.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Started, result)
	require.Len(t, conn.activities, 1)
	assert.Equal(t, "Unknown", conn.activities[0].SmallText)

	_, err = session.Stop(context.Background())
	require.NoError(t, err)

	result, err = session.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Started, result)
	assert.Equal(t, int32(2), connector.connects.Load())
}

type panickingSource struct {
	calls atomic.Int32
}

func (p *panickingSource) Activity(context.Context) (Activity, error) {
	if p.calls.Add(1) == 1 {
		panic("index out of range [-1]")
	}
	return Activity{Details: "Username: Tanker"}, nil
}

func TestSession_PanicDuringStartLeavesSessionStartable(t *testing.T) {
	connector := &fakeConnector{conn: &fakeConn{}}
	session := NewSession(connector, &panickingSource{})
	ctx := context.Background()

	_, err := session.Start(ctx)
	require.Error(t, err)
	assert.False(t, session.Active())

	result, err := session.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, NotActive, result)

	result2, err := session.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, Started, result2)
	assert.True(t, session.Active())
	assert.Equal(t, int32(1), connector.connects.Load())
}

func TestSession_StopErrorStillDeactivates(t *testing.T) {
	conn := &fakeConn{clearErr: errors.New("pipe closed")}
	session := newTestSession(t, &fakeConnector{conn: conn}, &fakeFetcher{profile: ratings.DefaultProfile()})

	_, err := session.Start(context.Background())
	require.NoError(t, err)

	_, err = session.Stop(context.Background())
	assert.ErrorIs(t, err, ErrStop)
	assert.False(t, session.Active())
	assert.Equal(t, 1, conn.closed)
}

func TestSession_StartWhileStarting(t *testing.T) {
	connector := &fakeConnector{
		conn:    &fakeConn{},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	session := newTestSession(t, connector, &fakeFetcher{profile: ratings.DefaultProfile()})
	ctx := context.Background()

	first := make(chan StartResult, 1)
	go func() {
		result, err := session.Start(ctx)
		assert.NoError(t, err)
		first <- result
	}()

	<-connector.entered

	result, err := session.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, AlreadyActive, result)

	_, err = session.Stop(ctx)
	assert.ErrorIs(t, err, ErrSessionBusy)

	close(connector.release)
	select {
	case result := <-first:
		assert.Equal(t, Started, result)
	case <-time.After(2 * time.Second):
		t.Fatal("first Start did not return")
	}
	assert.Equal(t, int32(1), connector.connects.Load())
}

func TestSession_ConcurrentStartsLogInOnce(t *testing.T) {
	connector := &fakeConnector{conn: &fakeConn{}}
	session := newTestSession(t, connector, &fakeFetcher{profile: ratings.DefaultProfile()})

	var (
		wg      sync.WaitGroup
		started atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := session.Start(context.Background())
			if assert.NoError(t, err) && result == Started {
				started.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), started.Load())
	assert.Equal(t, int32(1), connector.connects.Load())
	assert.True(t, session.Active())
}

func TestSession_Close(t *testing.T) {
	conn := &fakeConn{}
	session := newTestSession(t, &fakeConnector{conn: conn}, &fakeFetcher{profile: ratings.DefaultProfile()})

	require.NoError(t, session.Close(context.Background()), "closing an inactive session")

	_, err := session.Start(context.Background())
	require.NoError(t, err)
	require.NoError(t, session.Close(context.Background()))
	assert.False(t, session.Active())
	assert.Equal(t, 1, conn.closed)
}
