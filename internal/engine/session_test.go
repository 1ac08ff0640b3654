package engine

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chesslab/internal/domain/analysis"
	appErrors "chesslab/internal/errors"
)

const testFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

type fakeProcess struct {
	mu       sync.Mutex
	stdin    bytes.Buffer
	writeErr error

	stdout  io.Reader
	stdoutR *io.PipeReader
	stdoutW *io.PipeWriter

	killed   atomic.Bool
	goneOnce sync.Once
	gone     chan struct{}
}

func newFakeProcess() *fakeProcess {
	r, w := io.Pipe()
	return &fakeProcess{stdout: r, stdoutR: r, stdoutW: w, gone: make(chan struct{})}
}

func (p *fakeProcess) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	return p.stdin.Write(b)
}

func (p *fakeProcess) Stdin() io.Writer  { return p }
func (p *fakeProcess) Stdout() io.Reader { return p.stdout }

func (p *fakeProcess) Kill() error {
	p.killed.Store(true)
	p.exit()
	return nil
}

func (p *fakeProcess) Wait() error {
	<-p.gone
	return nil
}

// exit closes stdout the way a terminating process would.
func (p *fakeProcess) exit() {
	p.goneOnce.Do(func() {
		_ = p.stdoutW.Close()
		close(p.gone)
	})
}

func (p *fakeProcess) emit(s string) error {
	_, err := p.stdoutW.Write([]byte(s))
	return err
}

func (p *fakeProcess) written() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stdin.String()
}

type fakeLauncher struct {
	proc Process
	err  error
}

func (l fakeLauncher) Launch() (Process, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.proc, nil
}

// chunkReader returns its data together with err on the first read.
type chunkReader struct {
	data []byte
	err  error
	done bool
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, r.err
	}
	r.done = true
	return copy(p, r.data), r.err
}

func testConfig(timeout time.Duration) Config {
	return Config{MoveTime: 100 * time.Millisecond, Timeout: timeout}
}

func TestSessionCompletes(t *testing.T) {
	proc := newFakeProcess()
	e := NewEngine(testConfig(5*time.Second), fakeLauncher{proc: proc}, zap.NewNop().Sugar())

	go func() {
		_ = proc.emit("Stockfish 16 by the Stockfish developers\nuciok\n")
		_ = proc.emit("info depth 1 score cp 50 pv e2e4\n")
		_ = proc.emit("info depth 2 score cp 120 pv e2e4 e7e5\n")
		_ = proc.emit("bestmove e2e4 ponder e7e5\n")
	}()

	res, err := e.Evaluate(context.Background(), testFEN)
	require.NoError(t, err)
	assert.InDelta(t, 1.2, res.Score, 1e-9)
	assert.Equal(t, "e2e4", res.BestMove)
	assert.True(t, proc.killed.Load())

	want := "uci\nposition fen " + testFEN + "\ngo movetime 100\nquit\n"
	assert.Equal(t, want, proc.written())
}

func TestSessionMarkerSplitAcrossChunks(t *testing.T) {
	proc := newFakeProcess()
	e := NewEngine(testConfig(5*time.Second), fakeLauncher{proc: proc}, zap.NewNop().Sugar())

	go func() {
		_ = proc.emit("info score cp -33\nbest")
		_ = proc.emit("move g1")
		_ = proc.emit("f3\n")
	}()

	res, err := e.Evaluate(context.Background(), testFEN)
	require.NoError(t, err)
	assert.InDelta(t, -0.33, res.Score, 1e-9)
	assert.Equal(t, "g1f3", res.BestMove)
}

func TestSessionSpawnFailure(t *testing.T) {
	s := newSession(testFEN, testConfig(time.Second), zap.NewNop().Sugar())

	_, err := s.run(context.Background(), fakeLauncher{err: errors.New("exec: \"stockfish\": executable file not found")})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrEngineSpawn)
	assert.Equal(t, StateFailed, s.State())
}

func TestSessionTimeoutKillsProcess(t *testing.T) {
	proc := newFakeProcess()
	s := newSession(testFEN, testConfig(50*time.Millisecond), zap.NewNop().Sugar())

	start := time.Now()
	_, err := s.run(context.Background(), fakeLauncher{proc: proc})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrEngineTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Equal(t, StateTimedOut, s.State())
	assert.True(t, proc.killed.Load())

	// output arriving after the deadline is rejected and never answered
	assert.Error(t, proc.emit("bestmove e2e4\n"))
	assert.False(t, s.finish(StateCompleted, nil))
	assert.Len(t, s.done, 0)
}

func TestSessionProcessExitDoesNotRespond(t *testing.T) {
	proc := newFakeProcess()
	s := newSession(testFEN, testConfig(80*time.Millisecond), zap.NewNop().Sugar())

	go func() {
		_ = proc.emit("info score cp 10\n")
		proc.exit()
	}()

	start := time.Now()
	_, err := s.run(context.Background(), fakeLauncher{proc: proc})
	assert.ErrorIs(t, err, appErrors.ErrEngineTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestSessionWriteFailure(t *testing.T) {
	proc := newFakeProcess()
	proc.writeErr = errors.New("broken pipe")
	s := newSession(testFEN, testConfig(5*time.Second), zap.NewNop().Sugar())

	_, err := s.run(context.Background(), fakeLauncher{proc: proc})
	assert.ErrorIs(t, err, appErrors.ErrEngineRuntime)
	assert.Equal(t, StateFailed, s.State())
	assert.True(t, proc.killed.Load())
}

func TestSessionReadError(t *testing.T) {
	proc := newFakeProcess()
	proc.stdout = &chunkReader{data: []byte("info score cp 40\n"), err: errors.New("input/output error")}
	s := newSession(testFEN, testConfig(5*time.Second), zap.NewNop().Sugar())

	_, err := s.run(context.Background(), fakeLauncher{proc: proc})
	assert.ErrorIs(t, err, appErrors.ErrEngineRuntime)
	assert.Equal(t, StateFailed, s.State())
}

func TestSessionMarkerBeatsSimultaneousReadError(t *testing.T) {
	proc := newFakeProcess()
	proc.stdout = &chunkReader{data: []byte("info score cp 75\nbestmove d2d4\n"), err: errors.New("input/output error")}
	s := newSession(testFEN, testConfig(5*time.Second), zap.NewNop().Sugar())

	res, err := s.run(context.Background(), fakeLauncher{proc: proc})
	require.NoError(t, err)
	assert.Equal(t, "d2d4", res.BestMove)
	assert.InDelta(t, 0.75, res.Score, 1e-9)
	assert.Equal(t, StateCompleted, s.State())
	assert.Len(t, s.done, 0)
}

func TestSessionContextCancelled(t *testing.T) {
	proc := newFakeProcess()
	s := newSession(testFEN, testConfig(5*time.Second), zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := s.run(ctx, fakeLauncher{proc: proc})
	assert.ErrorIs(t, err, appErrors.ErrEngineRuntime)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, proc.killed.Load())
}

func TestFinishExactlyOnce(t *testing.T) {
	proc := newFakeProcess()
	s := newSession(testFEN, testConfig(time.Second), zap.NewNop().Sugar())
	s.proc = proc
	s.appendOutput([]byte("info score cp 20\nbestmove e2e4\n"))

	states := []State{StateCompleted, StateFailed, StateTimedOut}
	var wins atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func(state State) {
			defer wg.Done()
			<-start
			var err error
			if state != StateCompleted {
				err = appErrors.ErrEngineRuntime
			}
			if s.finish(state, err) {
				wins.Add(1)
			}
		}(states[i%len(states)])
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	require.Len(t, s.done, 1)
	o := <-s.done
	assert.Equal(t, o.state, s.State())
	if o.state == StateCompleted {
		assert.Equal(t, analysis.EvaluationResult{Score: 0.2, BestMove: "e2e4"}, o.result)
	} else {
		assert.Error(t, o.err)
	}
}

func TestCommands(t *testing.T) {
	got := Commands(testFEN, 250*time.Millisecond)
	assert.Equal(t, []string{"uci", "position fen " + testFEN, "go movetime 250"}, got)
}

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine(Config{}, fakeLauncher{}, zap.NewNop().Sugar())
	assert.Equal(t, DefaultMoveTime, e.cfg.MoveTime)
	assert.Equal(t, DefaultTimeout, e.cfg.Timeout)
}
