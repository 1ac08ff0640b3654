package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"chesslab/internal/domain/analysis"
	appErrors "chesslab/internal/errors"
)

// CompletionMarker is the token the engine prints once it has a result.
const CompletionMarker = "bestmove"

type State int32

const (
	StateIdle State = iota
	StateSpawning
	StateRunning
	StateCompleted
	StateFailed
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSpawning:
		return "spawning"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed_out"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Commands is the fixed sequence written to the engine before any output is
// read.
func Commands(fen string, moveTime time.Duration) []string {
	return []string{
		"uci",
		"position fen " + fen,
		fmt.Sprintf("go movetime %d", moveTime.Milliseconds()),
	}
}

type outcome struct {
	state  State
	result analysis.EvaluationResult
	err    error
}

// session drives one process for one evaluation. Output, process errors, the
// deadline and context cancellation all race to finish; the responded flag
// lets exactly one of them publish an outcome.
type session struct {
	fen string
	cfg Config
	log *zap.SugaredLogger

	proc    Process
	stdinMu sync.Mutex

	outMu sync.Mutex
	out   strings.Builder

	state     atomic.Int32
	responded atomic.Bool
	stop      chan struct{}
	done      chan outcome
}

func newSession(fen string, cfg Config, log *zap.SugaredLogger) *session {
	return &session{
		fen:  fen,
		cfg:  cfg,
		log:  log,
		stop: make(chan struct{}),
		done: make(chan outcome, 1),
	}
}

func (s *session) State() State {
	return State(s.state.Load())
}

func (s *session) run(ctx context.Context, launcher Launcher) (analysis.EvaluationResult, error) {
	s.state.Store(int32(StateSpawning))
	proc, err := launcher.Launch()
	if err != nil {
		s.state.Store(int32(StateFailed))
		return analysis.EvaluationResult{}, fmt.Errorf("%w: %v", appErrors.ErrEngineSpawn, err)
	}
	s.proc = proc
	s.state.Store(int32(StateRunning))

	go s.watchDeadline(ctx, time.NewTimer(s.cfg.Timeout))

	readerDone := make(chan struct{})
	if err := s.sendCommands(); err != nil {
		s.finish(StateFailed, fmt.Errorf("%w: write command: %v", appErrors.ErrEngineRuntime, err))
		close(readerDone)
	} else {
		go s.readOutput(readerDone)
	}
	go s.reap(readerDone)

	o := <-s.done
	return o.result, o.err
}

func (s *session) sendCommands() error {
	s.stdinMu.Lock()
	defer s.stdinMu.Unlock()

	for _, c := range Commands(s.fen, s.cfg.MoveTime) {
		if _, err := io.WriteString(s.proc.Stdin(), c+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) watchDeadline(ctx context.Context, timer *time.Timer) {
	defer timer.Stop()

	select {
	case <-timer.C:
		s.finish(StateTimedOut, fmt.Errorf("%w after %s", appErrors.ErrEngineTimeout, s.cfg.Timeout))
	case <-ctx.Done():
		s.finish(StateFailed, fmt.Errorf("%w: %w", appErrors.ErrEngineRuntime, ctx.Err()))
	case <-s.stop:
	}
}

func (s *session) readOutput(done chan<- struct{}) {
	defer close(done)

	buf := make([]byte, 4096)
	for {
		n, err := s.proc.Stdout().Read(buf)
		// late chunks after a terminal outcome are dropped
		if n > 0 && !s.responded.Load() {
			if s.appendOutput(buf[:n]) {
				s.finish(StateCompleted, nil)
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.finish(StateFailed, fmt.Errorf("%w: read output: %v", appErrors.ErrEngineRuntime, err))
			}
			return
		}
	}
}

// appendOutput reports whether the buffer now holds a complete marker line.
func (s *session) appendOutput(p []byte) bool {
	s.outMu.Lock()
	defer s.outMu.Unlock()

	s.out.Write(p)
	buf := s.out.String()
	i := strings.LastIndex(buf, CompletionMarker)
	return i >= 0 && strings.IndexByte(buf[i:], '\n') >= 0
}

func (s *session) output() string {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	return s.out.String()
}

// finish publishes the terminal outcome if no other producer has done so
// already. It returns false for every losing caller.
func (s *session) finish(state State, err error) bool {
	if !s.responded.CompareAndSwap(false, true) {
		return false
	}
	close(s.stop)
	s.state.Store(int32(state))

	var res analysis.EvaluationResult
	if state == StateCompleted {
		res = Extract(s.output())
	}

	s.terminate()
	s.done <- outcome{state: state, result: res, err: err}
	return true
}

func (s *session) terminate() {
	// quit is best effort; a writer stuck on a full pipe must not block the kill
	if s.stdinMu.TryLock() {
		_, _ = io.WriteString(s.proc.Stdin(), "quit\n")
		s.stdinMu.Unlock()
	}
	if err := s.proc.Kill(); err != nil {
		s.log.Debugw("engine kill", "fen", s.fen, "error", err)
	}
}

func (s *session) reap(readerDone <-chan struct{}) {
	<-readerDone
	err := s.proc.Wait()
	s.log.Debugw("engine process exited", "fen", s.fen, "state", s.State().String(), "error", err)
}
