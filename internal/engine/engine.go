// Package engine runs one-shot UCI analysis sessions: every evaluation spawns
// its own engine process, sends a fixed command sequence, and kills the
// process once a result, an error or the deadline arrives.
package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"chesslab/internal/domain/analysis"
)

const (
	DefaultMoveTime = 100 * time.Millisecond
	DefaultTimeout  = 10 * time.Second
)

type Config struct {
	MoveTime time.Duration // search budget sent with "go movetime"
	Timeout  time.Duration // hard deadline from session start
}

type Engine struct {
	cfg      Config
	launcher Launcher
	log      *zap.SugaredLogger
}

func NewEngine(cfg Config, launcher Launcher, log *zap.SugaredLogger) *Engine {
	if cfg.MoveTime <= 0 {
		cfg.MoveTime = DefaultMoveTime
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Engine{
		cfg:      cfg,
		launcher: launcher,
		log:      log,
	}
}

// NewStockfish runs the binary at path, forwarding its stderr to log at debug
// level.
func NewStockfish(path string, cfg Config, log *zap.SugaredLogger) *Engine {
	launcher := ExecLauncher{Path: path}
	if stderrLog, err := zap.NewStdLogAt(log.Desugar().With(zap.String("component", "engine-stderr")), zap.DebugLevel); err == nil {
		launcher.Stderr = stderrLog.Writer()
	}
	return NewEngine(cfg, launcher, log)
}

// Evaluate analyzes an already validated FEN in a fresh engine process.
func (e *Engine) Evaluate(ctx context.Context, fen string) (analysis.EvaluationResult, error) {
	start := time.Now()
	s := newSession(fen, e.cfg, e.log)

	res, err := s.run(ctx, e.launcher)
	if err != nil {
		e.log.Errorw("engine session failed", "fen", fen, "state", s.State().String(), "error", err)
		return res, err
	}

	e.log.Infow("engine session completed",
		"fen", fen,
		"evaluation", res.Score,
		"bestMove", res.BestMove,
		"duration", time.Since(start),
	)
	return res, nil
}
