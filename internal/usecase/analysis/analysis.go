package analysis

import (
	"context"

	"go.uber.org/zap"

	domain "chesslab/internal/domain/analysis"
	"chesslab/internal/rules"
)

// Evaluator runs a single engine evaluation of a valid FEN.
type Evaluator interface {
	Evaluate(ctx context.Context, fen string) (domain.EvaluationResult, error)
}

type AnalysisUseCase struct {
	engine Evaluator
	log    *zap.SugaredLogger
}

func NewAnalysisUseCase(engine Evaluator, log *zap.SugaredLogger) *AnalysisUseCase {
	return &AnalysisUseCase{
		engine: engine,
		log:    log,
	}
}

// Analyze validates raw and evaluates it with exactly one engine attempt.
// Validation failures never reach the engine.
func (a *AnalysisUseCase) Analyze(ctx context.Context, raw string) (domain.EvaluationResult, error) {
	pos, err := rules.ValidatePosition(raw)
	if err != nil {
		a.log.Debugw("rejected position", "fen", pos.FEN, "error", err)
		return domain.EvaluationResult{}, err
	}

	a.log.Infof("Analyzing FEN: %s", pos.FEN)
	return a.engine.Evaluate(ctx, pos.FEN)
}
