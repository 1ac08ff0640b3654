package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "chesslab/internal/domain/analysis"
	appErrors "chesslab/internal/errors"
	"chesslab/internal/rules"
)

// Analyzer is the single-position analysis the review is built on.
type Analyzer interface {
	Analyze(ctx context.Context, fen string) (domain.EvaluationResult, error)
}

// Recorder persists a finished review. Failures are logged, never returned.
type Recorder interface {
	RecordReview(ctx context.Context, username string, review *domain.GameReview) error
}

// ReviewError tells which position of the game could not be analyzed.
// Ply 0 is the starting position.
type ReviewError struct {
	Ply  int
	Move string
	Err  error
}

func (e *ReviewError) Error() string {
	if e.Ply == 0 {
		return fmt.Sprintf("review failed at starting position: %v", e.Err)
	}
	return fmt.Sprintf("review failed at move %d (%s): %v", e.Ply, e.Move, e.Err)
}

func (e *ReviewError) Unwrap() error {
	return e.Err
}

type ReviewUseCase struct {
	analyzer Analyzer
	recorder Recorder
	log      *zap.SugaredLogger
}

func NewReviewUseCase(analyzer Analyzer, recorder Recorder, log *zap.SugaredLogger) *ReviewUseCase {
	return &ReviewUseCase{
		analyzer: analyzer,
		recorder: recorder,
		log:      log,
	}
}

// Review analyzes the starting position and every position after each move,
// in order. onMove, when set, sees each record as soon as it is ready.
// The first failed analysis aborts the review.
func (r *ReviewUseCase) Review(ctx context.Context, req domain.ReviewRequest, onMove func(domain.MoveRecord)) (*domain.GameReview, error) {
	startFEN, plies, err := r.replay(req)
	if err != nil {
		return nil, err
	}

	emit := func(rec domain.MoveRecord) {
		if onMove != nil {
			onMove(rec)
		}
	}

	prev, err := r.analyzer.Analyze(ctx, startFEN)
	if err != nil {
		return nil, &ReviewError{Ply: 0, Err: err}
	}

	records := make([]domain.MoveRecord, 0, len(plies)+1)
	initial := domain.MoveRecord{
		Index:          0,
		FEN:            startFEN,
		Evaluation:     prev.Score,
		BestMove:       prev.BestMove,
		Classification: domain.ClassNone,
	}
	records = append(records, initial)
	emit(initial)

	mistakes := make([]string, 0)
	var totalDelta float64

	for i, ply := range plies {
		res, err := r.analyzer.Analyze(ctx, ply.FENAfter)
		if err != nil {
			r.log.Warnw("review aborted", "ply", i+1, "move", ply.SAN, "error", err)
			return nil, &ReviewError{Ply: i + 1, Move: ply.SAN, Err: err}
		}

		delta := ScoreDelta(prev.Score, res.Score)
		class, suggestion := Classify(delta, ply.SAN, ply.UCI, prev.BestMove)

		rec := domain.MoveRecord{
			Index:          i + 1,
			FENBefore:      ply.FENBefore,
			FEN:            ply.FENAfter,
			Move:           ply.SAN,
			UCI:            ply.UCI,
			From:           ply.From,
			To:             ply.To,
			Evaluation:     res.Score,
			BestMove:       res.BestMove,
			ScoreDelta:     delta,
			Classification: class,
			Marker:         class.Marker(),
			Color:          class.Color(),
			Suggestion:     suggestion,
			Explanation:    class.Explanation(),
		}
		if class != domain.ClassNone {
			mistakes = append(mistakes, fmt.Sprintf("%s %s (move %d)", class.Marker(), ply.SAN, i+1))
		}

		records = append(records, rec)
		emit(rec)

		totalDelta += delta
		prev = res
	}

	accuracy := Accuracy(totalDelta, len(plies))
	review := &domain.GameReview{
		ID:           uuid.New().String(),
		CreatedAt:    time.Now().UTC(),
		Moves:        records,
		Accuracy:     accuracy,
		AccuracyText: FormatAccuracy(accuracy),
		Mistakes:     mistakes,
		Evaluation:   prev.Score,
		BestMove:     prev.BestMove,
	}

	r.log.Infow("game reviewed", "id", review.ID, "moves", len(plies), "accuracy", review.AccuracyText)

	if r.recorder != nil {
		if err := r.recorder.RecordReview(ctx, req.Username, review); err != nil {
			r.log.Warnw("failed to record review", "id", review.ID, "error", err)
		}
	}

	return review, nil
}

// replay checks the whole game up front so an illegal move is reported before
// any engine time is spent.
func (r *ReviewUseCase) replay(req domain.ReviewRequest) (string, []rules.Ply, error) {
	startFEN := req.FEN
	moves := req.Moves

	if strings.TrimSpace(req.PGN) != "" {
		var err error
		startFEN, moves, err = rules.ParsePGN(req.PGN)
		if err != nil {
			return "", nil, err
		}
	}

	if len(moves) == 0 {
		return "", nil, fmt.Errorf("%w: game has no moves", appErrors.ErrValidation)
	}

	replay, err := rules.NewReplay(startFEN)
	if err != nil {
		return "", nil, err
	}
	start := replay.FEN()

	plies := make([]rules.Ply, 0, len(moves))
	for i, move := range moves {
		ply, err := replay.Apply(move)
		if err != nil {
			return "", nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		plies = append(plies, ply)
	}

	return start, plies, nil
}
