package review

import (
	"fmt"
	"math"

	domain "chesslab/internal/domain/analysis"
)

const (
	BlunderThreshold   = 2.0
	MistakeThreshold   = 1.0
	ExcellentThreshold = 0.5
)

// earlyQueenMoves are the two classic premature queen sorties.
var earlyQueenMoves = map[string]bool{
	"Qh5": true,
	"Qb3": true,
}

// ScoreDelta is the absolute evaluation swing between two consecutive
// positions, rounded to centipawn precision so that pawn scores derived from
// integers compare exactly against the thresholds.
func ScoreDelta(prev, cur float64) float64 {
	return math.Round(math.Abs(prev-cur)*100) / 100
}

// Classify grades a played move. bestMove is the engine's choice for the
// position the move was played from; it matches either the SAN or the UCI
// form of the played move and is the move named in the suggestion. It is not
// MoveRecord.BestMove, which belongs to the position after the move.
func Classify(delta float64, san, uci, bestMove string) (domain.Classification, string) {
	switch {
	case delta > BlunderThreshold:
		if earlyQueenMoves[san] {
			return domain.ClassBlunder, "Avoid bringing the queen out too early; develop the minor pieces first (for example Nf3 or Nc3)."
		}
		return domain.ClassBlunder, fmt.Sprintf("This move gave away the advantage. Recommended move: %s", bestMove)
	case delta > MistakeThreshold:
		return domain.ClassMistake, fmt.Sprintf("Not the best choice. A better move was: %s", bestMove)
	case (bestMove == uci || bestMove == san) && delta < ExcellentThreshold:
		return domain.ClassExcellent, "Excellent move!"
	default:
		return domain.ClassNone, ""
	}
}

// Accuracy maps the average swing per move onto 0..100, rounded to two
// decimals. A game without moves is perfectly accurate.
func Accuracy(totalDelta float64, moveCount int) float64 {
	if moveCount == 0 {
		return 100
	}
	avg := totalDelta / float64(moveCount)
	acc := math.Max(0, 100-avg*10)
	return math.Round(acc*100) / 100
}

func FormatAccuracy(accuracy float64) string {
	return fmt.Sprintf("%.2f%%", accuracy)
}
