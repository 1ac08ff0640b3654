package engine

import (
	"regexp"
	"strconv"
	"strings"

	"chesslab/internal/domain/analysis"
)

var (
	scoreRe     = regexp.MustCompile(`score cp (-?\d+)`)
	bestMoveRe  = regexp.MustCompile(`bestmove (\S+)`)
	coordMoveRe = regexp.MustCompile(`^[a-h][1-8][a-h][1-8][qrbn]?$`)
)

// Extract scans the accumulated engine output. Later matches overwrite earlier
// ones for both the score and the best move. Missing data degrades to a score
// of 0 and analysis.UnknownMove, as does a bestmove that is not a coordinate
// move ("(none)" or "0000" when the side to move has no legal move).
func Extract(output string) analysis.EvaluationResult {
	res := analysis.EvaluationResult{BestMove: analysis.UnknownMove}

	for _, line := range strings.Split(output, "\n") {
		if m := scoreRe.FindStringSubmatch(line); m != nil {
			if cp, err := strconv.Atoi(m[1]); err == nil {
				res.Score = float64(cp) / 100
			}
		}
		if m := bestMoveRe.FindStringSubmatch(line); m != nil {
			res.BestMove = analysis.UnknownMove
			if coordMoveRe.MatchString(m[1]) {
				res.BestMove = m[1]
			}
		}
	}

	return res
}
