package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chesslab/internal/domain/analysis"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		wantScore float64
		wantMove  string
	}{
		{
			name:      "last score wins",
			output:    "info depth 1 score cp 50 nodes 20\ninfo depth 2 score cp 120 nodes 80\nbestmove e2e4\n",
			wantScore: 1.2,
			wantMove:  "e2e4",
		},
		{
			name:      "negative score",
			output:    "info depth 8 seldepth 10 score cp -37 pv e7e5\nbestmove e7e5 ponder g1f3",
			wantScore: -0.37,
			wantMove:  "e7e5",
		},
		{
			name:      "last bestmove wins",
			output:    "bestmove a2a3\ninfo score cp 5\nbestmove g1f3\n",
			wantScore: 0.05,
			wantMove:  "g1f3",
		},
		{
			name:      "promotion move",
			output:    "info score cp 900\nbestmove a7a8q\n",
			wantScore: 9,
			wantMove:  "a7a8q",
		},
		{
			name:      "windows line endings",
			output:    "info score cp 15\r\nbestmove d2d4\r\n",
			wantScore: 0.15,
			wantMove:  "d2d4",
		},
		{
			name:      "nothing recognizable",
			output:    "Stockfish 16 by the Stockfish developers\nuciok\n",
			wantScore: 0,
			wantMove:  analysis.UnknownMove,
		},
		{
			name:      "mate scores are not centipawns",
			output:    "info score mate 3\nbestmove h5f7\n",
			wantScore: 0,
			wantMove:  "h5f7",
		},
		{
			name:      "no legal move in a mated position",
			output:    "info depth 0 score mate 0\nbestmove (none)\n",
			wantScore: 0,
			wantMove:  analysis.UnknownMove,
		},
		{
			name:      "null move",
			output:    "info score cp 0\nbestmove 0000\n",
			wantScore: 0,
			wantMove:  analysis.UnknownMove,
		},
		{
			name:      "later non-move replaces an earlier move",
			output:    "bestmove e2e4\nbestmove (none)\n",
			wantScore: 0,
			wantMove:  analysis.UnknownMove,
		},
		{
			name:      "empty",
			output:    "",
			wantScore: 0,
			wantMove:  analysis.UnknownMove,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.output)
			assert.InDelta(t, tt.wantScore, got.Score, 1e-9)
			assert.Equal(t, tt.wantMove, got.BestMove)
		})
	}
}
