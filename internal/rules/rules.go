// Package rules adapts github.com/notnil/chess to the narrow capability the
// analysis core needs: load a position, apply a move, report the resulting
// position and whether the move was legal.
package rules

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"

	"chesslab/internal/domain/analysis"
	appErrors "chesslab/internal/errors"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Normalize trims raw and collapses every whitespace run to a single space.
func Normalize(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// ValidatePosition normalizes raw and checks that it loads as a position.
func ValidatePosition(raw string) (analysis.Position, error) {
	fen := Normalize(raw)
	if fen == "" {
		return analysis.Position{FEN: fen}, fmt.Errorf("%w: FEN is required", appErrors.ErrValidation)
	}

	if _, err := loadPosition(fen); err != nil {
		return analysis.Position{FEN: fen}, err
	}

	return analysis.Position{FEN: fen, Valid: true}, nil
}

func loadPosition(fen string) (*chess.Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrValidation, err)
	}
	pos := chess.NewGame(opt).Position()

	var whiteKings, blackKings int
	for _, piece := range pos.Board().SquareMap() {
		switch piece {
		case chess.WhiteKing:
			whiteKings++
		case chess.BlackKing:
			blackKings++
		}
	}
	if whiteKings != 1 || blackKings != 1 {
		return nil, fmt.Errorf("%w: position must have exactly one king per side", appErrors.ErrValidation)
	}

	return pos, nil
}

// Ply is one applied move with the positions around it.
type Ply struct {
	SAN       string
	UCI       string
	From      string
	To        string
	FENBefore string
	FENAfter  string
}

// Replay keeps the running position of a game being reviewed.
type Replay struct {
	game *chess.Game
}

// NewReplay starts a replay from fen, or from the standard position when fen
// is empty.
func NewReplay(fen string) (*Replay, error) {
	fen = Normalize(fen)
	if fen == "" {
		return &Replay{game: chess.NewGame()}, nil
	}
	if _, err := loadPosition(fen); err != nil {
		return nil, err
	}
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrValidation, err)
	}
	return &Replay{game: chess.NewGame(opt)}, nil
}

func (r *Replay) FEN() string {
	return r.game.Position().String()
}

// Apply plays move, given in SAN ("Nf3") or UCI ("g1f3") notation.
func (r *Replay) Apply(move string) (Ply, error) {
	move = strings.TrimSpace(move)
	pos := r.game.Position()

	m, err := chess.AlgebraicNotation{}.Decode(pos, move)
	if err != nil {
		m, err = chess.UCINotation{}.Decode(pos, move)
	}
	if err != nil {
		return Ply{}, fmt.Errorf("%w: illegal move %q", appErrors.ErrValidation, move)
	}

	ply := Ply{
		SAN:       chess.AlgebraicNotation{}.Encode(pos, m),
		UCI:       chess.UCINotation{}.Encode(pos, m),
		From:      m.S1().String(),
		To:        m.S2().String(),
		FENBefore: pos.String(),
	}

	if err := r.game.Move(m); err != nil {
		return Ply{}, fmt.Errorf("%w: illegal move %q: %v", appErrors.ErrValidation, move, err)
	}
	ply.FENAfter = r.FEN()

	return ply, nil
}

// ParsePGN returns the starting position and the SAN move list of the first
// game in pgn.
func ParsePGN(pgn string) (startFEN string, moves []string, err error) {
	opt, err := chess.PGN(strings.NewReader(pgn))
	if err != nil {
		return "", nil, fmt.Errorf("%w: invalid PGN: %v", appErrors.ErrValidation, err)
	}
	game := chess.NewGame(opt)

	positions := game.Positions()
	played := game.Moves()
	moves = make([]string, 0, len(played))
	for i, m := range played {
		moves = append(moves, chess.AlgebraicNotation{}.Encode(positions[i], m))
	}

	return positions[0].String(), moves, nil
}
