package analysis

import "time"

type Classification string

const (
	ClassNone      Classification = "none"
	ClassExcellent Classification = "excellent"
	ClassMistake   Classification = "mistake"
	ClassBlunder   Classification = "blunder"
)

// Marker is the annotation glyph shown next to a classified move.
func (c Classification) Marker() string {
	switch c {
	case ClassBlunder:
		return "??"
	case ClassMistake:
		return "?"
	case ClassExcellent:
		return "!"
	default:
		return ""
	}
}

// Color is the board arrow color used for a classified move.
func (c Classification) Color() string {
	switch c {
	case ClassBlunder:
		return "red"
	case ClassMistake:
		return "yellow"
	case ClassExcellent:
		return "green"
	default:
		return ""
	}
}

func (c Classification) Explanation() string {
	switch c {
	case ClassBlunder:
		return "A serious error. It usually loses material, allows a mating attack or gives up a large strategic advantage."
	case ClassMistake:
		return "A better alternative was missed. The move is positionally weak or passive."
	case ClassExcellent:
		return "Well done! This is an accurate and effective move."
	default:
		return ""
	}
}

// @name MoveRecord
type MoveRecord struct {
	Index          int            `json:"index" bson:"index"`
	FENBefore      string         `json:"fenBefore,omitempty" bson:"fen_before,omitempty"`
	FEN            string         `json:"fen" bson:"fen"`
	Move           string         `json:"move,omitempty" bson:"move,omitempty"`
	UCI            string         `json:"uci,omitempty" bson:"uci,omitempty"`
	From           string         `json:"from,omitempty" bson:"from,omitempty"`
	To             string         `json:"to,omitempty" bson:"to,omitempty"`
	Evaluation     float64        `json:"evaluation" bson:"evaluation"`
	BestMove       string         `json:"bestMove" bson:"best_move"`
	ScoreDelta     float64        `json:"scoreDelta" bson:"score_delta"`
	Classification Classification `json:"classification" bson:"classification"`
	Marker         string         `json:"marker,omitempty" bson:"marker,omitempty"`
	Color          string         `json:"mistakeColor,omitempty" bson:"color,omitempty"`
	Suggestion     string         `json:"suggestion,omitempty" bson:"suggestion,omitempty"`
	Explanation    string         `json:"explanation,omitempty" bson:"explanation,omitempty"`
}

// @name GameReview
type GameReview struct {
	ID           string       `json:"id" bson:"id"`
	CreatedAt    time.Time    `json:"createdAt" bson:"created_at"`
	Moves        []MoveRecord `json:"moves" bson:"moves"`
	Accuracy     float64      `json:"accuracy" bson:"accuracy"`
	AccuracyText string       `json:"accuracyText" bson:"accuracy_text"`
	Mistakes     []string     `json:"mistakes" bson:"mistakes"`
	Evaluation   float64      `json:"evaluation" bson:"evaluation"`
	BestMove     string       `json:"bestMove" bson:"best_move"`
}

// ReviewRequest describes a game either as a move list or as a PGN document.
// FEN optionally overrides the standard starting position for Moves.
type ReviewRequest struct {
	Moves    []string `json:"moves,omitempty"`
	PGN      string   `json:"pgn,omitempty"`
	FEN      string   `json:"fen,omitempty"`
	Username string   `json:"username,omitempty"`
}

// StreamMessage is one frame of the live review websocket.
type StreamMessage struct {
	Type   string      `json:"type"`
	Move   *MoveRecord `json:"move,omitempty"`
	Review *GameReview `json:"review,omitempty"`
	Error  string      `json:"error,omitempty"`
}

const (
	StreamMove   = "move"
	StreamReview = "review"
	StreamError  = "error"
)
