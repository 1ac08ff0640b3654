package analysis

import "time"

// UnknownMove is reported when the engine output carries no bestmove line.
const UnknownMove = "unknown"

type Position struct {
	FEN   string `json:"fen"`
	Valid bool   `json:"valid"`
}

// @name EvaluationResult
type EvaluationResult struct {
	Score    float64 `json:"evaluation"`
	BestMove string  `json:"bestMove"`
}

type AnalyzeRequest struct {
	FEN      string `json:"fen"`
	Username string `json:"username,omitempty"`
}

// LastAnalysis is the single "most recent analysis" slot of a user. Exactly
// one of Evaluation and Review is set.
type LastAnalysis struct {
	FEN        string            `json:"fen" bson:"fen"`
	Evaluation *EvaluationResult `json:"evaluation,omitempty" bson:"evaluation,omitempty"`
	Review     *GameReview       `json:"review,omitempty" bson:"review,omitempty"`
	SavedAt    time.Time         `json:"savedAt" bson:"saved_at"`
}

type HistoryEntry struct {
	Date   time.Time   `json:"date" bson:"date"`
	Review *GameReview `json:"review" bson:"review"`
}
