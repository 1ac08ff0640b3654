package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	domain "chesslab/internal/domain/analysis"
	appErrors "chesslab/internal/errors"
)

const AnonymousUser = "anonymous"

// Store is the persistence port: opaque values under string keys.
// Load returns errors.ErrNotFound for a key that was never saved.
type Store interface {
	Save(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
}

func HistoryKey(username string) string {
	return "history:" + userKey(username)
}

func LastKey(username string) string {
	return "last:" + userKey(username)
}

func userKey(username string) string {
	username = strings.TrimSpace(username)
	if username == "" {
		return AnonymousUser
	}
	return username
}

type HistoryUseCase struct {
	store    Store
	pageSize int
	log      *zap.SugaredLogger

	// serializes the read-modify-write of history lists
	mu sync.Mutex
}

// NewHistoryUseCase keeps at most pageSize reviews per user; pageSize <= 0
// means no limit.
func NewHistoryUseCase(store Store, pageSize int, log *zap.SugaredLogger) *HistoryUseCase {
	return &HistoryUseCase{
		store:    store,
		pageSize: pageSize,
		log:      log,
	}
}

// RecordReview appends review to the user's history and makes it the most
// recent analysis.
func (h *HistoryUseCase) RecordReview(ctx context.Context, username string, review *domain.GameReview) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.load(ctx, HistoryKey(username))
	if err != nil {
		return err
	}

	entries = append(entries, domain.HistoryEntry{Date: review.CreatedAt, Review: review})
	if h.pageSize > 0 && len(entries) > h.pageSize {
		entries = entries[len(entries)-h.pageSize:]
	}

	if err := h.save(ctx, HistoryKey(username), entries); err != nil {
		return err
	}

	var fen string
	if n := len(review.Moves); n > 0 {
		fen = review.Moves[n-1].FEN
	}
	last := domain.LastAnalysis{
		FEN:     fen,
		Review:  review,
		SavedAt: time.Now().UTC(),
	}

	h.log.Debugw("review recorded", "user", userKey(username), "id", review.ID, "entries", len(entries))
	return h.save(ctx, LastKey(username), last)
}

// RecordEvaluation makes a single-position evaluation the most recent
// analysis. It does not touch the review history.
func (h *HistoryUseCase) RecordEvaluation(ctx context.Context, username, fen string, result domain.EvaluationResult) error {
	last := domain.LastAnalysis{
		FEN:        fen,
		Evaluation: &result,
		SavedAt:    time.Now().UTC(),
	}
	return h.save(ctx, LastKey(username), last)
}

// History returns the stored reviews of a user, oldest first. A user
// without history gets an empty list.
func (h *HistoryUseCase) History(ctx context.Context, username string) ([]domain.HistoryEntry, error) {
	return h.load(ctx, HistoryKey(username))
}

func (h *HistoryUseCase) Last(ctx context.Context, username string) (*domain.LastAnalysis, error) {
	raw, err := h.store.Load(ctx, LastKey(username))
	if err != nil {
		return nil, err
	}

	var last domain.LastAnalysis
	if err := json.Unmarshal(raw, &last); err != nil {
		return nil, fmt.Errorf("%w: decode last analysis: %v", appErrors.ErrInternal, err)
	}
	return &last, nil
}

func (h *HistoryUseCase) load(ctx context.Context, key string) ([]domain.HistoryEntry, error) {
	raw, err := h.store.Load(ctx, key)
	if errors.Is(err, appErrors.ErrNotFound) {
		return []domain.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []domain.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", appErrors.ErrInternal, key, err)
	}
	return entries, nil
}

func (h *HistoryUseCase) save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", appErrors.ErrInternal, key, err)
	}
	return h.store.Save(ctx, key, raw)
}
