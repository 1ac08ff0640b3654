package history

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	domain "chesslab/internal/domain/analysis"
	appErrors "chesslab/internal/errors"
	"chesslab/internal/httpresponse"
	"chesslab/internal/report"
)

type HistoryReader interface {
	History(ctx context.Context, username string) ([]domain.HistoryEntry, error)
	Last(ctx context.Context, username string) (*domain.LastAnalysis, error)
}

type HistoryHandler struct {
	log       *zap.SugaredLogger
	historyUC HistoryReader
}

func NewHistoryHandler(log *zap.SugaredLogger, historyUC HistoryReader) *HistoryHandler {
	return &HistoryHandler{
		log:       log,
		historyUC: historyUC,
	}
}

// HandleHistory godoc
// @Summary Past game reviews of a user
// @Tags history
// @Produce json
// @Param username path string true "User name"
// @Success 200 {array} analysis.HistoryEntry
// @Failure 500 {object} httpresponse.ErrorResponse
// @Router /history/{username} [get]
func (h *HistoryHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.historyUC.History(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		httpresponse.WriteError(h.log, w, err)
		return
	}
	httpresponse.WriteJSON(h.log, w, http.StatusOK, entries)
}

// HandleLast godoc
// @Summary Most recent analysis of a user
// @Tags history
// @Produce json
// @Param username path string true "User name"
// @Success 200 {object} analysis.LastAnalysis
// @Failure 404 {object} httpresponse.ErrorResponse
// @Router /history/{username}/last [get]
func (h *HistoryHandler) HandleLast(w http.ResponseWriter, r *http.Request) {
	last, err := h.historyUC.Last(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		httpresponse.WriteError(h.log, w, err)
		return
	}
	httpresponse.WriteJSON(h.log, w, http.StatusOK, last)
}

// HandleLastPDF exports the most recent game review as a PDF download.
func (h *HistoryHandler) HandleLastPDF(w http.ResponseWriter, r *http.Request) {
	last, err := h.historyUC.Last(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		httpresponse.WriteError(h.log, w, err)
		return
	}
	if last.Review == nil {
		httpresponse.WriteError(h.log, w, fmt.Errorf("%w: most recent analysis is not a game review", appErrors.ErrNotFound))
		return
	}

	var buf bytes.Buffer
	if err := report.WriteReviewPDF(&buf, last.Review); err != nil {
		httpresponse.WriteError(h.log, w, fmt.Errorf("%w: render pdf: %v", appErrors.ErrInternal, err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"review-%s.pdf\"", last.Review.ID))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.log.Debugf("pdf write failed: %v", err)
	}
}
