package analysis

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	domain "chesslab/internal/domain/analysis"
	"chesslab/internal/httpresponse"
	"chesslab/internal/rules"
	"chesslab/internal/utils"
)

const livenessMessage = "Hello from Chess Lab server!"

type Analyzer interface {
	Analyze(ctx context.Context, fen string) (domain.EvaluationResult, error)
}

type EvaluationRecorder interface {
	RecordEvaluation(ctx context.Context, username, fen string, result domain.EvaluationResult) error
}

type AnalysisHandler struct {
	log        *zap.SugaredLogger
	analysisUC Analyzer
	recorder   EvaluationRecorder
}

// NewAnalysisHandler builds the handler; recorder may be nil.
func NewAnalysisHandler(log *zap.SugaredLogger, analysisUC Analyzer, recorder EvaluationRecorder) *AnalysisHandler {
	return &AnalysisHandler{
		log:        log,
		analysisUC: analysisUC,
		recorder:   recorder,
	}
}

// Liveness godoc
// @Summary Liveness check
// @Tags analysis
// @Produce plain
// @Success 200 {string} string "Hello from Chess Lab server!"
// @Router / [get]
func (a *AnalysisHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(livenessMessage))
}

// Analyze godoc
// @Summary Evaluate a position
// @Description Runs one engine search on the FEN and returns the score in pawns and the best move
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body analysis.AnalyzeRequest true "Position to evaluate"
// @Success 200 {object} analysis.EvaluationResult
// @Failure 400 {object} httpresponse.ErrorResponse
// @Failure 500 {object} httpresponse.ErrorResponse
// @Router /analyze [post]
func (a *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	// clients may send more than the position; only fen and username matter
	var req domain.AnalyzeRequest
	if err := utils.DecodeLenientJSONRequest(r, &req); err != nil {
		httpresponse.WriteError(a.log, w, err)
		return
	}

	ctx := r.Context()

	result, err := a.analysisUC.Analyze(ctx, req.FEN)
	if err != nil {
		httpresponse.WriteError(a.log, w, err)
		return
	}

	if a.recorder != nil {
		if err := a.recorder.RecordEvaluation(ctx, req.Username, rules.Normalize(req.FEN), result); err != nil {
			a.log.Warnw("failed to record evaluation", "error", err)
		}
	}

	httpresponse.WriteJSON(a.log, w, http.StatusOK, result)
}
