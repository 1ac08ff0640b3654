package review

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	domain "chesslab/internal/domain/analysis"
	"chesslab/internal/httpresponse"
	"chesslab/internal/utils"
)

const writeWait = 10 * time.Second

type Reviewer interface {
	Review(ctx context.Context, req domain.ReviewRequest, onMove func(domain.MoveRecord)) (*domain.GameReview, error)
}

type ReviewHandler struct {
	log      *zap.SugaredLogger
	reviewUC Reviewer
	upgrader websocket.Upgrader
}

func NewReviewHandler(log *zap.SugaredLogger, reviewUC Reviewer) *ReviewHandler {
	return &ReviewHandler{
		log:      log,
		reviewUC: reviewUC,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleReview godoc
// @Summary Review a whole game
// @Description Evaluates every position of the game and classifies each move
// @Tags review
// @Accept json
// @Produce json
// @Param request body analysis.ReviewRequest true "Moves (SAN or UCI) or a PGN document"
// @Success 200 {object} analysis.GameReview
// @Failure 400 {object} httpresponse.ErrorResponse
// @Failure 500 {object} httpresponse.ErrorResponse
// @Router /review [post]
func (h *ReviewHandler) HandleReview(w http.ResponseWriter, r *http.Request) {
	var req domain.ReviewRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		httpresponse.WriteError(h.log, w, err)
		return
	}

	review, err := h.reviewUC.Review(r.Context(), req, nil)
	if err != nil {
		httpresponse.WriteError(h.log, w, err)
		return
	}

	httpresponse.WriteJSON(h.log, w, http.StatusOK, review)
}

// HandleStream upgrades to a websocket, reads one ReviewRequest and streams a
// "move" frame per analyzed position followed by a single "review" or
// "error" frame.
func (h *ReviewHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	var req domain.ReviewRequest
	if err := conn.ReadJSON(&req); err != nil {
		h.log.Debugf("websocket read failed: %v", err)
		h.send(conn, domain.StreamMessage{Type: domain.StreamError, Error: "invalid request: " + err.Error()})
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// any further read result means the client went away
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	review, err := h.reviewUC.Review(ctx, req, func(rec domain.MoveRecord) {
		h.send(conn, domain.StreamMessage{Type: domain.StreamMove, Move: &rec})
	})
	if err != nil {
		h.send(conn, domain.StreamMessage{Type: domain.StreamError, Error: err.Error()})
		return
	}

	h.send(conn, domain.StreamMessage{Type: domain.StreamReview, Review: review})
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "review complete"),
		time.Now().Add(writeWait))
}

func (h *ReviewHandler) send(conn *websocket.Conn, msg domain.StreamMessage) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		h.log.Debugf("websocket write failed: %v", err)
	}
}
