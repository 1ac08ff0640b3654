package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"chesslab/internal/adapters"
	"chesslab/internal/bootstrap"
	analysisDelivery "chesslab/internal/delivery/analysis"
	historyDelivery "chesslab/internal/delivery/history"
	reviewDelivery "chesslab/internal/delivery/review"
	"chesslab/internal/engine"
	ownMiddleware "chesslab/internal/middleware"
	repo "chesslab/internal/repository"
	analysisUC "chesslab/internal/usecase/analysis"
	historyUC "chesslab/internal/usecase/history"
	reviewUC "chesslab/internal/usecase/review"
)

type mainDeliveryHandler struct {
	analysis *analysisDelivery.AnalysisHandler
	review   *reviewDelivery.ReviewHandler
	history  *historyDelivery.HistoryHandler
}

type historyStorage struct {
	store historyUC.Store
	close func(ctx context.Context) error
}

func main() {
	logger := NewLogger()
	defer func() { _ = logger.Sync() }()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Errorw("Failed to setup configuration", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	storage, err := initHistoryStorage(ctx, logger, cfg)
	if err != nil {
		logger.Fatalw("Failed to initialize history storage", "backend", cfg.StorageBackend, "error", err)
	}
	defer func() { _ = storage.close(context.Background()) }()

	r := chi.NewRouter()
	handlers := initializeDeliveryHandlers(cfg, logger, storage.store)
	handlers.Router(r, cfg.IsLocalCors)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorw("Graceful shutdown failed", "error", err)
		}
	}()

	logger.Infof("Server is running on port %s", cfg.ServerPort)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalw("Failed to start server", "error", err)
	}
	logger.Info("Server stopped")
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func (h *mainDeliveryHandler) Router(r *chi.Mux, isLocalCors bool) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", h.analysis.Liveness)
	r.Post("/analyze", h.analysis.Analyze)
	r.Post("/review", h.review.HandleReview)
	r.Get("/review/stream", h.review.HandleStream)
	r.Get("/history/{username}", h.history.HandleHistory)
	r.Get("/history/{username}/last", h.history.HandleLast)
	r.Get("/history/{username}/last.pdf", h.history.HandleLastPDF)
}

func initHistoryStorage(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config) (*historyStorage, error) {
	switch cfg.StorageBackend {
	case bootstrap.StorageMemory:
		log.Info("Using in-memory history storage")
		return &historyStorage{
			store: repo.NewMemoryHistoryStorage(),
			close: func(context.Context) error { return nil },
		}, nil

	case bootstrap.StorageRedis:
		redisAdapter := adapters.NewAdapterRedis(cfg, log)
		if err := redisAdapter.Init(ctx); err != nil {
			return nil, err
		}
		return &historyStorage{
			store: repo.NewRedisHistoryStorage(redisAdapter.GetClient()),
			close: redisAdapter.Close,
		}, nil

	case bootstrap.StorageMongo:
		mongoAdapter := adapters.NewAdapterMongo(cfg, log)
		if err := mongoAdapter.Init(ctx); err != nil {
			return nil, err
		}
		return &historyStorage{
			store: repo.NewMongoHistoryStorage(mongoAdapter.Database),
			close: mongoAdapter.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func initializeDeliveryHandlers(cfg *bootstrap.Config, log *zap.SugaredLogger, store historyUC.Store) *mainDeliveryHandler {
	stockfish := engine.NewStockfish(cfg.EnginePath, engine.Config{
		MoveTime: cfg.MoveTime(),
		Timeout:  cfg.Timeout(),
	}, log)

	historyUseCase := historyUC.NewHistoryUseCase(store, cfg.HistoryPageSize, log)
	analysisUseCase := analysisUC.NewAnalysisUseCase(stockfish, log)
	reviewUseCase := reviewUC.NewReviewUseCase(analysisUseCase, historyUseCase, log)

	return &mainDeliveryHandler{
		analysis: analysisDelivery.NewAnalysisHandler(log, analysisUseCase, historyUseCase),
		review:   reviewDelivery.NewReviewHandler(log, reviewUseCase),
		history:  historyDelivery.NewHistoryHandler(log, historyUseCase),
	}
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
}
