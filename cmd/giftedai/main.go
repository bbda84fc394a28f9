package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/giftedai/giftedai/internal/advisor"
	claudeadvisor "github.com/giftedai/giftedai/internal/advisor/claude"
	geminiadvisor "github.com/giftedai/giftedai/internal/advisor/gemini"
	"github.com/giftedai/giftedai/internal/config"
	"github.com/giftedai/giftedai/internal/db"
	"github.com/giftedai/giftedai/internal/location"
	"github.com/giftedai/giftedai/internal/logging"
	"github.com/giftedai/giftedai/internal/objectstore"
	"github.com/giftedai/giftedai/internal/objectstore/local"
	"github.com/giftedai/giftedai/internal/objectstore/s3"
	"github.com/giftedai/giftedai/internal/service"
	"github.com/giftedai/giftedai/internal/store"
	"github.com/giftedai/giftedai/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	ctx := context.Background()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	giftAdvisor := newGiftAdvisor(ctx, cfg, logger)
	if giftAdvisor == nil {
		return
	}

	objects, files := newObjectStore(ctx, cfg, logger)
	if objects == nil {
		return
	}

	posts := store.NewPostStore(database)
	gifts := service.NewGiftService(posts, objects, giftAdvisor, logger)
	resolver := location.NewResolver(cfg.GeoBaseURL)
	server := web.NewServer(gifts, posts, files, resolver, cfg.StagingPath, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

// newGiftAdvisor builds the configured advisor backend. A missing API key is
// fatal: the requester refuses to initialize without one.
func newGiftAdvisor(ctx context.Context, cfg *config.Config, logger *slog.Logger) advisor.GiftAdvisor {
	switch cfg.AdvisorBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Error("CLAUDE_API_KEY is required when ADVISOR_BACKEND=claude")
			return nil
		}
		logger.Info("using claude advisor backend", "model", cfg.ClaudeModel)
		return claudeadvisor.NewClaudeAdvisor(cfg.ClaudeAPIKey, cfg.ClaudeModel, cfg.KidsPromoURL, "")
	default:
		if cfg.GeminiAPIKey == "" {
			logger.Error("GEMINI_API_KEY is required when ADVISOR_BACKEND=gemini")
			return nil
		}
		a, err := geminiadvisor.NewGeminiAdvisor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.KidsPromoURL)
		if err != nil {
			logger.Error("failed to initialize gemini advisor", "error", err)
			return nil
		}
		logger.Info("using gemini advisor backend", "model", cfg.GeminiModel)
		return a
	}
}

// newObjectStore builds the configured storage backend. The second return
// value is non-nil only for the local backend, whose objects this server
// serves itself.
func newObjectStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (objectstore.Store, web.FileGetter) {
	switch cfg.StorageBackend {
	case "s3":
		st, err := s3.NewS3Store(ctx, s3.Options{
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Bucket:        cfg.S3Bucket,
			PublicBaseURL: cfg.S3PublicURL,
		})
		if err != nil {
			logger.Error("failed to initialize s3 object store", "error", err)
			return nil, nil
		}
		logger.Info("using s3 object store", "bucket", cfg.S3Bucket)
		return st, nil
	default:
		st, err := local.NewLocalStore(cfg.StoragePath, cfg.PublicBaseURL)
		if err != nil {
			logger.Error("failed to initialize local object store", "error", err)
			return nil, nil
		}
		logger.Info("using local object store", "path", cfg.StoragePath)
		return st, st
	}
}
