package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/giftedai/giftedai/internal/advisor"
	"github.com/giftedai/giftedai/internal/domain"
	"github.com/giftedai/giftedai/internal/objectstore"
	"github.com/giftedai/giftedai/internal/staging"
)

// AppTag marks every post written by this application.
const AppTag = "gifted-ai"

// Validation errors; submissions failing these make no network calls.
var (
	ErrNoFiles           = errors.New("at least one photo is required")
	ErrMissingContext    = errors.New("relationship context is required")
	ErrInvalidPriceRange = errors.New("minimum price cannot be greater than maximum price")
)

// postRepository is the subset of store.PostStore that GiftService requires.
type postRepository interface {
	Create(ctx context.Context, caption string, userID, userIP *string, uploads []string, app string) (*domain.Post, error)
}

type GiftService struct {
	posts   postRepository
	objects objectstore.Store
	advisor advisor.GiftAdvisor
	logger  *slog.Logger
}

func NewGiftService(posts postRepository, objects objectstore.Store, giftAdvisor advisor.GiftAdvisor, logger *slog.Logger) *GiftService {
	return &GiftService{
		posts:   posts,
		objects: objects,
		advisor: giftAdvisor,
		logger:  logger,
	}
}

// GenerateResult is the successful outcome of one submitted batch.
type GenerateResult struct {
	GiftIdeas []string
	Uploads   []string
	Post      *domain.Post
}

// branchOutcome is the result of one file's upload+suggest branch.
type branchOutcome struct {
	key   string
	url   string
	ideas []string
	err   error
}

// Generate runs the full sequence for a staged batch: validate, fan out one
// upload+suggest branch per file, join, persist one aggregate post. A failed
// branch compensates its own upload; a failed join or persist compensates
// every remaining upload. Branches are independent: a failure does not
// cancel siblings already in flight.
func (s *GiftService) Generate(ctx context.Context, batch *staging.Batch, relationshipContext string, pr domain.PriceRange, loc domain.LocationInfo, userID, userIP *string) (*GenerateResult, error) {
	files := batch.Files()
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if strings.TrimSpace(relationshipContext) == "" {
		return nil, ErrMissingContext
	}
	if !pr.Valid() {
		return nil, ErrInvalidPriceRange
	}

	s.logger.Info("generation started", "files", len(files), "country", loc.CountryCode, "min_price", pr.Min, "max_price", pr.Max)

	outcomes := make([]branchOutcome, len(files))
	var wg sync.WaitGroup
	for i := range files {
		wg.Add(1)
		go func(i int, f domain.StagedFile) {
			defer wg.Done()
			outcomes[i] = s.processFile(ctx, f, relationshipContext, pr, loc)
		}(i, files[i])
	}
	wg.Wait()

	var firstErr error
	for i := range outcomes {
		if outcomes[i].err != nil {
			firstErr = outcomes[i].err
			break
		}
	}
	if firstErr != nil {
		// Failed branches already compensated their own uploads; remove the
		// successful siblings' uploads so no orphaned objects remain.
		for i := range outcomes {
			if outcomes[i].err == nil {
				s.removeUpload(ctx, outcomes[i].key)
			}
		}
		return nil, firstErr
	}

	ideas := make([]string, 0, len(outcomes))
	uploads := make([]string, 0, len(outcomes))
	for i := range outcomes {
		ideas = append(ideas, outcomes[i].ideas...)
		uploads = append(uploads, outcomes[i].url)
	}

	post, err := s.posts.Create(ctx, strings.Join(ideas, "\n\n"), userID, userIP, uploads, AppTag)
	if err != nil {
		for i := range outcomes {
			s.removeUpload(ctx, outcomes[i].key)
		}
		return nil, fmt.Errorf("failed to save post: %w", err)
	}

	s.logger.Info("generation complete", "post_id", post.ID, "ideas", len(ideas), "uploads", len(uploads))
	return &GenerateResult{GiftIdeas: ideas, Uploads: uploads, Post: post}, nil
}

func (s *GiftService) processFile(ctx context.Context, f domain.StagedFile, relationshipContext string, pr domain.PriceRange, loc domain.LocationInfo) branchOutcome {
	key, url, err := s.objects.Upload(ctx, f.Name, f.MimeType, bytes.NewReader(f.Data))
	if err != nil {
		return branchOutcome{err: fmt.Errorf("failed to upload %s: %w", f.Name, err)}
	}
	s.logger.Debug("photo uploaded", "file", f.Name, "key", key)

	dataURI := "data:" + f.MimeType + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
	result := s.advisor.Suggest(ctx, dataURI, relationshipContext, loc, pr)
	if !result.Success {
		s.removeUpload(ctx, key)
		return branchOutcome{err: fmt.Errorf("failed to generate gift ideas for %s: %s", f.Name, result.Err)}
	}

	return branchOutcome{key: key, url: url, ideas: result.GiftIdeas}
}

// removeUpload is best-effort compensation; failures are logged so they
// never mask the primary error.
func (s *GiftService) removeUpload(ctx context.Context, key string) {
	if err := s.objects.Remove(ctx, key); err != nil {
		s.logger.Error("failed to remove uploaded object", "key", key, "error", err)
	}
}
