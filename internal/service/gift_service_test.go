package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftedai/giftedai/internal/advisor"
	"github.com/giftedai/giftedai/internal/db"
	"github.com/giftedai/giftedai/internal/domain"
	"github.com/giftedai/giftedai/internal/staging"
	"github.com/giftedai/giftedai/internal/store"
)

// stubAdvisor returns canned results, failing at the call indexes
// registered in failAt.
type stubAdvisor struct {
	mu      sync.Mutex
	ideas   []string
	failAt  map[int]string // call index -> error message
	calls   int
	prompts []string
}

func (a *stubAdvisor) Suggest(_ context.Context, imageDataURI, relationshipContext string, loc domain.LocationInfo, pr domain.PriceRange) advisor.Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	idx := a.calls
	a.calls++
	a.prompts = append(a.prompts, fmt.Sprintf("%s|%s|%s|%g|%g", relationshipContext, loc.Currency, loc.CurrencySymbol, pr.Min, pr.Max))

	if _, err := advisor.DataURIPayload(imageDataURI); err != nil {
		return advisor.Failure(err)
	}
	if msg, ok := a.failAt[idx]; ok {
		return advisor.Result{Err: msg}
	}
	return advisor.Result{Success: true, GiftIdeas: a.ideas}
}

// stubObjectStore is an in-memory objectstore.Store tracking live objects.
type stubObjectStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploads   int
	uploadErr error
	removeErr error
}

func newStubObjectStore() *stubObjectStore {
	return &stubObjectStore{objects: make(map[string][]byte)}
}

func (s *stubObjectStore) Upload(_ context.Context, fileName, _ string, r io.Reader) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return "", "", s.uploadErr
	}
	s.uploads++
	key := fmt.Sprintf("gifted-ai-%d-%s", s.uploads, fileName)
	data, _ := io.ReadAll(r)
	s.objects[key] = data
	return key, "http://store/files/" + key, nil
}

func (s *stubObjectStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeErr != nil {
		return s.removeErr
	}
	if _, ok := s.objects[key]; !ok {
		return errors.New("object not found")
	}
	delete(s.objects, key)
	return nil
}

func (s *stubObjectStore) live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// failingPostRepo always fails Create.
type failingPostRepo struct{}

func (f *failingPostRepo) Create(context.Context, string, *string, *string, []string, string) (*domain.Post, error) {
	return nil, errors.New("insert failed")
}

func usLocation() domain.LocationInfo {
	return domain.LocationInfo{
		Country:        "United States",
		CountryCode:    "US",
		Language:       "en",
		Currency:       "USD",
		CurrencySymbol: "$",
	}
}

func newTestBatch(t *testing.T, names ...string) *staging.Batch {
	t.Helper()
	b, err := staging.NewBatch(t.TempDir())
	require.NoError(t, err)
	for _, name := range names {
		_, err := b.Add(name, "image/jpeg", []byte{0xFF, 0xD8, 0xFF})
		require.NoError(t, err)
	}
	t.Cleanup(b.Reset)
	return b
}

func newTestService(t *testing.T, objects *stubObjectStore, adv advisor.GiftAdvisor) *GiftService {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })
	return NewGiftService(store.NewPostStore(d), objects, adv, slog.Default())
}

func TestGenerateValidation(t *testing.T) {
	objects := newStubObjectStore()
	adv := &stubAdvisor{ideas: []string{"idea"}}
	svc := newTestService(t, objects, adv)
	ctx := context.Background()

	empty, err := staging.NewBatch(t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		name    string
		batch   *staging.Batch
		context string
		pr      domain.PriceRange
		wantErr error
	}{
		{"no files", empty, "anniversary", domain.PriceRange{Min: 0, Max: 100}, ErrNoFiles},
		{"blank context", newTestBatch(t, "a.jpg"), "   ", domain.PriceRange{Min: 0, Max: 100}, ErrMissingContext},
		{"min above max", newTestBatch(t, "a.jpg"), "anniversary", domain.PriceRange{Min: 200, Max: 20}, ErrInvalidPriceRange},
		{"negative min", newTestBatch(t, "a.jpg"), "anniversary", domain.PriceRange{Min: -1, Max: 20}, ErrInvalidPriceRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(ctx, tt.batch, tt.context, tt.pr, usLocation(), nil, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// No network or storage activity for rejected submissions.
	assert.Equal(t, 0, adv.calls)
	assert.Equal(t, 0, objects.uploads)
}

func TestGenerateSingleFile(t *testing.T) {
	objects := newStubObjectStore()
	adv := &stubAdvisor{ideas: []string{"Idea 1", "Idea 2", "Idea 3", "Idea 4", "Idea 5"}}
	svc := newTestService(t, objects, adv)

	batch := newTestBatch(t, "hike.jpg")
	userID := "user-7"
	res, err := svc.Generate(context.Background(), batch, "5-year anniversary, loves hiking",
		domain.PriceRange{Min: 20, Max: 200}, usLocation(), &userID, nil)
	require.NoError(t, err)

	assert.Len(t, res.GiftIdeas, 5)
	assert.Len(t, res.Uploads, 1)
	assert.Equal(t, 1, adv.calls)
	assert.Equal(t, "5-year anniversary, loves hiking|USD|$|20|200", adv.prompts[0])

	require.NotNil(t, res.Post)
	assert.Equal(t, strings.Join(res.GiftIdeas, "\n\n"), res.Post.Caption)
	assert.Equal(t, AppTag, res.Post.App)
	require.NotNil(t, res.Post.UserID)
	assert.Equal(t, "user-7", *res.Post.UserID)
	assert.Equal(t, res.Uploads, res.Post.Uploads)

	assert.Equal(t, 1, objects.live())
}

func TestGenerateMultipleFilesFlattensInOrder(t *testing.T) {
	objects := newStubObjectStore()
	adv := &stubAdvisor{ideas: []string{"A", "B"}}
	svc := newTestService(t, objects, adv)

	batch := newTestBatch(t, "one.jpg", "two.jpg", "three.jpg")
	res, err := svc.Generate(context.Background(), batch, "birthday",
		domain.PriceRange{Min: 0, Max: 100}, usLocation(), nil, nil)
	require.NoError(t, err)

	assert.Len(t, res.GiftIdeas, 6)
	assert.Len(t, res.Uploads, 3)
	assert.Equal(t, 3, adv.calls)
	assert.Equal(t, 3, objects.live())
}

// A branch whose generation fails must delete its own upload, and the
// sibling branches' uploads must be removed at the join.
func TestGenerateAdvisorFailureCompensates(t *testing.T) {
	objects := newStubObjectStore()
	adv := &stubAdvisor{ideas: []string{"A"}, failAt: map[int]string{1: "model overloaded"}}
	svc := newTestService(t, objects, adv)

	batch := newTestBatch(t, "one.jpg", "two.jpg")
	_, err := svc.Generate(context.Background(), batch, "birthday",
		domain.PriceRange{Min: 0, Max: 100}, usLocation(), nil, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate gift ideas")
	assert.Equal(t, 0, objects.live())
}

func TestGenerateUploadFailure(t *testing.T) {
	objects := newStubObjectStore()
	objects.uploadErr = errors.New("bucket unavailable")
	adv := &stubAdvisor{ideas: []string{"A"}}
	svc := newTestService(t, objects, adv)

	batch := newTestBatch(t, "one.jpg")
	_, err := svc.Generate(context.Background(), batch, "birthday",
		domain.PriceRange{Min: 0, Max: 100}, usLocation(), nil, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload")
	assert.Equal(t, 0, adv.calls)
}

// Persistence failure after successful uploads+generations removes every
// uploaded object.
func TestGeneratePersistFailureCompensatesAll(t *testing.T) {
	objects := newStubObjectStore()
	adv := &stubAdvisor{ideas: []string{"A"}}
	svc := NewGiftService(&failingPostRepo{}, objects, adv, slog.Default())

	batch := newTestBatch(t, "one.jpg", "two.jpg")
	_, err := svc.Generate(context.Background(), batch, "birthday",
		domain.PriceRange{Min: 0, Max: 100}, usLocation(), nil, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save post")
	assert.Equal(t, 2, adv.calls)
	assert.Equal(t, 0, objects.live())
}

// Compensation is best-effort: a failing Remove must not mask the primary
// error.
func TestGenerateCompensationFailureDoesNotMask(t *testing.T) {
	objects := newStubObjectStore()
	objects.removeErr = errors.New("delete denied")
	adv := &stubAdvisor{ideas: []string{"A"}}
	svc := NewGiftService(&failingPostRepo{}, objects, adv, slog.Default())

	batch := newTestBatch(t, "one.jpg")
	_, err := svc.Generate(context.Background(), batch, "birthday",
		domain.PriceRange{Min: 0, Max: 100}, usLocation(), nil, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save post")
}
