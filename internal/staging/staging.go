package staging

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/giftedai/giftedai/internal/domain"
)

// Batch holds user-submitted images between selection and generation. Every
// staged file gets a preview file on disk; Batch is the only owner of those
// previews and balances every creation with a release via Remove or Reset.
type Batch struct {
	dir   string
	files []domain.StagedFile
}

// NewBatch stages previews under dir, creating it if needed. An empty dir
// uses the system temp directory.
func NewBatch(dir string) (*Batch, error) {
	if dir == "" {
		dir = os.TempDir()
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	return &Batch{dir: dir}, nil
}

// Add stages a new file and creates its preview. Duplicates are not
// deduplicated; each call stages a fresh entry.
func (b *Batch) Add(name, mimeType string, data []byte) (domain.StagedFile, error) {
	f, err := os.CreateTemp(b.dir, "preview-*")
	if err != nil {
		return domain.StagedFile{}, fmt.Errorf("failed to create preview: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		releasePreview(f.Name())
		if cerr := f.Close(); cerr != nil {
			slog.Error("failed to close preview after write error", "error", cerr)
		}
		return domain.StagedFile{}, fmt.Errorf("failed to write preview: %w", err)
	}
	if err := f.Close(); err != nil {
		releasePreview(f.Name())
		return domain.StagedFile{}, fmt.Errorf("failed to close preview: %w", err)
	}

	staged := domain.StagedFile{
		Name:        name,
		MimeType:    mimeType,
		Data:        data,
		PreviewPath: f.Name(),
	}
	b.files = append(b.files, staged)
	return staged, nil
}

// Remove releases the preview for the entry at index i and drops it from the
// batch.
func (b *Batch) Remove(i int) error {
	if i < 0 || i >= len(b.files) {
		return fmt.Errorf("staged file index %d out of range", i)
	}
	releasePreview(b.files[i].PreviewPath)
	b.files = append(b.files[:i], b.files[i+1:]...)
	return nil
}

// Reset releases every preview and empties the batch.
func (b *Batch) Reset() {
	for _, f := range b.files {
		releasePreview(f.PreviewPath)
	}
	b.files = nil
}

// Files returns the staged files in selection order.
func (b *Batch) Files() []domain.StagedFile {
	return b.files
}

func (b *Batch) Len() int {
	return len(b.files)
}

func releasePreview(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Error("failed to release preview", "path", path, "error", err)
	}
}
