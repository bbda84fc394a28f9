package web

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/giftedai/giftedai/internal/domain"
	"github.com/giftedai/giftedai/internal/service"
	"github.com/giftedai/giftedai/internal/staging"
)

// maxPhotoSize is the advertised per-file limit, enforced here rather than
// trusted to the client's file picker.
const maxPhotoSize = 5 * 1024 * 1024 // 5 MB

const defaultMaxPrice = 1000

// genericFailure is the only failure text shown to users; provider error
// detail stays in the logs.
const genericFailure = "Failed to generate gift ideas. Please try again."

// allowedImageTypes is the set of MIME types accepted for uploaded photos.
// net/http.DetectContentType handles JPEG and PNG via magic-byte sniffing.
// WebP is detected separately because the WHATWG sniff spec (and therefore
// the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to parse form"})
		return
	}

	images := r.MultipartForm.File["images"]
	if len(images) == 0 {
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "Please upload at least one photo"})
		return
	}

	pr, err := parsePriceRange(r.FormValue("min_price"), r.FormValue("max_price"))
	if err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	batch, err := staging.NewBatch(s.stagingDir)
	if err != nil {
		s.logger.Error("failed to create staging batch", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": genericFailure})
		return
	}
	defer batch.Reset()

	for _, header := range images {
		if err := s.stageUpload(batch, header); err != nil {
			s.writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
	}

	loc := s.resolver.Resolve(r.Context(), r.Header.Get("Accept-Language"), clientIP(r))

	var userID *string
	if id := r.FormValue("user_id"); id != "" {
		userID = &id
	}
	var userIP *string
	if ip := clientIP(r); ip != "" {
		userIP = &ip
	}

	result, err := s.gifts.Generate(r.Context(), batch, r.FormValue("context"), pr, loc, userID, userIP)
	if err != nil {
		if errors.Is(err, service.ErrNoFiles) || errors.Is(err, service.ErrMissingContext) || errors.Is(err, service.ErrInvalidPriceRange) {
			s.writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		s.logger.Error("generation failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": genericFailure})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"giftIdeas": result.GiftIdeas,
		"uploads":   result.Uploads,
	})
}

// stageUpload validates one multipart file and adds it to the batch. The
// returned error is safe to show to the user.
func (s *Server) stageUpload(batch *staging.Batch, header *multipart.FileHeader) error {
	if header.Size > maxPhotoSize {
		return errors.New("photos must be 5 MB or smaller")
	}

	file, err := header.Open()
	if err != nil {
		return errors.New("failed to read uploaded photo")
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.Error("failed to close upload", "error", err)
		}
	}()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoSize+1))
	if err != nil {
		return errors.New("failed to read uploaded photo")
	}
	if len(data) > maxPhotoSize {
		return errors.New("photos must be 5 MB or smaller")
	}

	mimeType, ok := allowedImageMIME(data)
	if !ok {
		return errors.New("photos must be JPG, PNG, or WebP")
	}

	if _, err := batch.Add(header.Filename, mimeType, data); err != nil {
		s.logger.Error("failed to stage upload", "file", header.Filename, "error", err)
		return errors.New("failed to process uploaded photo")
	}
	return nil
}

// parsePriceRange parses the optional price fields, defaulting to 0..1000.
func parsePriceRange(minStr, maxStr string) (domain.PriceRange, error) {
	pr := domain.PriceRange{Min: 0, Max: defaultMaxPrice}

	if minStr != "" {
		min, err := strconv.ParseFloat(minStr, 64)
		if err != nil {
			return pr, errors.New("minimum price must be a number")
		}
		pr.Min = min
	}
	if maxStr != "" {
		max, err := strconv.ParseFloat(maxStr, 64)
		if err != nil {
			return pr, errors.New("maximum price must be a number")
		}
		pr.Max = max
	}
	return pr, nil
}
