package advisor

import (
	"context"
	"errors"
	"strings"

	"github.com/giftedai/giftedai/internal/domain"
)

// ErrInvalidImageFormat is reported when an image data URI carries no base64
// payload. The check happens before any provider call.
var ErrInvalidImageFormat = errors.New("invalid image data format")

// Result is the fail-soft outcome of one suggestion request. Backends never
// propagate provider errors as Go errors; callers branch on Success.
type Result struct {
	Success   bool
	GiftIdeas []string
	Err       string
}

// Failure builds a failed Result from an error.
func Failure(err error) Result {
	return Result{Err: err.Error()}
}

// GiftAdvisor produces gift ideas for one photo plus relationship context,
// localized to the caller's resolved location and bounded by the price
// range. One provider call per image; no retries.
type GiftAdvisor interface {
	Suggest(ctx context.Context, imageDataURI, relationshipContext string, loc domain.LocationInfo, pr domain.PriceRange) Result
}

// DataURIPayload extracts the base64 payload from an image data URI. The URI
// must contain a ";base64," marker followed by a non-empty payload.
func DataURIPayload(uri string) (string, error) {
	_, payload, found := strings.Cut(uri, ";base64,")
	if !found || payload == "" {
		return "", ErrInvalidImageFormat
	}
	return payload, nil
}
