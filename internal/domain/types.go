package domain

import "time"

// LocationInfo is the resolved country/language/currency bundle used to
// localize prompts and derive currency symbols. Resolution never fails;
// callers receive the fixed default instead.
type LocationInfo struct {
	Country        string
	CountryCode    string
	Language       string
	Currency       string
	CurrencySymbol string
}

// PriceRange bounds gift suggestions. Both bounds are in the caller's local
// currency.
type PriceRange struct {
	Min float64
	Max float64
}

// Valid reports whether the bounds are non-negative and ordered.
func (p PriceRange) Valid() bool {
	return p.Min >= 0 && p.Max >= 0 && p.Min <= p.Max
}

// StagedFile is a user-submitted image held server-side until the batch is
// generated. PreviewPath is a local preview handle created and released
// exclusively by the staging batch; it is never persisted.
type StagedFile struct {
	Name        string
	MimeType    string
	Data        []byte
	PreviewPath string
}

// Post is one persisted generation result: every gift idea from the batch
// joined into Caption, plus the public URLs of the uploaded photos.
type Post struct {
	ID        int64
	Caption   string
	UserID    *string
	UserIP    *string
	Uploads   []string
	App       string
	CreatedAt time.Time
}
