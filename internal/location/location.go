package location

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/giftedai/giftedai/internal/domain"
)

const defaultBaseURL = "https://ipapi.co"

// lookupTimeout bounds the single geolocation attempt so a hung lookup
// cannot stall submission handling. There are no retries.
const lookupTimeout = 5 * time.Second

// Default is returned whenever resolution fails for any reason.
func Default() domain.LocationInfo {
	return domain.LocationInfo{
		Country:        "United States",
		CountryCode:    "US",
		Language:       "en",
		Currency:       "USD",
		CurrencySymbol: "$",
	}
}

// Resolver resolves the caller's country, language, and currency from an
// ipapi-style IP geolocation service plus the caller's Accept-Language tag.
type Resolver struct {
	client  *http.Client
	baseURL string
}

func NewResolver(baseURL string) *Resolver {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Resolver{
		client:  &http.Client{Timeout: lookupTimeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// geoResponse mirrors the ipapi.co JSON payload.
type geoResponse struct {
	CountryName string `json:"country_name"`
	CountryCode string `json:"country_code"`
	Currency    string `json:"currency"`
	Languages   string `json:"languages"`
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
}

// Resolve never fails: any lookup or derivation error falls back to the
// fixed default. acceptLanguage is the caller's Accept-Language header;
// clientIP may be empty, in which case the service resolves the requesting
// host.
func (r *Resolver) Resolve(ctx context.Context, acceptLanguage, clientIP string) domain.LocationInfo {
	locale := primaryLocale(acceptLanguage)

	geo, err := r.lookup(ctx, clientIP)
	if err != nil {
		slog.Warn("location lookup failed, using default", "error", err)
		return Default()
	}
	if geo.CountryName == "" {
		slog.Warn("location lookup returned no country, using default")
		return Default()
	}

	lang := locale
	if idx := strings.IndexByte(lang, '-'); idx >= 0 {
		lang = lang[:idx]
	}
	if geo.Languages != "" {
		lang = strings.Split(geo.Languages, ",")[0]
	}

	symbol, err := CurrencySymbol(geo.Currency, locale)
	if err != nil {
		slog.Warn("currency symbol derivation failed, using default", "currency", geo.Currency, "error", err)
		return Default()
	}

	return domain.LocationInfo{
		Country:        geo.CountryName,
		CountryCode:    geo.CountryCode,
		Language:       lang,
		Currency:       geo.Currency,
		CurrencySymbol: symbol,
	}
}

func (r *Resolver) lookup(ctx context.Context, clientIP string) (*geoResponse, error) {
	url := r.baseURL + "/json/"
	if clientIP != "" {
		url = fmt.Sprintf("%s/%s/json/", r.baseURL, clientIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call geolocation service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close geolocation response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation service returned status %d", resp.StatusCode)
	}

	var geo geoResponse
	if err := json.NewDecoder(resp.Body).Decode(&geo); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}
	if geo.Error {
		return nil, fmt.Errorf("geolocation service error: %s", geo.Reason)
	}
	return &geo, nil
}

// primaryLocale extracts the first locale tag from an Accept-Language value,
// e.g. "en-US,en;q=0.9" -> "en-US". Empty input yields "en-US".
func primaryLocale(acceptLanguage string) string {
	first := acceptLanguage
	if idx := strings.IndexByte(first, ','); idx >= 0 {
		first = first[:idx]
	}
	if idx := strings.IndexByte(first, ';'); idx >= 0 {
		first = first[:idx]
	}
	first = strings.TrimSpace(first)
	if first == "" || first == "*" {
		return "en-US"
	}
	return first
}
