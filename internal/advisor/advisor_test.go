package advisor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftedai/giftedai/internal/domain"
)

func TestDataURIPayload(t *testing.T) {
	payload, err := DataURIPayload("data:image/jpeg;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "aGVsbG8=", payload)
}

func TestDataURIPayloadInvalid(t *testing.T) {
	tests := []struct {
		name string
		uri  string
	}{
		{"no marker", "data:image/jpeg,aGVsbG8="},
		{"empty payload", "data:image/jpeg;base64,"},
		{"raw base64 without prefix", "aGVsbG8="},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DataURIPayload(tt.uri)
			assert.True(t, errors.Is(err, ErrInvalidImageFormat))
		})
	}
}

func testLocation() domain.LocationInfo {
	return domain.LocationInfo{
		Country:        "United States",
		CountryCode:    "US",
		Language:       "en",
		Currency:       "USD",
		CurrencySymbol: "$",
	}
}

func TestSystemInstruction(t *testing.T) {
	sys := SystemInstruction(testLocation(), domain.PriceRange{Min: 20, Max: 200}, "")

	assert.Contains(t, sys, "gift advisor called Gifted-AI")
	assert.Contains(t, sys, "Respond in en language")
	assert.Contains(t, sys, "use USD for pricing")
	assert.Contains(t, sys, "$20 to $200")
	assert.NotContains(t, sys, "under 18")
}

func TestSystemInstructionKidsPromo(t *testing.T) {
	sys := SystemInstruction(testLocation(), domain.PriceRange{Min: 0, Max: 50}, "https://example.com/storybooks")

	assert.Contains(t, sys, "under 18")
	assert.Contains(t, sys, "https://example.com/storybooks")
}

func TestPrompt(t *testing.T) {
	p := Prompt("5-year anniversary, loves hiking", testLocation(), domain.PriceRange{Min: 20, Max: 200})

	assert.Contains(t, p, `"5-year anniversary, loves hiking"`)
	assert.Contains(t, p, "suggest 5 thoughtful gift ideas")
	assert.Contains(t, p, "$20 to $200")
	assert.Contains(t, p, "Local availability in United States")
	assert.Contains(t, p, "respond in en language")
	assert.Contains(t, p, "Exact price in $")
}
