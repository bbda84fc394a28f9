package advisor

import (
	"fmt"

	"github.com/giftedai/giftedai/internal/domain"
)

// Temperature used for every suggestion request, across backends.
const Temperature float32 = 0.7

// SystemInstruction builds the gift-advisor persona instruction,
// parameterized by the caller's language, currency, and price bounds.
// kidsPromoURL, when non-empty, appends the promotional recommendation the
// model is asked to apply when the photographed person looks under 18.
func SystemInstruction(loc domain.LocationInfo, pr domain.PriceRange, kidsPromoURL string) string {
	instruction := fmt.Sprintf(
		"You are a gift advisor called Gifted-AI. Your task is to analyze the uploaded photos "+
			"and relationship context to suggest thoughtful, personalized gift ideas. Focus on the "+
			"interests of the mentioned person and style visible in the photos. Provide specific, "+
			"creative gift suggestions that would be meaningful for their relationship. "+
			"Respond in %s language and use %s for pricing. Only suggest gifts within the "+
			"specified price range of %s%g to %s%g.",
		loc.Language, loc.Currency,
		loc.CurrencySymbol, pr.Min, loc.CurrencySymbol, pr.Max,
	)
	if kidsPromoURL != "" {
		instruction += fmt.Sprintf(
			" If a gift will be bought for a kid who looks under 18, add this account to the list "+
				"of suggestions: %s , they are creating custom story books for kids with the help of AI.",
			kidsPromoURL,
		)
	}
	return instruction
}

// Prompt builds the per-call request text embedding the relationship
// context, country, and price bounds, and asking for five formatted
// suggestions.
func Prompt(relationshipContext string, loc domain.LocationInfo, pr domain.PriceRange) string {
	return fmt.Sprintf(
		`Based on this photo and the following relationship context: "%s", suggest 5 thoughtful gift ideas that would be meaningful for this relationship. Consider:
- Their visible interests and style in the photo
- The relationship context provided
- A mix of practical and sentimental gifts
- Gifts within the price range of %s%g to %s%g
- Personal and customizable options
- Experiences they might enjoy together
- Items that reflect their shared memories or interests
- Local availability in %s

Please respond in %s language.

Format each suggestion with:
1. Gift name
2. Brief description of why it would be meaningful
3. Exact price in %s`,
		relationshipContext,
		loc.CurrencySymbol, pr.Min, loc.CurrencySymbol, pr.Max,
		loc.Country,
		loc.Language,
		loc.CurrencySymbol,
	)
}
