package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/giftedai/giftedai/internal/advisor"
	"github.com/giftedai/giftedai/internal/domain"
)

// imageMIMEType sent with every inline payload; the provider accepts JPEG
// for all the formats the upload layer admits.
const imageMIMEType = "image/jpeg"

type GeminiAdvisor struct {
	client       *genai.Client
	model        string
	kidsPromoURL string
}

func NewGeminiAdvisor(ctx context.Context, apiKey, model, kidsPromoURL string) (*GeminiAdvisor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiAdvisor{
		client:       client,
		model:        model,
		kidsPromoURL: kidsPromoURL,
	}, nil
}

// Suggest makes one generation call for the image. Provider errors surface
// in the Result, never as a panic or propagated error.
func (a *GeminiAdvisor) Suggest(ctx context.Context, imageDataURI, relationshipContext string, loc domain.LocationInfo, pr domain.PriceRange) advisor.Result {
	payload, err := advisor.DataURIPayload(imageDataURI)
	if err != nil {
		return advisor.Failure(err)
	}
	imageData, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return advisor.Failure(advisor.ErrInvalidImageFormat)
	}

	temperature := advisor.Temperature
	config := &genai.GenerateContentConfig{
		Temperature: &temperature,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: advisor.SystemInstruction(loc, pr, a.kidsPromoURL)}},
		},
	}

	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: advisor.Prompt(relationshipContext, loc, pr)},
			{InlineData: &genai.Blob{Data: imageData, MIMEType: imageMIMEType}},
		},
	}}

	res, err := a.client.Models.GenerateContent(ctx, a.model, contents, config)
	if err != nil {
		slog.Error("gemini generation failed", "model", a.model, "error", err)
		return advisor.Failure(err)
	}

	return advisor.Result{
		Success:   true,
		GiftIdeas: advisor.ParseIdeas(res.Text()),
	}
}
