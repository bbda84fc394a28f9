package claude

import (
	"context"
	"log/slog"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/giftedai/giftedai/internal/advisor"
	"github.com/giftedai/giftedai/internal/domain"
)

// maxTokens leaves headroom for five suggestions with name, rationale, and
// price in verbose languages.
const maxTokens = 1024

type ClaudeAdvisor struct {
	client       *anthropic.Client
	model        string
	kidsPromoURL string
}

// NewClaudeAdvisor creates the Anthropic-backed advisor. baseURL overrides
// the API endpoint and is meant for tests; pass "" for production.
func NewClaudeAdvisor(apiKey, model, kidsPromoURL, baseURL string) *ClaudeAdvisor {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &ClaudeAdvisor{
		client:       anthropic.NewClient(apiKey, opts...),
		model:        model,
		kidsPromoURL: kidsPromoURL,
	}
}

func (a *ClaudeAdvisor) Suggest(ctx context.Context, imageDataURI, relationshipContext string, loc domain.LocationInfo, pr domain.PriceRange) advisor.Result {
	payload, err := advisor.DataURIPayload(imageDataURI)
	if err != nil {
		return advisor.Failure(err)
	}

	temperature := advisor.Temperature
	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(a.model),
		MaxTokens:   maxTokens,
		System:      advisor.SystemInstruction(loc, pr, a.kidsPromoURL),
		Temperature: &temperature,
		Messages: []anthropic.Message{{
			Role: anthropic.RoleUser,
			Content: []anthropic.MessageContent{
				anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
					anthropic.MessagesContentSourceTypeBase64, "image/jpeg", payload)),
				anthropic.NewTextMessageContent(advisor.Prompt(relationshipContext, loc, pr)),
			},
		}},
	})
	if err != nil {
		slog.Error("claude generation failed", "model", a.model, "error", err)
		return advisor.Failure(err)
	}

	return advisor.Result{
		Success:   true,
		GiftIdeas: advisor.ParseIdeas(resp.GetFirstContentText()),
	}
}
