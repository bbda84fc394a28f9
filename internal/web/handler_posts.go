package web

import (
	"net/http"
	"strconv"

	"github.com/giftedai/giftedai/internal/domain"
	"github.com/giftedai/giftedai/internal/service"
)

const defaultPostsLimit = 20
const maxPostsLimit = 100

type postResponse struct {
	ID        int64    `json:"id"`
	Caption   string   `json:"caption"`
	Uploads   []string `json:"uploads"`
	CreatedAt string   `json:"createdAt"`
}

// handleListPosts returns the most recent generation results for the feed.
// User identity and IP are never exposed here.
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	limit := defaultPostsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		if n > maxPostsLimit {
			n = maxPostsLimit
		}
		limit = n
	}

	posts, err := s.posts.ListByApp(r.Context(), service.AppTag, limit)
	if err != nil {
		s.logger.Error("failed to list posts", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list posts"})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"posts": toPostResponses(posts)})
}

func toPostResponses(posts []*domain.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, postResponse{
			ID:        p.ID,
			Caption:   p.Caption,
			Uploads:   p.Uploads,
			CreatedAt: p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return out
}
