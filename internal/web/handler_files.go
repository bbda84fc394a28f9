package web

import (
	"io"
	"net/http"
)

// handleGetFile serves objects stored by the local backend. When an external
// store (S3) serves objects itself, no FileGetter is configured and this
// route answers 404.
func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	if s.files == nil {
		http.NotFound(w, r)
		return
	}

	key := r.PathValue("key")
	reader, mimeType, err := s.files.Get(r.Context(), key)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer func() {
		if err := reader.Close(); err != nil {
			s.logger.Error("failed to close object reader", "key", key, "error", err)
		}
	}()

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "max-age=3600")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("failed to write object", "key", key, "error", err)
	}
}
