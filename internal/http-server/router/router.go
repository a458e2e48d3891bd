package router

import (
	"net/http"
	"strings"

	media_h "primegames-media/internal/http-server/handler/media"
	"primegames-media/internal/http-server/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/wb-go/wbf/zlog"
)

type Handler struct {
	MediaHandler *media_h.MediaHandler
	// UploadsDir is served under UploadsPrefix when blobs live on local disk.
	UploadsDir    string
	UploadsPrefix string
}

func SetupRouter(h *Handler, logger *zlog.Zerolog) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RecoveryMiddleware(logger))

	if h.UploadsDir != "" && h.UploadsPrefix != "" {
		prefix := "/" + strings.Trim(h.UploadsPrefix, "/") + "/"
		r.Handle(prefix+"*", http.StripPrefix(prefix, http.FileServer(FilesOnly(http.Dir(h.UploadsDir)))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.LoggingMiddleware(logger))

		r.Post("/media", h.MediaHandler.UploadImage)
		r.Post("/media/{container}", h.MediaHandler.UploadImage)

		r.Put("/contents/{id}/thumbnail", h.MediaHandler.SetThumbnail)
		r.Delete("/contents/{id}/thumbnail", h.MediaHandler.RemoveThumbnail)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
	})

	return r
}
