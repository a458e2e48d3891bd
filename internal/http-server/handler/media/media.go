package media

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"primegames-media/internal/domain"
	"primegames-media/internal/http-server/handler/media/dto"
	repoContent "primegames-media/internal/repository/content"
	media_uc "primegames-media/internal/usecase/media"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/zlog"
)

const (
	maxMemory = 32 << 20
	// multipart framing on top of a file at the hard cap
	maxRequestOverhead = 1 << 20
)

type MediaHandler struct {
	media      mediaUsecase
	content    contentUsecase
	budget     domain.SizeBudget
	container  string
	containers map[string]bool
	hardCap    int64
	validate   *validator.Validate
	logger     *zlog.Zerolog
}

// NewMediaHandler serves uploads into container by default. Clients may name
// any of containers explicitly; other names are rejected.
func NewMediaHandler(media mediaUsecase, content contentUsecase, budget domain.SizeBudget, container string, containers []string, hardCap int64, logger *zlog.Zerolog) *MediaHandler {
	allowed := map[string]bool{container: true}
	for _, name := range containers {
		allowed[name] = true
	}

	return &MediaHandler{
		media:      media,
		content:    content,
		budget:     budget,
		container:  container,
		containers: allowed,
		hardCap:    hardCap,
		validate:   validator.New(),
		logger:     logger,
	}
}

// UploadImage stores a standalone image, e.g. one embedded in an article body.
func (h *MediaHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	container := chi.URLParam(r, "container")
	if container == "" {
		container = h.container
	}

	if !h.containers[container] {
		h.logger.Warn().Str("container", container).Msg("Upload to unknown container rejected")
		h.respondError(w, http.StatusBadRequest, "Unknown container", nil)
		return
	}

	candidate, ok := h.readCandidate(w, r)
	if !ok {
		return
	}

	ref, err := h.media.ProcessAndUpload(r.Context(), candidate, h.budget, container)
	if err != nil {
		h.handleMediaError(w, err, candidate.Filename)
		return
	}

	h.respondJSON(w, http.StatusCreated, dto.UploadResponse{
		Reference: ref,
		Filename:  candidate.Filename,
		Size:      candidate.Size(),
	})
}

func (h *MediaHandler) SetThumbnail(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseContentRequest(w, r)
	if !ok {
		return
	}

	candidate, ok := h.readCandidate(w, r)
	if !ok {
		return
	}

	c, err := h.content.SetThumbnail(r.Context(), req.ID, candidate)
	if err != nil {
		h.handleMediaError(w, err, candidate.Filename)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ThumbnailResponse{
		ContentID:    c.ID,
		ThumbnailURL: c.ThumbnailURL,
	})
}

func (h *MediaHandler) RemoveThumbnail(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseContentRequest(w, r)
	if !ok {
		return
	}

	if err := h.content.RemoveThumbnail(r.Context(), req.ID); err != nil {
		h.handleMediaError(w, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MediaHandler) parseContentRequest(w http.ResponseWriter, r *http.Request) (dto.ContentRequest, bool) {
	var req dto.ContentRequest

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Content ID must be a number", nil)
		return req, false
	}
	req.ID = id

	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Content ID must be positive", nil)
		return req, false
	}

	return req, true
}

func (h *MediaHandler) readCandidate(w http.ResponseWriter, r *http.Request) (domain.ImageCandidate, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.hardCap+maxRequestOverhead)

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to parse multipart form")
		h.respondError(w, http.StatusBadRequest, "Invalid request format", nil)
		return domain.ImageCandidate{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.logger.Warn().Err(err).Msg("File not found in request")
		h.respondError(w, http.StatusBadRequest, "File is required", nil)
		return domain.ImageCandidate{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error().Err(err).Str("filename", header.Filename).Msg("Failed to read file")
		h.respondError(w, http.StatusInternalServerError, "Failed to read file", err)
		return domain.ImageCandidate{}, false
	}

	return domain.ImageCandidate{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
		Filename:    header.Filename,
	}, true
}

func (h *MediaHandler) handleMediaError(w http.ResponseWriter, err error, filename string) {
	switch {
	case errors.Is(err, media_uc.ErrInvalidInput):
		h.logger.Warn().Err(err).Str("filename", filename).Msg("Invalid image")
		h.respondError(w, http.StatusBadRequest, "Unsupported or invalid image", err)
	case errors.Is(err, media_uc.ErrDecode):
		h.logger.Warn().Err(err).Str("filename", filename).Msg("Undecodable image")
		h.respondError(w, http.StatusUnprocessableEntity, "Image could not be read", nil)
	case errors.Is(err, repoContent.ErrContentNotFound):
		h.respondError(w, http.StatusNotFound, "Content not found", nil)
	case errors.Is(err, media_uc.ErrStorage):
		h.logger.Error().Err(err).Str("filename", filename).Msg("Storage failure")
		h.respondError(w, http.StatusBadGateway, "Failed to store image", nil)
	default:
		h.logger.Error().Err(err).Str("filename", filename).Msg("Media request failed")
		h.respondError(w, http.StatusInternalServerError, "Failed to process image", nil)
	}
}

func (h *MediaHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Interface("data", data).Msg("Failed to encode response")
	}
}

func (h *MediaHandler) respondError(w http.ResponseWriter, status int, message string, err error) {
	response := dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	}

	if err != nil {
		response.Details = err.Error()
	}

	h.respondJSON(w, status, response)
}
