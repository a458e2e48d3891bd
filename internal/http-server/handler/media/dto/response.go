package dto

type UploadResponse struct {
	Reference string `json:"reference"`
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
}

type ThumbnailResponse struct {
	ContentID    int64  `json:"content_id"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
