package models

// ThumbnailJob asks the thumbnail worker to derive resized variants of an
// uploaded image.
type ThumbnailJob struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
}
