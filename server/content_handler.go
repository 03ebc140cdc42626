package server

import (
	"io"
	"net/http"
	"strings"

	"BeatWave/logger"
	"BeatWave/storage"
)

const maxContentSize = 100 << 20 // 100MB

// UploadContentHandler accepts a multipart audio upload, stores it in
// MinIO and returns the object key to use as the beat's content reference.
func (h *APIHandler) UploadContentHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if r.ContentLength > maxContentSize {
		http.Error(w, "Request too large", http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentRef, err := storage.UploadBeatContent(r.Context(), h.cfg.MinioBucket,
		header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		logger.Error("failed to store beat content",
			logger.Int64("userId", userID),
			logger.String("filename", header.Filename),
			logger.ErrorField(err),
		)
		http.Error(w, "Failed to store content", http.StatusInternalServerError)
		return
	}

	logger.Info("beat content stored",
		logger.Int64("userId", userID),
		logger.String("contentRef", contentRef),
	)

	writeJSON(w, http.StatusCreated, map[string]interface{}{"contentRef": contentRef})
}

// ServeContentHandler streams stored beat audio back to the client.
func (h *APIHandler) ServeContentHandler(w http.ResponseWriter, r *http.Request) {
	contentRef := strings.TrimPrefix(r.URL.Path, "/content/")
	if contentRef == "" {
		http.Error(w, "Missing content reference", http.StatusBadRequest)
		return
	}

	object, err := storage.GetBeatContent(r.Context(), h.cfg.MinioBucket, contentRef)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer object.Close()

	var contentType string
	switch {
	case strings.HasSuffix(contentRef, ".mp3"):
		contentType = "audio/mpeg"
	case strings.HasSuffix(contentRef, ".wav"):
		contentType = "audio/wav"
	case strings.HasSuffix(contentRef, ".flac"):
		contentType = "audio/flac"
	default:
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000") // content is immutable

	if _, err := io.Copy(w, object); err != nil {
		logger.Warn("error serving beat content",
			logger.String("contentRef", contentRef),
			logger.ErrorField(err),
		)
	}
}
