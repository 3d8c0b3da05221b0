package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/vkuzn/tubedesk/internal/backend"
	"github.com/vkuzn/tubedesk/internal/feed"
)

type uploadFormData struct {
	Title       string
	Description string
	IsShort     bool
}

func (h *Handler) UploadForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "upload.html", PageData{Title: "Upload video", Data: uploadFormData{}})
}

// UploadSubmit stages the multipart file locally, then hands it to the
// coordinator: validation, duration probing and the backend submission all
// happen there. A success resets the form by redirecting to the feed.
func (h *Handler) UploadSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.render(w, r, "upload.html", PageData{Title: "Upload video",
			Error: "Upload too large or malformed.", Data: uploadFormData{}})
		return
	}

	form := uploadFormData{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: r.FormValue("description"),
		IsShort:     r.FormValue("is_short") == "on",
	}

	input := feed.UploadInput{
		Title:       form.Title,
		Description: form.Description,
		IsShort:     form.IsShort,
	}

	file, header, err := r.FormFile("video")
	if err == nil {
		defer file.Close()

		staged, stageErr := h.stageUpload(file, header.Filename)
		if stageErr != nil {
			slog.Error("stage upload", "error", stageErr)
			h.render(w, r, "upload.html", PageData{Title: "Upload video",
				Error: "Could not store the upload locally.", Data: form})
			return
		}
		defer os.Remove(staged)

		input.Path = staged
		input.Filename = header.Filename
		input.ContentType = header.Header.Get("Content-Type")
	}

	if err := h.Feed.Upload(r.Context(), input); err != nil {
		var validationErr *feed.ValidationError
		var apiErr *backend.APIError
		msg := "Upload failed. Try again."
		switch {
		case errors.As(err, &validationErr):
			msg = validationErr.Message
		case errors.As(err, &apiErr):
			msg = apiErr.Message
		case errors.Is(err, feed.ErrNotAuthenticated):
			http.Redirect(w, r, "/login?flash="+flashSignInRequired, http.StatusSeeOther)
			return
		}
		h.render(w, r, "upload.html", PageData{Title: "Upload video", Error: msg, Data: form})
		return
	}

	http.Redirect(w, r, "/feed/"+h.Feed.Tab()+"?flash="+
		"Video+uploaded", http.StatusSeeOther)
}

// stageUpload copies the multipart part to a temp file so ffprobe can read
// a real path.
func (h *Handler) stageUpload(file io.Reader, filename string) (string, error) {
	dir := filepath.Join(h.Cfg.DataDir, "uploads")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	staged := filepath.Join(dir, uuid.New().String()+filepath.Ext(filename))
	out, err := os.Create(staged)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(staged)
		return "", err
	}
	return staged, nil
}
