package storage

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/recibox/internal/auth"
	"github.com/frahmantamala/recibox/internal/transport"
	"github.com/frahmantamala/recibox/pkg/logger"
)

// maxUploadBytes bounds a single receipt upload.
const maxUploadBytes = 10 << 20

type Handler struct {
	*transport.BaseHandler
	store        *DiskStore
	signedURLTTL time.Duration
}

func NewHandler(store *DiskStore, signedURLTTL time.Duration) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler:  transport.NewBaseHandler(lg),
		store:        store,
		signedURLTTL: signedURLTTL,
	}
}

// Upload accepts a multipart file and stores it under the caller's namespace.
// The returned ObjectInfo can be attached to an expense as-is.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	objectPath := ObjectPath(user.ID, filepath.Ext(header.Filename))
	info, err := h.store.Upload(r.Context(), objectPath, data, contentType)
	if err != nil {
		h.Logger.Error("upload failed", "user_id", user.ID, "path", objectPath, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	h.WriteJSON(w, http.StatusCreated, info)
}

// SignedURL issues a time-limited URL for an object the caller owns.
func (h *Handler) SignedURL(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	objectPath := r.URL.Query().Get("path")
	if err := ValidatePath(objectPath); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid object path")
		return
	}
	if !OwnsPath(user.ID, objectPath) {
		h.WriteError(w, http.StatusForbidden, "object belongs to another user")
		return
	}

	signed, err := h.store.SignedURL(objectPath, h.signedURLTTL)
	if err != nil {
		h.Logger.Error("failed to sign url", "path", objectPath, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to sign url")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"url": signed})
}

// Serve streams an object back to the client. Objects are readable by path
// like a public bucket, so the URL stored on an expense keeps working; when
// a token is present it must still verify, so an expired signed URL does not
// outlive its window.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	objectPath := chi.URLParam(r, "*")
	if err := ValidatePath(objectPath); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid object path")
		return
	}

	if token := r.URL.Query().Get("token"); token != "" {
		if err := h.store.signer.Verify(token, objectPath); err != nil {
			h.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
	}

	f, err := h.store.Open(objectPath)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			h.WriteError(w, http.StatusNotFound, "object not found")
			return
		}
		h.Logger.Error("failed to open object", "path", objectPath, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to read object")
		return
	}
	defer f.Close()

	if strings.HasSuffix(objectPath, ".jpg") || strings.HasSuffix(objectPath, ".jpeg") {
		w.Header().Set("Content-Type", "image/jpeg")
	} else if strings.HasSuffix(objectPath, ".png") {
		w.Header().Set("Content-Type", "image/png")
	}
	w.Header().Set("Cache-Control", "private, max-age=300")

	if _, err := io.Copy(w, f); err != nil {
		h.Logger.Warn("interrupted while streaming object", "path", objectPath, "error", err)
	}
}
