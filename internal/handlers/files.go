package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/filecove/backend/internal/files"
	"github.com/filecove/backend/internal/logging"
	"github.com/filecove/backend/internal/models"
)

// FileHandler implements the file tree endpoints.
type FileHandler struct {
	Users    UserStore
	Sessions SessionManager
	Files    FileService
	Thumbs   ThumbnailQueue
}

type uploadRequest struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	ParentID models.ParentID `json:"parentId"`
	IsPublic bool            `json:"isPublic"`
	Data     string          `json:"data"`
}

// Upload handles POST /files.
func (h FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	user, ok := requireUser(r, h.Sessions, h.Users)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid upload payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "Missing name")
		return
	}

	if req.Name == "" {
		respondError(ctx, w, http.StatusBadRequest, "Missing name")
		return
	}

	kind, ok := models.ParseFileKind(req.Type)
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "Missing type")
		return
	}

	var node models.FileNode
	var err error

	if kind == models.KindFolder {
		node, err = h.Files.CreateFolder(ctx, user.ID, req.Name, req.ParentID)
	} else {
		if req.Data == "" {
			respondError(ctx, w, http.StatusBadRequest, "Missing data")
			return
		}
		content, decodeErr := base64.StdEncoding.DecodeString(req.Data)
		if decodeErr != nil {
			respondError(ctx, w, http.StatusBadRequest, "Invalid data")
			return
		}
		node, err = h.Files.CreateFile(ctx, user.ID, req.Name, kind, content, req.IsPublic, req.ParentID)
	}

	if err != nil {
		h.respondUploadError(ctx, w, err)
		return
	}

	if node.Kind == models.KindImage {
		job := models.ThumbnailJob{UserID: user.ID, FileID: node.ID}
		if err := h.Thumbs.Enqueue(ctx, job); err != nil {
			// The upload already succeeded; thumbnail generation is best
			// effort from the request's point of view.
			logger.Error("failed to enqueue thumbnail job", "error", err, "fileId", node.ID)
		}
	}

	respondJSON(ctx, w, http.StatusCreated, newFileView(node))
}

func (h FileHandler) respondUploadError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, files.ErrMissingName):
		respondError(ctx, w, http.StatusBadRequest, "Missing name")
	case errors.Is(err, files.ErrInvalidKind):
		respondError(ctx, w, http.StatusBadRequest, "Missing type")
	case errors.Is(err, files.ErrMissingContent):
		respondError(ctx, w, http.StatusBadRequest, "Missing data")
	case errors.Is(err, files.ErrParentNotFound):
		respondError(ctx, w, http.StatusBadRequest, "Parent not found")
	case errors.Is(err, files.ErrParentNotAFolder):
		respondError(ctx, w, http.StatusBadRequest, "Parent is not a folder")
	default:
		logging.FromContext(ctx).Error("upload failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to store file")
	}
}

// Show handles GET /files/{id}.
func (h FileHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := requireUser(r, h.Sessions, h.Users)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	node, err := h.Files.Get(ctx, user.ID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Not found")
			return
		}
		logging.FromContext(ctx).Error("fetch file failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to fetch file")
		return
	}

	respondJSON(ctx, w, http.StatusOK, newFileView(node))
}

// Index handles GET /files with optional parentId and page query parameters.
func (h FileHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := requireUser(r, h.Sessions, h.Users)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	parent := models.Root()
	if raw := r.URL.Query().Get("parentId"); raw != "" && raw != "0" {
		parent = models.NodeParent(raw)
	}

	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}

	nodes, err := h.Files.List(ctx, user.ID, parent, page)
	if err != nil {
		logging.FromContext(ctx).Error("list files failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to list files")
		return
	}

	views := make([]fileView, 0, len(nodes))
	for _, node := range nodes {
		views = append(views, newFileView(node))
	}

	respondJSON(ctx, w, http.StatusOK, views)
}

// Publish handles PUT /files/{id}/publish.
func (h FileHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, true)
}

// Unpublish handles PUT /files/{id}/unpublish.
func (h FileHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, false)
}

func (h FileHandler) setVisibility(w http.ResponseWriter, r *http.Request, isPublic bool) {
	ctx := r.Context()

	user, ok := requireUser(r, h.Sessions, h.Users)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	node, err := h.Files.SetVisibility(ctx, user.ID, r.PathValue("id"), isPublic)
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Not found")
			return
		}
		logging.FromContext(ctx).Error("set visibility failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to update file")
		return
	}

	respondJSON(ctx, w, http.StatusOK, newFileView(node))
}

// Data handles GET /files/{id}/data. A token is required only for private
// files; an unreadable or absent token degrades to anonymous access.
func (h FileHandler) Data(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requesterID, _ := resolveToken(r, h.Sessions)

	node, err := h.Files.GetPublicOrOwned(ctx, requesterID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Not found")
			return
		}
		logging.FromContext(ctx).Error("fetch file failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to fetch file")
		return
	}

	data, err := h.Files.ReadContent(ctx, node, r.URL.Query().Get("size"))
	if err != nil {
		switch {
		case errors.Is(err, files.ErrNotAFile):
			respondError(ctx, w, http.StatusBadRequest, "A folder doesn't have content")
		case errors.Is(err, files.ErrNotFound):
			respondError(ctx, w, http.StatusNotFound, "Not found")
		default:
			logging.FromContext(ctx).Error("read content failed", "error", err)
			respondError(ctx, w, http.StatusInternalServerError, "failed to read content")
		}
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(node.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(data)
}
