package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"filesmanager/internal/auth"
	"filesmanager/internal/cache"
	"filesmanager/internal/models"
	"filesmanager/internal/repository"
	"filesmanager/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Handler bundles the dependencies of the HTTP handlers.
type Handler struct {
	sessions *auth.SessionService
	users    *service.UserService
	files    *service.FileService
	store    repository.Store
	cache    cache.Cache
	validate *validator.Validate
	log      *slog.Logger
}

// NewHandler creates the API handler.
func NewHandler(
	sessions *auth.SessionService,
	users *service.UserService,
	files *service.FileService,
	store repository.Store,
	c cache.Cache,
	log *slog.Logger,
) *Handler {
	return &Handler{
		sessions: sessions,
		users:    users,
		files:    files,
		store:    store,
		cache:    c,
		validate: validator.New(),
		log:      log,
	}
}

// === Response helpers ===

func (h *Handler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, map[string]string{"error": message})
}

func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("could not serialize response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal Server Error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// === Health handlers ===

// handleStatus (GET /status)
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, map[string]bool{
		"redis": h.cache.Ping(r.Context()) == nil,
		"db":    h.store.Ping(r.Context()) == nil,
	})
}

// handleStats (GET /stats)
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.CountUsers(r.Context())
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	files, err := h.store.CountFiles(r.Context())
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]int64{"users": users, "files": files})
}

// === User handlers ===

// handleCreateUser (POST /users)
func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingEmail):
			h.respondWithError(w, http.StatusBadRequest, "Missing email")
		case errors.Is(err, service.ErrMissingPassword):
			h.respondWithError(w, http.StatusBadRequest, "Missing password")
		case errors.Is(err, service.ErrUserExists):
			h.respondWithError(w, http.StatusBadRequest, "Already exist")
		default:
			h.log.Error("registration failed", "error", err)
			h.respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	h.respondWithJSON(w, http.StatusCreated, map[string]string{
		"id":    user.ID.Hex(),
		"email": user.Email,
	})
}

// handleGetMe (GET /users/me)
func (h *Handler) handleGetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]string{
		"id":    user.ID.Hex(),
		"email": user.Email,
	})
}

// === Session handlers ===

// handleConnect (GET /connect) exchanges Basic credentials for a token.
func (h *Handler) handleConnect(w http.ResponseWriter, r *http.Request) {
	token, err := h.sessions.Authenticate(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			h.respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		h.log.Error("authentication failed", "error", err)
		h.respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]string{"token": token})
}

// handleDisconnect (GET /disconnect) revokes the session token.
func (h *Handler) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Revoke(r.Context(), r.Header.Get("x-token")); err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			h.respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		h.log.Error("revocation failed", "error", err)
		h.respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// === File handlers ===

// handleCreateFile (POST /files)
func (h *Handler) handleCreateFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Name     string `json:"name" validate:"required"`
		Type     string `json:"type" validate:"required,oneof=folder file image"`
		ParentID string `json:"parentId"`
		IsPublic bool   `json:"isPublic"`
		Data     string `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Name" {
			h.respondWithError(w, http.StatusBadRequest, "Missing name")
			return
		}
		h.respondWithError(w, http.StatusBadRequest, "Missing type")
		return
	}

	in := service.CreateFileInput{
		Name:     req.Name,
		Type:     models.NodeType(req.Type),
		IsPublic: req.IsPublic,
	}

	if req.ParentID != "" && req.ParentID != "0" {
		parentID, err := primitive.ObjectIDFromHex(req.ParentID)
		if err != nil {
			h.respondWithError(w, http.StatusBadRequest, "Parent not found")
			return
		}
		in.ParentID = parentID
	}

	if req.Data != "" {
		data, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			h.respondWithError(w, http.StatusBadRequest, "Missing data")
			return
		}
		in.Data = data
	}

	node, err := h.files.Create(r.Context(), userID, in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingName):
			h.respondWithError(w, http.StatusBadRequest, "Missing name")
		case errors.Is(err, service.ErrInvalidType):
			h.respondWithError(w, http.StatusBadRequest, "Missing type")
		case errors.Is(err, service.ErrMissingData):
			h.respondWithError(w, http.StatusBadRequest, "Missing data")
		case errors.Is(err, service.ErrParentNotFound):
			h.respondWithError(w, http.StatusBadRequest, "Parent not found")
		case errors.Is(err, service.ErrParentNotFolder):
			h.respondWithError(w, http.StatusBadRequest, "Parent is not a folder")
		default:
			h.log.Error("file creation failed", "error", err)
			h.respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	h.respondWithJSON(w, http.StatusCreated, node)
}

// handleGetFile (GET /files/{id}) returns the node, or its children when the
// node is a folder.
func (h *Handler) handleGetFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithError(w, http.StatusNotFound, "Not found")
		return
	}

	node, children, err := h.files.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.respondWithError(w, http.StatusNotFound, "Not found")
			return
		}
		h.log.Error("file lookup failed", "error", err)
		h.respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if node.IsFolder() {
		h.respondWithJSON(w, http.StatusOK, children)
		return
	}
	h.respondWithJSON(w, http.StatusOK, node)
}

// handleListFiles (GET /files?parentId=&page=)
func (h *Handler) handleListFiles(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	parentID := primitive.NilObjectID
	if raw := r.URL.Query().Get("parentId"); raw != "" && raw != "0" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			// An unparseable parent matches nothing.
			h.respondWithJSON(w, http.StatusOK, []*models.FileNode{})
			return
		}
		parentID = id
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		page = 0
	}

	nodes, err := h.files.List(r.Context(), userID, parentID, page)
	if err != nil {
		h.log.Error("file listing failed", "error", err)
		h.respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	h.respondWithJSON(w, http.StatusOK, nodes)
}

// handlePublish (PUT /files/{id}/publish)
func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, true)
}

// handleUnpublish (PUT /files/{id}/unpublish)
func (h *Handler) handleUnpublish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, false)
}

func (h *Handler) setVisibility(w http.ResponseWriter, r *http.Request, public bool) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithError(w, http.StatusNotFound, "Not found")
		return
	}

	node, err := h.files.SetVisibility(r.Context(), userID, id, public)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			h.respondWithError(w, http.StatusNotFound, "Not found")
		case errors.Is(err, service.ErrAlreadyInState):
			h.respondWithError(w, http.StatusBadRequest, "Already in this state")
		default:
			h.log.Error("visibility update failed", "error", err)
			h.respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}
	h.respondWithJSON(w, http.StatusOK, node)
}

// handleGetFileData (GET /files/{id}/data?size=) streams content. The route
// is not behind the token middleware because public files are readable
// anonymously; a token, when present, identifies the requester.
func (h *Handler) handleGetFileData(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithError(w, http.StatusNotFound, "Not found")
		return
	}

	requesterID := primitive.NilObjectID
	if token := r.Header.Get("x-token"); token != "" {
		if resolved, err := h.sessions.Resolve(r.Context(), token); err == nil {
			requesterID = resolved
		}
	}

	stream, contentType, err := h.files.ReadContent(r.Context(), requesterID, id, r.URL.Query().Get("size"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			h.respondWithError(w, http.StatusNotFound, "Not found")
		case errors.Is(err, service.ErrIsFolder):
			h.respondWithError(w, http.StatusBadRequest, "A folder doesn't have content")
		default:
			h.log.Error("content read failed", "error", err)
			h.respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, stream); err != nil {
		h.log.Error("content stream interrupted", "error", err)
	}
}
