package api

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/services"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// flexibleID accepts both a JSON string and a JSON number for ids. Numeric
// ids come from clients that send the root parent as a literal 0.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexibleID(s)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexibleID(strconv.FormatInt(n, 10))
	return nil
}

type uploadRequest struct {
	Name     string     `json:"name"`
	Type     string     `json:"type"`
	ParentID flexibleID `json:"parentId"`
	IsPublic bool       `json:"isPublic"`
	Data     string     `json:"data"`
}

func (s *HTTPServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	redisAlive, dbAlive := s.app.Status(r.Context())
	respondJSON(w, http.StatusOK, map[string]bool{"redis": redisAlive, "db": dbAlive})
}

func (s *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.app.CollectStats(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"users": stats.Users, "files": stats.Files})
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, err := s.sessions.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "user registered", "email", user.Email)
	respondJSON(w, http.StatusCreated, userResponse{ID: user.ID, Email: user.Email})
}

func (s *HTTPServer) handleConnect(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		s.unauthorized(w)
		return
	}

	token, err := s.sessions.Login(r.Context(), email, password)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// handleDisconnect only needs the token to resolve; revocation stays possible
// even when the user record is gone.
func (s *HTTPServer) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Token")

	userID, err := s.sessions.ResolveToken(r.Context(), token)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if userID == "" {
		s.unauthorized(w)
		return
	}

	if err := s.sessions.Logout(r.Context(), token); err != nil {
		s.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.sessions.CurrentUser(r.Context(), r.Header.Get("X-Token"))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, userResponse{ID: user.ID, Email: user.Email})
}

func (s *HTTPServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	view, err := s.files.Create(r.Context(), userIDFromContext(r.Context()), services.UploadParams{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: string(req.ParentID),
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, view)
}

func (s *HTTPServer) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		page = 0
	}

	views, err := s.files.List(r.Context(), r.URL.Query().Get("parentId"), page)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, views)
}

func (s *HTTPServer) handleGet(w http.ResponseWriter, r *http.Request) {
	view, err := s.files.Get(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *HTTPServer) handlePublish(w http.ResponseWriter, r *http.Request) {
	s.setVisibility(w, r, true)
}

func (s *HTTPServer) handleUnpublish(w http.ResponseWriter, r *http.Request) {
	s.setVisibility(w, r, false)
}

func (s *HTTPServer) setVisibility(w http.ResponseWriter, r *http.Request, public bool) {
	view, err := s.files.SetVisibility(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"), public)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *HTTPServer) handleContent(w http.ResponseWriter, r *http.Request) {
	data, name, err := s.files.Content(r.Context(), userIDFromContext(r.Context()),
		chi.URLParam(r, "id"), r.URL.Query().Get("size"))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// serviceError translates service-layer errors to HTTP responses. Unexpected
// errors are logged and hidden behind a generic 500.
func (s *HTTPServer) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorFolderHasNoContent):
		respondError(w, http.StatusBadRequest, "A folder doesn't have content")
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorIO):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		respondError(w, http.StatusBadRequest, "Already exist")
	case errors.Is(err, common.ErrorUnauthorized):
		s.unauthorized(w)
	case errors.Is(err, common.ErrorNotFound):
		respondError(w, http.StatusNotFound, "Not found")
	default:
		s.serverError(w, r, err)
	}
}

func (s *HTTPServer) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err.Error())
	respondError(w, http.StatusInternalServerError, "Internal server error")
}

func (s *HTTPServer) unauthorized(w http.ResponseWriter) {
	respondError(w, http.StatusUnauthorized, "Unauthorized")
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
