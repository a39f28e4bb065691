package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/interntrack/internal/common"
	"github.com/dmitrijs2005/interntrack/internal/models"
)

const maxBodyBytes = 1 << 20

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := s.accounts.GetProfile(ctx, userIDFromContext(ctx))
	if err != nil {
		s.log.Error(ctx, "get profile failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var patch models.ProfilePatch
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := s.accounts.UpdateProfile(ctx, userIDFromContext(ctx), patch)
	if err != nil {
		var verr *common.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, strings.TrimPrefix(verr.Error(), "validation error: "))
			return
		}
		s.log.Error(ctx, "update profile failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFromContext(ctx)

	if err := s.accounts.DeleteAccount(ctx, userID); err != nil {
		s.log.Error(ctx, "delete account failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) searchInternships(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	list, err := s.accounts.SearchInternships(ctx, q.Get("keyword"), q.Get("location"))
	if err != nil {
		s.log.Error(ctx, "internship search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to search internships")
		return
	}
	if list == nil {
		list = []models.Internship{}
	}
	writeJSON(w, http.StatusOK, list)
}
