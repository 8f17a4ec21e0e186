// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 skbp Contributors

package web

import (
	"net/http"

	"github.com/techydad05/skbp/internal/auth"
	"github.com/techydad05/skbp/pkg/errutil"
)

// handleGetProfile returns the authenticated user's safe view.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]*auth.SafeUser{"user": user})
}

// handleUpdateProfile writes the profile fields from form-encoded input.
// An empty field clears the stored value rather than storing an empty
// string.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	user := UserFromContext(r.Context())
	displayName := r.PostFormValue("displayName")
	bio := r.PostFormValue("bio")

	if err := s.svc.UpdateProfile(r.Context(), user.ID, displayName, bio); err != nil {
		errutil.LogError(s.logger, "profile update failed", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
