// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 skbp Contributors

package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/techydad05/skbp/internal/auth"
	"github.com/techydad05/skbp/pkg/errutil"
)

// authRequest is the multiplexed body of the auth endpoint.
type authRequest struct {
	Action   string `json:"action"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// authSuccess is the success body for login and register.
type authSuccess struct {
	Success bool          `json:"success"`
	User    auth.SafeUser `json:"user"`
}

// handleAuth multiplexes login, register, and logout over one endpoint:
// POST /api/auth with {"action": ..., "username": ..., "password": ...}.
func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch req.Action {
	case "login":
		s.handleLogin(w, r, req)
	case "register":
		s.handleRegister(w, r, req)
	case "logout":
		s.handleLogout(w, r)
	default:
		writeError(w, http.StatusBadRequest, "Invalid action")
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, req authRequest) {
	result, err := s.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.countLogin("failure")
		s.writeAuthError(w, err, "login failed")
		return
	}

	s.countLogin("success")
	s.cookies.set(w, result.Token, result.ExpiresAt)
	writeJSON(w, http.StatusOK, authSuccess{Success: true, User: result.User})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request, req authRequest) {
	result, err := s.svc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.countRegistration("failure")
		s.writeAuthError(w, err, "registration failed")
		return
	}

	s.countRegistration("success")
	s.cookies.set(w, result.Token, result.ExpiresAt)
	writeJSON(w, http.StatusOK, authSuccess{Success: true, User: result.User})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Logout(r.Context(), tokenFromRequest(r)); err != nil {
		// The cookie is cleared regardless; server-side deletion is
		// best-effort and idempotent.
		errutil.LogError(s.logger, "logout failed", err)
	}
	s.cookies.clear(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// writeAuthError maps auth errors to the endpoint's client-visible
// messages. Validation and credential failures are 400s with fixed
// messages; everything else is a generic 500 with no internal detail.
func (s *Server) writeAuthError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, auth.ErrInvalidUsername):
		writeError(w, http.StatusBadRequest, "Invalid username")
	case errors.Is(err, auth.ErrInvalidPassword):
		writeError(w, http.StatusBadRequest, "Invalid password")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, "Incorrect username or password")
	case errors.Is(err, auth.ErrUsernameTaken):
		writeError(w, http.StatusBadRequest, "Username already taken")
	default:
		errutil.LogError(s.logger, logMsg, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func isSessionInvalid(err error) bool {
	return errors.Is(err, auth.ErrSessionInvalid)
}
