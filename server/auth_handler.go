package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"wavehub/core/auth"
	"wavehub/logger"
	"wavehub/model"
	"wavehub/repository"

	"github.com/google/uuid"
)

// SignupRequest is the registration request body.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
}

// LoginRequest is the login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SignupHandler registers a new user: credential record, profile, and
// empty track and playlist indexes.
func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return
	}

	// All validation runs before any call to a collaborator.
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "missing_email", "Email is required")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_password", "Password is required")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "missing_name", "Name is required")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "weak_password", "Password must be at least 6 characters long")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailRegex.MatchString(email) {
		writeError(w, http.StatusBadRequest, "invalid_email", "Invalid email format")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error("[Signup] failed to hash password", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to process password")
		return
	}

	now := time.Now().UTC()
	userID := uuid.NewString()

	cred := &model.Credential{
		UserID:       userID,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
	}
	if err := h.credentials.Create(r.Context(), cred); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			writeError(w, http.StatusConflict, "duplicate_email", "A user with this email already exists")
			return
		}
		logger.Error("[Signup] failed to create credential", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "upstream_error", fmt.Sprintf("Failed to create user: %v", err))
		return
	}

	profile := &model.Profile{
		ID:        userID,
		Email:     email,
		Name:      strings.TrimSpace(req.Name),
		Bio:       strings.TrimSpace(req.Bio),
		CreatedAt: now,
	}
	if err := h.profiles.Create(r.Context(), profile); err != nil {
		logger.Error("[Signup] failed to create profile", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "upstream_error", fmt.Sprintf("Failed to create profile: %v", err))
		return
	}

	// Index slots are initialized here so Append can assume they exist.
	// Failures are logged but not fatal; the account remains usable.
	if err := h.tracks.InitIndex(r.Context(), userID); err != nil {
		logger.Warn("[Signup] failed to init track index", logger.String("userId", userID), logger.ErrorField(err))
	}
	if err := h.playlists.InitIndex(r.Context(), userID); err != nil {
		logger.Warn("[Signup] failed to init playlist index", logger.String("userId", userID), logger.ErrorField(err))
	}

	token, err := auth.GenerateToken(h.cfg.JWTSecret, time.Duration(h.cfg.JWTTTLHours)*time.Hour, userID, email)
	if err != nil {
		logger.Error("[Signup] failed to generate token", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate token")
		return
	}

	logger.Info("[Signup] user registered", logger.String("userId", userID))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user": map[string]string{
			"id":    userID,
			"email": email,
			"name":  profile.Name,
		},
		"profile": profile,
	})
}

// LoginHandler verifies a credential and issues a session token.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_credentials", "Email and password are required")
		return
	}

	cred, err := h.credentials.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
			return
		}
		logger.Error("[Login] failed to read credential", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "upstream_error", fmt.Sprintf("Failed to verify credentials: %v", err))
		return
	}

	if !auth.CheckPasswordHash(req.Password, cred.PasswordHash) {
		logger.Warn("[Login] password mismatch", logger.String("userId", cred.UserID))
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
		return
	}

	token, err := auth.GenerateToken(h.cfg.JWTSecret, time.Duration(h.cfg.JWTTTLHours)*time.Hour, cred.UserID, cred.Email)
	if err != nil {
		logger.Error("[Login] failed to generate token", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate token")
		return
	}

	logger.Info("[Login] login successful", logger.String("userId", cred.UserID))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user": map[string]string{
			"id":    cred.UserID,
			"email": cred.Email,
		},
	})
}
