package api

import (
	"crypto/subtle"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/rizkan1982/dado-stream/internal/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login. With a database configured it checks
// the users table; without one it accepts the configured admin credential
// pair so the panel stays reachable on a fresh deployment.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password required")
		return
	}

	if h.users == nil {
		h.fallbackLogin(w, req)
		return
	}

	user, err := h.users.GetByLogin(req.Username)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("[auth] lookup %q: %v", req.Username, err)
		}
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.Active {
		respondError(w, http.StatusForbidden, "Account disabled")
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Username, user.Role)
	if err != nil {
		log.Printf("[auth] generate token: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	if err := h.users.StampLastLogin(user.ID); err != nil {
		log.Printf("[auth] stamp last login: %v", err)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

// fallbackLogin compares against the configured admin pair when no user
// store exists. Constant-time on both fields.
func (h *Handler) fallbackLogin(w http.ResponseWriter, req loginRequest) {
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.cfg.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.AdminPassword)) == 1
	if !userOK || !passOK {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.tokens.Generate(0, h.cfg.AdminUsername, "admin")
	if err != nil {
		log.Printf("[auth] generate token: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":       0,
			"username": h.cfg.AdminUsername,
			"email":    "",
			"role":     "admin",
		},
	})
}

// Verify handles GET /api/auth/verify.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	token := auth.BearerToken(r)
	if token == "" {
		respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}
	claims, err := h.tokens.Validate(token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"valid":    true,
		"user_id":  claims.UserID,
		"username": claims.Username,
		"role":     claims.Role,
	})
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so this is
// an acknowledgement; the client drops its copy.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
