package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/prPMDev/elevateli/internal/config"
)

// AuthHandler issues session tokens for the single operator. There is no
// user table; the operator proves knowledge of one password whose bcrypt
// hash is configured out of band.
type AuthHandler struct {
	jwtService   *JWTService
	passwords    *config.PasswordConfig
	operatorHash string
}

// NewAuthHandler creates an auth handler. An empty operatorHash disables
// token issuance entirely.
func NewAuthHandler(jwtService *JWTService, passwords *config.PasswordConfig, operatorHash string) *AuthHandler {
	return &AuthHandler{jwtService: jwtService, passwords: passwords, operatorHash: operatorHash}
}

type tokenRequest struct {
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
}

// Token handles POST /api/auth/token.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if h.operatorHash == "" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "authentication is not configured",
		})
		return
	}

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "password is required"})
		return
	}

	if !h.passwords.VerifyPassword(req.Password, h.operatorHash) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	sessionID := uuid.New()
	token, err := h.jwtService.GenerateToken(sessionID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to issue token"})
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token, SessionID: sessionID.String()})
}
