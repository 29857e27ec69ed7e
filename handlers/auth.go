package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"techsetu-website-api/models"
	"techsetu-website-api/services/auth"
	"techsetu-website-api/utils"
)

type AuthHandler struct {
	jwtService *auth.JWTService
}

func NewAuthHandler(jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{jwtService: jwtService}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	resp, err := h.jwtService.Authenticate(req.Username, req.Password)
	if err != nil {
		log.Printf("Login failed for %s from %s: %v", req.Username, r.RemoteAddr, err)

		switch err {
		case auth.ErrInvalidCredentials:
			utils.SendErrorResponse(w, http.StatusUnauthorized, "Invalid username or password")
		case auth.ErrUserInactive:
			utils.SendErrorResponse(w, http.StatusForbidden, "Account is inactive")
		default:
			utils.SendErrorResponse(w, http.StatusInternalServerError, "Authentication failed")
		}
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status: "success",
		Data:   resp,
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.jwtService.RefreshToken(req.RefreshToken)
	if err != nil {
		switch err {
		case auth.ErrTokenExpired:
			utils.SendErrorResponse(w, http.StatusUnauthorized, "Refresh token expired")
		case auth.ErrUserInactive:
			utils.SendErrorResponse(w, http.StatusForbidden, "Account is inactive")
		default:
			utils.SendErrorResponse(w, http.StatusUnauthorized, "Invalid refresh token")
		}
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status: "success",
		Data:   resp,
	})
}

// Validate lets the frontend check a stored token before starting checkout.
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 8 || authHeader[:7] != "Bearer " {
		utils.SendSuccessResponse(w, models.APIResponse{
			Status: "success",
			Data:   models.TokenValidationResponse{Valid: false},
		})
		return
	}

	user, err := h.jwtService.ValidateToken(authHeader[7:])
	if err != nil {
		utils.SendSuccessResponse(w, models.APIResponse{
			Status: "success",
			Data:   models.TokenValidationResponse{Valid: false},
		})
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status: "success",
		Data:   models.TokenValidationResponse{Valid: true, User: *user},
	})
}
