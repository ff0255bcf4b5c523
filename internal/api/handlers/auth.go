package handlers

import (
	"net/http"
	"time"

	"github.com/dom/task-tracker/internal/api/response"
	"github.com/dom/task-tracker/internal/service"
)

const RefreshCookieName = "refreshToken"

type AuthHandler struct {
	authService  *service.AuthService
	secureCookie bool
	refreshTTL   time.Duration
}

func NewAuthHandler(authService *service.AuthService, secureCookie bool, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
		refreshTTL:   refreshTTL,
	}
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	result, err := h.authService.Signup(r.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	h.respondWithTokens(w, http.StatusCreated, result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	h.respondWithTokens(w, http.StatusOK, result)
}

// Logout keeps no server state; it only tells the client to drop the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookie("", -1))
	response.Success(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(RefreshCookieName); err == nil {
		token = c.Value
	}

	result, err := h.authService.Refresh(r.Context(), token)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	h.respondWithTokens(w, http.StatusOK, result)
}

func (h *AuthHandler) respondWithTokens(w http.ResponseWriter, code int, result *service.AuthResult) {
	http.SetCookie(w, h.cookie(result.RefreshToken, int(h.refreshTTL/time.Second)))
	response.Success(w, code, AuthResponse{
		User:         newUserResponse(result.User),
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

func (h *AuthHandler) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}
