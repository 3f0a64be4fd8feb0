package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/visitswap/visitswap-api/internal/middleware"
	"github.com/visitswap/visitswap-api/internal/pkg/errorhandler"
	"github.com/visitswap/visitswap-api/internal/pkg/response"
	"github.com/visitswap/visitswap-api/internal/pkg/validator"
)

// Handler handles auth HTTP requests
type Handler struct {
	service     *Service
	frontendURL string
}

// NewHandler creates auth handler
func NewHandler(service *Service, frontendURL string) *Handler {
	return &Handler{service: service, frontendURL: frontendURL}
}

// Register handles POST /register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	u, err := h.service.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Conflict(w, "Email already registered")
			return
		}
		errorhandler.Internal(r.Context(), w, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"message": "Registration successful. Check your email to verify your account.",
		"user":    UserResponseFromEntity(u),
	})
}

// Verify handles GET /verify/{token}. Browsers are redirected to the login
// page; ?format=json answers with the envelope instead.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	asJSON := r.URL.Query().Get("format") == "json"

	_, err := h.service.Verify(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			response.BadRequest(w, "Invalid or expired verification link")
			return
		}
		errorhandler.Internal(r.Context(), w, err)
		return
	}

	if asJSON {
		response.OK(w, MessageResponse{Message: "Email verified"})
		return
	}
	http.Redirect(w, r, h.frontendURL+"/login?verified=true", http.StatusFound)
}

// Login handles POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(w, "Invalid credentials")
			return
		}
		errorhandler.Internal(r.Context(), w, err)
		return
	}

	response.OK(w, result)
}

// ForgotPassword handles POST /forgot-password
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		errorhandler.Internal(r.Context(), w, err)
		return
	}

	response.OK(w, MessageResponse{Message: "Password reset email sent"})
}

// ResetPassword handles POST /reset-password/{token}
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), chi.URLParam(r, "token"), req.Password); err != nil {
		if errors.Is(err, ErrInvalidToken) {
			response.BadRequest(w, "Invalid or expired reset token")
			return
		}
		errorhandler.Internal(r.Context(), w, err)
		return
	}

	response.OK(w, MessageResponse{Message: "Password updated"})
}

// Me handles GET /me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Me(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		errorhandler.Internal(r.Context(), w, err)
		return
	}

	response.OK(w, UserResponseFromEntity(u))
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return false
	}
	if errs := validator.Validate(dst); errs != nil {
		response.ValidationError(w, errs)
		return false
	}
	return true
}
