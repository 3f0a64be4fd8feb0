package visit

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/visitswap/visitswap-api/internal/domain/site"
	"github.com/visitswap/visitswap-api/internal/domain/user"
	"github.com/visitswap/visitswap-api/internal/middleware"
	"github.com/visitswap/visitswap-api/internal/pkg/errorhandler"
	"github.com/visitswap/visitswap-api/internal/pkg/response"
	"github.com/visitswap/visitswap-api/internal/pkg/validator"
)

// CompleteVisitRequest for POST /visits/complete
type CompleteVisitRequest struct {
	SiteID    string `json:"siteId" validate:"required,uuid"`
	IP        string `json:"ip" validate:"omitempty,ip"`
	UserAgent string `json:"userAgent" validate:"omitempty,max=512"`
}

// CompleteVisitResponse is written without the usual envelope
type CompleteVisitResponse struct {
	Success bool `json:"success"`
	Credits int  `json:"credits"`
}

// Handler handles visit HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates visit handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Complete handles POST /visits/complete
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	var req CompleteVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	ip := req.IP
	if ip == "" {
		ip = middleware.ClientIP(r)
	}
	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = r.UserAgent()
	}

	result, err := h.service.CompleteVisit(r.Context(), CompleteRequest{
		VisitorID: middleware.GetUserID(r.Context()),
		SiteID:    uuid.MustParse(req.SiteID),
		IP:        ip,
		UserAgent: userAgent,
	})
	if err != nil {
		switch {
		case errors.Is(err, site.ErrSiteNotFound):
			response.NotFound(w, "Site not found")
		case errors.Is(err, user.ErrUserNotFound):
			response.NotFound(w, "User not found")
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "VISIT_NOT_RECORDED", "Could not record visit", err)
		}
		return
	}

	response.Raw(w, http.StatusOK, CompleteVisitResponse{Success: true, Credits: result.Credits})
}

// Routes returns visit router, every route requires auth
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/complete", h.Complete)

	return r
}
