package site

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/visitswap/visitswap-api/internal/middleware"
	"github.com/visitswap/visitswap-api/internal/pkg/errorhandler"
	"github.com/visitswap/visitswap-api/internal/pkg/response"
	"github.com/visitswap/visitswap-api/internal/pkg/validator"
)

// Handler handles site HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates site handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /sites
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	site, err := h.service.CreateSite(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		errorhandler.Internal(r.Context(), w, err)
		return
	}

	response.Created(w, SiteResponseFromEntity(site))
}

// ListMine handles GET /sites
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	sites, err := h.service.ListOwnSites(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.Internal(r.Context(), w, err)
		return
	}
	response.OK(w, siteResponses(sites))
}

// Browse handles GET /sites/browse
func (h *Handler) Browse(w http.ResponseWriter, r *http.Request) {
	sites, err := h.service.BrowseSites(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.Internal(r.Context(), w, err)
		return
	}
	response.OK(w, siteResponses(sites))
}

// UpdateStatus handles PATCH /sites/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	siteID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid site ID")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	site, err := h.service.UpdateStatus(r.Context(), middleware.GetUserID(r.Context()), siteID, Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ErrSiteNotFound):
			response.NotFound(w, "Site not found")
		case errors.Is(err, ErrNotOwner):
			response.Forbidden(w, "Only the owner can change this site")
		default:
			errorhandler.Internal(r.Context(), w, err)
		}
		return
	}

	response.OK(w, SiteResponseFromEntity(site))
}
