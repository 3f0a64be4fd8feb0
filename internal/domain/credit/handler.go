package credit

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/visitswap/visitswap-api/internal/middleware"
	"github.com/visitswap/visitswap-api/internal/pkg/errorhandler"
	"github.com/visitswap/visitswap-api/internal/pkg/response"
)

// Handler serves ledger queries
type Handler struct {
	service *Service
}

// NewHandler creates credit handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// History handles GET /credits/history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil || limit < 0 {
		response.BadRequest(w, "Invalid limit")
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil || offset < 0 {
		response.BadRequest(w, "Invalid offset")
		return
	}

	entries, page, err := h.service.History(r.Context(), middleware.GetUserID(r.Context()), limit, offset)
	if err != nil {
		errorhandler.Internal(r.Context(), w, err)
		return
	}

	items := make([]EntryResponse, len(entries))
	for i, e := range entries {
		items[i] = EntryResponseFromEntity(e)
	}
	response.WithMeta(w, items, response.Meta{Limit: page.Limit, Offset: page.Offset, Count: len(items)})
}

// Balance handles GET /credits/balance
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.service.Balance(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		errorhandler.Internal(r.Context(), w, err)
		return
	}
	response.OK(w, balance)
}

// Routes returns credit router, every route requires auth
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/history", h.History)
	r.Get("/balance", h.Balance)

	return r
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
