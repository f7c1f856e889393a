package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/validator"
)

// MaxSuggestLimit caps the quick-search result size.
const MaxSuggestLimit = 20

// StorefrontHandler handles HTTP requests for the product list, its facets,
// search and sort.
type StorefrontHandler struct {
	service *service.StorefrontService
	logger  *slog.Logger
}

// NewStorefrontHandler creates a new storefront HTTP handler.
func NewStorefrontHandler(svc *service.StorefrontService, logger *slog.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// SetFiltersRequest replaces every facet at once. A missing price range means
// the full range.
type SetFiltersRequest struct {
	Categories []string           `json:"categories" validate:"dive,required,max=100"`
	Fabrics    []domain.FabricTag `json:"fabrics" validate:"dive,oneof=cotton leather polyester wool silk"`
	Ratings    []RatingLabel      `json:"ratings" validate:"dive,gte=1,lte=5"`
	PriceRange *domain.PriceRange `json:"price_range"`
}

// RatingLabel is a minimum-rating threshold given either as a number (4) or
// as a label ("4", "4+").
type RatingLabel int

// UnmarshalJSON accepts a JSON integer or a threshold label string.
func (l *RatingLabel) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*l = RatingLabel(n)
		return nil
	}

	var label string
	if err := json.Unmarshal(b, &label); err != nil {
		return fmt.Errorf("rating must be a number or a label such as \"4+\"")
	}
	n, ok := domain.ParseRatingThreshold(label)
	if !ok {
		return fmt.Errorf("invalid rating threshold %q", label)
	}
	*l = RatingLabel(n)
	return nil
}

// ToggleFilterRequest flips one facet value.
type ToggleFilterRequest struct {
	Facet string `json:"facet" validate:"required,oneof=category fabric rating"`
	Value string `json:"value" validate:"required,max=100"`
}

// PriceRangeRequest sets the price facet.
type PriceRangeRequest struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gtefield=Min"`
}

// SortRequest selects the ordering by wire name or display label.
type SortRequest struct {
	Sort string `json:"sort" validate:"required,max=50"`
}

// SearchRequest sets the free-text query. An empty query clears the search.
type SearchRequest struct {
	Query string `json:"query" validate:"max=200"`
}

// --- Handlers ---

// GetView handles GET /api/v1/storefront
func (h *StorefrontHandler) GetView(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.View(r.Context()))
}

// GetFacets handles GET /api/v1/storefront/facets
func (h *StorefrontHandler) GetFacets(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.Facets())
}

// Suggest handles GET /api/v1/storefront/suggest?q=&limit=
func (h *StorefrontHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	limit := httputil.QueryInt(r, "limit", 0)
	if limit > MaxSuggestLimit {
		limit = MaxSuggestLimit
	}

	products := h.service.Suggest(r.Context(), r.URL.Query().Get("q"), limit)
	httputil.WriteData(w, http.StatusOK, products)
}

// Reload handles POST /api/v1/storefront/reload
func (h *StorefrontHandler) Reload(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Reload(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, view)
}

// SetFilters handles PUT /api/v1/storefront/filters
func (h *StorefrontHandler) SetFilters(w http.ResponseWriter, r *http.Request) {
	var req SetFiltersRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	criteria := domain.DefaultCriteria(h.service.PriceMax())
	if req.Categories != nil {
		criteria.Categories = req.Categories
	}
	if req.Fabrics != nil {
		criteria.Fabrics = req.Fabrics
	}
	if req.Ratings != nil {
		criteria.Ratings = make([]int, len(req.Ratings))
		for i, v := range req.Ratings {
			criteria.Ratings[i] = int(v)
		}
	}
	if req.PriceRange != nil {
		criteria.PriceRange = *req.PriceRange
	}

	view, err := h.service.SetCriteria(r.Context(), criteria)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, view)
}

// ToggleFilter handles POST /api/v1/storefront/filters/toggle
func (h *StorefrontHandler) ToggleFilter(w http.ResponseWriter, r *http.Request) {
	var req ToggleFilterRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	view, err := h.service.ToggleFilter(r.Context(), domain.Facet(req.Facet), req.Value)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, view)
}

// SetPriceRange handles PUT /api/v1/storefront/filters/price
func (h *StorefrontHandler) SetPriceRange(w http.ResponseWriter, r *http.Request) {
	var req PriceRangeRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	view, err := h.service.SetPriceRange(r.Context(), req.Min, req.Max)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, view)
}

// ClearFilters handles DELETE /api/v1/storefront/filters
func (h *StorefrontHandler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.ClearFilters(r.Context()))
}

// SetSort handles PUT /api/v1/storefront/sort
func (h *StorefrontHandler) SetSort(w http.ResponseWriter, r *http.Request) {
	var req SortRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	view, err := h.service.SetSort(r.Context(), req.Sort)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, view)
}

// SetSearch handles PUT /api/v1/storefront/search
func (h *StorefrontHandler) SetSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, h.service.SetSearchQuery(r.Context(), req.Query))
}

// writeError renders validation failures with their field details and
// everything else through the standard envelope.
func (h *StorefrontHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		httputil.WriteValidationError(w, r, valErr)
		return
	}
	httputil.WriteError(w, r, err, h.logger)
}
