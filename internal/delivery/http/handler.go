package http

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/painelgpt/backend/internal/domain"
	"github.com/painelgpt/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	matcher *usecase.MatchService
	review  *usecase.ReviewService
	audit   *usecase.AuditService
	catalog domain.CatalogRepository
}

// NewHandler creates a new HTTP handler
func NewHandler(matcher *usecase.MatchService, review *usecase.ReviewService, audit *usecase.AuditService, catalog domain.CatalogRepository) *Handler {
	return &Handler{
		matcher: matcher,
		review:  review,
		audit:   audit,
		catalog: catalog,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "painelgpt-backend",
		"version": "1.0.0",
	})
}

// ListRestaurants returns the dashboard restaurant list with per-restaurant
// audit totals, filtered by ?search= and ?filter=
func (h *Handler) ListRestaurants(c *gin.Context) {
	overview, err := h.audit.CatalogOverview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	search := c.Query("search")
	filter := c.DefaultQuery("filter", usecase.FilterAll)
	restaurants := usecase.FilterRestaurants(overview.Restaurants, search, filter)

	c.JSON(http.StatusOK, gin.H{
		"restaurants":        restaurants,
		"total":              len(restaurants),
		"totalRestaurants":   overview.TotalRestaurants,
		"withoutIfood":       overview.WithoutIfood,
		"missingPhoto":       overview.MissingPhoto,
		"missingDescription": overview.MissingDescription,
		"missingPrice":       overview.MissingPrice,
	})
}

// RestaurantAudit returns the per-category quality roll-up for one restaurant
func (h *Handler) RestaurantAudit(c *gin.Context) {
	id, ok := restaurantID(c)
	if !ok {
		return
	}

	stats, categories, err := h.audit.RestaurantAudit(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant": stats,
		"categories": categories,
	})
}

// ListMatches returns the built match list for one restaurant, ordered for
// review (pendente first, weakest confidence first)
func (h *Handler) ListMatches(c *gin.Context) {
	id, ok := restaurantID(c)
	if !ok {
		return
	}

	entries, err := h.matcher.ListMatches(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matches": entries,
		"total":   len(entries),
	})
}

// confirmRequest is the confirm payload: the entry's current link and score,
// echoed back by the dashboard
type confirmRequest struct {
	GeraldoItemID int64  `json:"geraldo_item_id" binding:"required"`
	IfoodItemID   *int64 `json:"ifood_item_id"`
	Confidence    int    `json:"confidence"`
	Method        string `json:"method"`
}

// ConfirmMatch confirms one proposed pairing
func (h *Handler) ConfirmMatch(c *gin.Context) {
	id, ok := restaurantID(c)
	if !ok {
		return
	}

	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	record, err := h.review.Confirm(c.Request.Context(), domain.MatchRecord{
		RestaurantID:  id,
		GeraldoItemID: req.GeraldoItemID,
		IfoodItemID:   req.IfoodItemID,
		Confidence:    req.Confidence,
		Status:        domain.StatusConfirmed,
		Method:        req.Method,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"match": record})
}

// ConfirmAutoMatches confirms every automatic proposal of the restaurant in
// one pass and reports which items were confirmed
func (h *Handler) ConfirmAutoMatches(c *gin.Context) {
	id, ok := restaurantID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	entries, err := h.matcher.ListMatches(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.review.BulkConfirmAuto(ctx, entries)
	if err != nil {
		// Part of the batch may have been written; report it alongside the error
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  err.Error(),
			"result": result,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

type unlinkRequest struct {
	GeraldoItemID int64 `json:"geraldo_item_id" binding:"required"`
}

// UnlinkMatch marks one geraldo item as having no ifood counterpart
func (h *Handler) UnlinkMatch(c *gin.Context) {
	id, ok := restaurantID(c)
	if !ok {
		return
	}

	var req unlinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	record, err := h.review.Unlink(c.Request.Context(), id, req.GeraldoItemID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"match": record})
}

// ExportMatches streams the restaurant's match list as CSV
func (h *Handler) ExportMatches(c *gin.Context) {
	id, ok := restaurantID(c)
	if !ok {
		return
	}

	entries, err := h.matcher.ListMatches(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="matches_%d.csv"`, id))

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"item_geraldo", "categoria_geraldo", "item_ifood", "categoria_ifood", "confianca", "status", "metodo"})
	for _, e := range entries {
		ifoodName, ifoodCategory := "", ""
		if e.IfoodItem != nil {
			ifoodName = e.IfoodItem.Name
			ifoodCategory = e.IfoodItem.CategoryName
		}
		_ = w.Write([]string{
			e.GeraldoItem.Name,
			e.GeraldoItem.CategoryName,
			ifoodName,
			ifoodCategory,
			strconv.Itoa(e.Confidence),
			string(e.Status),
			e.Method,
		})
	}
	w.Flush()
}

// Item list filters beyond the shared todos/com_problema pair
const (
	filterNoPhoto       = "sem_foto"
	filterNoDescription = "sem_descricao"
	filterNoPrice       = "sem_preco"
)

type itemView struct {
	domain.Item
	Flags usecase.ItemFlags `json:"flags"`
}

// ListItems returns geraldo items across all restaurants with search,
// missing-field filter and pagination
func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.catalog.ListAllItems(c.Request.Context(), domain.OriginGeraldo)
	if err != nil {
		respondError(c, err)
		return
	}

	search := strings.ToLower(strings.TrimSpace(c.Query("search")))
	filter := c.DefaultQuery("filter", usecase.FilterAll)

	views := make([]itemView, 0, len(items))
	for _, item := range items {
		if search != "" &&
			!strings.Contains(strings.ToLower(item.Name), search) &&
			!strings.Contains(strings.ToLower(item.RestaurantName), search) {
			continue
		}

		flags := usecase.Flags(item)
		switch filter {
		case usecase.FilterWithProblem:
			if !flags.HasProblem() {
				continue
			}
		case filterNoPhoto:
			if !flags.MissingPhoto {
				continue
			}
		case filterNoDescription:
			if !flags.MissingDescription {
				continue
			}
		case filterNoPrice:
			if !flags.MissingPrice {
				continue
			}
		}

		views = append(views, itemView{Item: item, Flags: flags})
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 50)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}

	start := (page - 1) * pageSize
	if start > len(views) {
		start = len(views)
	}
	end := start + pageSize
	if end > len(views) {
		end = len(views)
	}

	c.JSON(http.StatusOK, gin.H{
		"items":     views[start:end],
		"total":     len(views),
		"page":      page,
		"page_size": pageSize,
	})
}

// restaurantID parses the :id path parameter, writing the error response itself
func restaurantID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrRestaurantNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrMatchNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCatalogUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
