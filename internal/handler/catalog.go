package handler

import (
	"net/http"
	"strconv"

	"farmmarket/internal/model"
	"farmmarket/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CatalogHandler handles the public catalog
type CatalogHandler struct {
	catalog      *service.CatalogService
	similar      *service.SimilarService
	taxonomy     *model.Taxonomy
	defaultLimit int
	maxLimit     int
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog *service.CatalogService, similar *service.SimilarService, taxonomy *model.Taxonomy, defaultLimit, maxLimit int) *CatalogHandler {
	return &CatalogHandler{
		catalog:      catalog,
		similar:      similar,
		taxonomy:     taxonomy,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Browse handles GET /api/v1/listings?q=&category=&location=
func (h *CatalogHandler) Browse(c *gin.Context) {
	var criteria model.FilterCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		badRequest(c, "Invalid query: "+err.Error())
		return
	}

	response, err := h.catalog.Browse(c.Request.Context(), criteria)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// GetListing handles GET /api/v1/listings/:id
func (h *CatalogHandler) GetListing(c *gin.Context) {
	listingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	listing, err := h.catalog.GetListing(c.Request.Context(), listingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Similar handles GET /api/v1/listings/:id/similar?limit=
func (h *CatalogHandler) Similar(c *gin.Context) {
	listingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, "Invalid limit")
			return
		}
		limit = n
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	results, err := h.similar.Similar(c.Request.Context(), listingID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Taxonomy handles GET /api/v1/taxonomy
func (h *CatalogHandler) Taxonomy(c *gin.Context) {
	c.JSON(http.StatusOK, h.taxonomy)
}

// SellerPage handles GET /api/v1/sellers/:id
func (h *CatalogHandler) SellerPage(c *gin.Context) {
	profileID, ok := pathID(c, "id")
	if !ok {
		return
	}

	page, err := h.catalog.SellerPage(c.Request.Context(), profileID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
