package handler

import (
	"net/http"
	"strings"

	"farmmarket/internal/model"
	"farmmarket/internal/service"

	"github.com/gin-gonic/gin"
)

// SellerHandler serves the farmer dashboard
type SellerHandler struct {
	sellers        *service.SellerService
	maxUploadBytes int64
}

// NewSellerHandler creates a new seller handler
func NewSellerHandler(sellers *service.SellerService, maxUploadBytes int64) *SellerHandler {
	return &SellerHandler{
		sellers:        sellers,
		maxUploadBytes: maxUploadBytes,
	}
}

// ListOwn handles GET /api/v1/me/listings
func (h *SellerHandler) ListOwn(c *gin.Context) {
	listings, err := h.sellers.ListOwn(c.Request.Context(), CallerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": listings, "total": len(listings)})
}

// Create handles POST /api/v1/me/listings
func (h *SellerHandler) Create(c *gin.Context) {
	var input model.ListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	listing, err := h.sellers.Create(c.Request.Context(), CallerFrom(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

// Update handles PUT /api/v1/me/listings/:id
func (h *SellerHandler) Update(c *gin.Context) {
	listingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input model.ListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	listing, err := h.sellers.Update(c.Request.Context(), CallerFrom(c), listingID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Delete handles DELETE /api/v1/me/listings/:id
func (h *SellerHandler) Delete(c *gin.Context) {
	listingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.sellers.Delete(c.Request.Context(), CallerFrom(c), listingID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage handles POST /api/v1/me/listings/:id/image (multipart field "image")
func (h *SellerHandler) UploadImage(c *gin.Context) {
	listingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	fileHeader, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "Image file is required")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		badRequest(c, "Only image uploads are accepted")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		badRequest(c, "Failed to read image")
		return
	}
	defer file.Close()

	imageURL, err := h.sellers.UploadImage(c.Request.Context(), CallerFrom(c), listingID, fileHeader.Filename, contentType, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_url": imageURL})
}

// ToggleAvailability handles POST /api/v1/me/availability
func (h *SellerHandler) ToggleAvailability(c *gin.Context) {
	available, err := h.sellers.ToggleAvailability(c.Request.Context(), CallerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_available": available})
}

// Inbox handles GET /api/v1/me/messages
func (h *SellerHandler) Inbox(c *gin.Context) {
	messages, err := h.sellers.Inbox(c.Request.Context(), CallerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": messages, "total": len(messages)})
}

// ContactStats handles GET /api/v1/me/stats
func (h *SellerHandler) ContactStats(c *gin.Context) {
	stats, err := h.sellers.ContactStats(c.Request.Context(), CallerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": stats})
}
