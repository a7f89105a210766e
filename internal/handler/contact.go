package handler

import (
	"errors"
	"io"
	"net/http"

	"farmmarket/internal/model"
	"farmmarket/internal/service"

	"github.com/gin-gonic/gin"
)

// ContactHandler runs the contact flow for one listing per request
type ContactHandler struct {
	catalog *service.CatalogService
	router  *service.ContactRouter
}

// NewContactHandler creates a new contact handler
func NewContactHandler(catalog *service.CatalogService, router *service.ContactRouter) *ContactHandler {
	return &ContactHandler{
		catalog: catalog,
		router:  router,
	}
}

// Phone handles POST /api/v1/listings/:id/contact/phone
func (h *ContactHandler) Phone(c *gin.Context) {
	flow, ok := h.open(c)
	if !ok {
		return
	}
	outcome, err := flow.Call(c.Request.Context(), CallerFrom(c))
	respondOutcome(c, outcome, err)
}

// Email handles POST /api/v1/listings/:id/contact/email
func (h *ContactHandler) Email(c *gin.Context) {
	flow, ok := h.open(c)
	if !ok {
		return
	}
	outcome, err := flow.Email(c.Request.Context(), CallerFrom(c))
	respondOutcome(c, outcome, err)
}

// Message handles POST /api/v1/listings/:id/contact/message
func (h *ContactHandler) Message(c *gin.Context) {
	flow, ok := h.open(c)
	if !ok {
		return
	}
	outcome, err := flow.SendMessage(c.Request.Context(), CallerFrom(c))
	respondOutcome(c, outcome, err)
}

// open loads the listing and applies the request's quantity and message to a
// fresh flow. An empty body keeps the defaults.
func (h *ContactHandler) open(c *gin.Context) (*service.ContactFlow, bool) {
	listingID, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}

	var req model.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid request: "+err.Error())
		return nil, false
	}

	listing, err := h.catalog.GetListing(c.Request.Context(), listingID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	flow := h.router.Open(*listing)
	if err := flow.SetQuantity(req.Quantity); err != nil {
		respondError(c, err)
		return nil, false
	}
	if err := flow.SetMessage(req.Message); err != nil {
		respondError(c, err)
		return nil, false
	}
	return flow, true
}

// respondOutcome writes the outcome of a contact action. User-facing
// conditions are successful responses; faults keep the outcome's notification.
func respondOutcome(c *gin.Context, outcome model.Outcome, err error) {
	if err == nil || service.IsUserFacing(err) {
		c.JSON(http.StatusOK, outcome)
		return
	}

	_ = c.Error(err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrFlowClosed):
		status = http.StatusConflict
	case errors.Is(err, service.ErrUpstream):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{
		"error":        outcome.Notification,
		"notification": outcome.Notification,
		"outcome":      outcome,
	})
}
