package handler

import (
	"net/http"

	"farmmarket/internal/model"
	"farmmarket/internal/service"

	"github.com/gin-gonic/gin"
)

// EmbeddingHandler handles embedding-related HTTP requests
type EmbeddingHandler struct {
	similar *service.SimilarService
}

// NewEmbeddingHandler creates a new embedding handler
func NewEmbeddingHandler(similar *service.SimilarService) *EmbeddingHandler {
	return &EmbeddingHandler{
		similar: similar,
	}
}

// BatchUpdate handles POST /api/v1/embeddings/batch
func (h *EmbeddingHandler) BatchUpdate(c *gin.Context) {
	var req model.EmbeddingBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	if len(req.Embeddings) == 0 {
		badRequest(c, "No embeddings provided")
		return
	}

	success, errors, err := h.similar.UpdateEmbeddings(c.Request.Context(), CallerFrom(c), req.Embeddings)
	if err != nil {
		respondError(c, err)
		return
	}

	response := model.EmbeddingBatchResponse{
		Success: success,
		Failed:  len(req.Embeddings) - success,
		Errors:  errors,
	}

	if len(errors) > 0 {
		c.JSON(http.StatusPartialContent, response)
	} else {
		c.JSON(http.StatusOK, response)
	}
}
