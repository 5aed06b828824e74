package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ColetaApp/coleta_api/internal/models"
)

// ItemStore reads the item catalog.
type ItemStore interface {
	GetAll(ctx context.Context) ([]models.Item, error)
}

// ItemCatalogCache caches the serialized catalog. A nil cache disables
// caching; failures on either side fall back to the store.
type ItemCatalogCache interface {
	Get(ctx context.Context) ([]models.ItemResponse, bool)
	Put(ctx context.Context, items []models.ItemResponse)
}

// ItemHandler handles item catalog HTTP requests.
type ItemHandler struct {
	items   ItemStore
	cache   ItemCatalogCache
	baseURL string
}

// NewItemHandler creates a new ItemHandler. cache may be nil.
func NewItemHandler(items ItemStore, cache ItemCatalogCache, baseURL string) *ItemHandler {
	return &ItemHandler{items: items, cache: cache, baseURL: baseURL}
}

// GetItems handles GET /items. An empty catalog is a 200 with an empty list.
func (h *ItemHandler) GetItems(c *gin.Context) {
	ctx := c.Request.Context()

	if h.cache != nil {
		if cached, ok := h.cache.Get(ctx); ok {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	items, err := h.items.GetAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("item catalog read failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve items."})
		return
	}

	response := make([]models.ItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, item.Serialize(h.baseURL))
	}

	if h.cache != nil {
		h.cache.Put(ctx, response)
	}
	c.JSON(http.StatusOK, response)
}
