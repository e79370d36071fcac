package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const defaultMaxTerms = 50

// Comparer prices a shopping list across stores
type Comparer interface {
	CompareProducts(ctx context.Context, searchTerms []string, region string) (*domain.ShoppingPlanResult, error)
}

// StoreLister lists the stores taking part for a region
type StoreLister interface {
	Stores(region string) []domain.StoreInfo
	Store(name string) (domain.StoreInfo, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparer Comparer
	stores   StoreLister
	maxTerms int
	logger   zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(comparer Comparer, stores StoreLister, maxTerms int, logger zerolog.Logger) *Handler {
	if maxTerms <= 0 {
		maxTerms = defaultMaxTerms
	}
	return &Handler{
		comparer: comparer,
		stores:   stores,
		maxTerms: maxTerms,
		logger:   logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cartcompare-backend",
		"version": "1.0.0",
	})
}

// Compare handles shopping list comparison requests
func (h *Handler) Compare(c *gin.Context) {
	var req domain.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: searchTerms is required",
		})
		return
	}

	if len(req.SearchTerms) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: searchTerms must not be empty",
		})
		return
	}

	if len(req.SearchTerms) > h.maxTerms {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid request: at most %d search terms are allowed", h.maxTerms),
		})
		return
	}

	result, err := h.comparer.CompareProducts(c.Request.Context(), req.SearchTerms, req.Region)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request: no usable search terms",
			})
			return
		}

		h.logger.Error().Err(err).Str("request_id", GetRequestID(c)).Msg("comparison failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListStores returns the stores participating for the optional region query
func (h *Handler) ListStores(c *gin.Context) {
	region := c.Query("region")
	stores := h.stores.Stores(region)

	c.JSON(http.StatusOK, gin.H{
		"region": region,
		"stores": stores,
	})
}

// GetStore returns one configured store by name
func (h *Handler) GetStore(c *gin.Context) {
	store, err := h.stores.Store(c.Param("name"))
	if err != nil {
		if errors.Is(err, domain.ErrStoreNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Store not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, store)
}
