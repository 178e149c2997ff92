package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"asset_dashboard/internal/app/port"
	"asset_dashboard/internal/domain/entity"
)

// APIAssetsResponse is the envelope for the owner-assets endpoint.
type APIAssetsResponse struct {
	Data struct {
		Portfolio entity.PortfolioValuation `json:"portfolio"`
	} `json:"data"`
	ServiceErrors []entity.ValuationError `json:"service_errors,omitempty"`
	StatusMessage string                  `json:"status_message"`
}

// AssetHandler handles HTTP requests for valuated asset lists.
type AssetHandler struct {
	valuationService port.ValuationService
	logger           *zap.Logger
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(vs port.ValuationService, logger *zap.Logger) *AssetHandler {
	return &AssetHandler{
		valuationService: vs,
		logger:           logger.Named("AssetHandler"),
	}
}

// GetOwnerAssetsHandler serves GET /api/v1/owners/:owner/assets. Upstream
// failures never fail the request; they surface as service_errors alongside
// whatever partial result could be computed.
func (h *AssetHandler) GetOwnerAssetsHandler(c *gin.Context) {
	ctx := c.Request.Context()

	owner := c.Param("owner")
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner path parameter is required"})
		return
	}

	portfolio, err := h.valuationService.ValuateOwner(ctx, owner)
	if err != nil {
		// Only context cancellation reaches here; everything else degrades.
		h.logger.Warn("Valuation aborted", zap.String("owner", owner), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "valuation aborted: " + err.Error()})
		return
	}

	response := APIAssetsResponse{
		ServiceErrors: portfolio.Errors,
	}
	response.Data.Portfolio = portfolio

	switch {
	case len(portfolio.Errors) > 0 && len(portfolio.Assets) == 0:
		response.StatusMessage = "Failed to retrieve any assets due to service errors."
	case len(portfolio.Errors) > 0:
		response.StatusMessage = "Assets retrieved. Some sources or groups encountered errors."
	case len(portfolio.Assets) == 0:
		response.StatusMessage = "No assets found for this owner."
	default:
		response.StatusMessage = "Assets retrieved successfully."
	}

	c.JSON(http.StatusOK, response)
}
