package gateway

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/example/localmart/pkg/models"
	"github.com/example/localmart/pkg/orders"
	"github.com/example/localmart/pkg/pricing"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type createOrderRequest struct {
	UserID           string             `json:"userId" binding:"required"`
	ShopID           string             `json:"shopId" binding:"required"`
	Items            []models.OrderItem `json:"items" binding:"required"`
	DeliveryLocation []float64          `json:"deliveryLocation" binding:"required"`
	DeliveryAddress  string             `json:"deliveryAddress" binding:"required"`
	PaymentMethod    string             `json:"paymentMethod" binding:"required"`
}

func (g *Gateway) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	order, err := g.orders.Create(c.Request.Context(), orders.CreateRequest{
		UserID:           req.UserID,
		ShopID:           req.ShopID,
		Items:            req.Items,
		DeliveryLocation: req.DeliveryLocation,
		DeliveryAddress:  req.DeliveryAddress,
		PaymentMethod:    models.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		g.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": order})
}

func (g *Gateway) listOrders(c *gin.Context) {
	filter := models.OrderFilter{
		Status:        models.OrderStatus(c.Query("status")),
		PaymentStatus: models.PaymentStatus(c.Query("payment_status")),
		UserID:        c.Query("user_id"),
		ShopID:        c.Query("shop_id"),
		Page:          parseInt64(c.Query("page"), models.DefaultPage),
		Limit:         parseInt64(c.Query("limit"), models.DefaultLimit),
	}

	var err error
	if filter.StartDate, err = parseDate(c.Query("start_date")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "start_date must be YYYY-MM-DD"})
		return
	}
	if filter.EndDate, err = parseDate(c.Query("end_date")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "end_date must be YYYY-MM-DD"})
		return
	}

	list, pagination, err := g.orders.List(c.Request.Context(), filter)
	if err != nil {
		g.respondError(c, err)
		return
	}
	if list == nil {
		list = []models.Order{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": list, "pagination": pagination})
}

func (g *Gateway) getOrder(c *gin.Context) {
	order, err := g.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (g *Gateway) updateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	order, err := g.orders.UpdateStatus(c.Request.Context(), c.Param("id"), models.OrderStatus(req.Status))
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

func (g *Gateway) cancelOrder(c *gin.Context) {
	_, err := g.orders.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order cancelled successfully"})
}

func (g *Gateway) orderSummary(c *gin.Context) {
	filter := models.SummaryFilter{ShopID: c.Query("shop_id")}

	var err error
	if filter.StartDate, err = parseDate(c.Query("start_date")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "start_date must be YYYY-MM-DD"})
		return
	}
	if filter.EndDate, err = parseDate(c.Query("end_date")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "end_date must be YYYY-MM-DD"})
		return
	}

	summary, err := g.orders.Summary(c.Request.Context(), filter)
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}

type createBandRequest struct {
	MinDistance *float64 `json:"minDistance" binding:"required"`
	MaxDistance *float64 `json:"maxDistance" binding:"required"`
	Charge      *float64 `json:"charge" binding:"required"`
}

func (g *Gateway) createBand(c *gin.Context) {
	var req createBandRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	band, err := g.pricing.CreateBand(c.Request.Context(), *req.MinDistance, *req.MaxDistance, *req.Charge)
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": band})
}

func (g *Gateway) listBands(c *gin.Context) {
	includeInactive := c.Query("all") == "true"
	bands, err := g.pricing.ListBands(c.Request.Context(), includeInactive)
	if err != nil {
		g.respondError(c, err)
		return
	}
	if bands == nil {
		bands = []models.DeliveryCharge{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": bands})
}

func (g *Gateway) getBand(c *gin.Context) {
	band, err := g.pricing.GetBand(c.Request.Context(), c.Param("id"))
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": band})
}

type updateBandRequest struct {
	MinDistance *float64 `json:"minDistance"`
	MaxDistance *float64 `json:"maxDistance"`
	Charge      *float64 `json:"charge"`
	IsActive    *bool    `json:"isActive"`
}

func (g *Gateway) updateBand(c *gin.Context) {
	var req updateBandRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	band, err := g.pricing.UpdateBand(c.Request.Context(), c.Param("id"), pricing.BandUpdate{
		MinDistance: req.MinDistance,
		MaxDistance: req.MaxDistance,
		Charge:      req.Charge,
		IsActive:    req.IsActive,
	})
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": band})
}

func (g *Gateway) deactivateBand(c *gin.Context) {
	if err := g.pricing.DeactivateBand(c.Request.Context(), c.Param("id")); err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Delivery charge range deleted successfully"})
}

func (g *Gateway) calculateCharge(c *gin.Context) {
	distance, err := strconv.ParseFloat(c.Query("distance"), 64)
	if err != nil || distance < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "distance must be a non-negative number"})
		return
	}

	charge := g.pricing.ChargeFor(c.Request.Context(), distance)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"distance": distance, "charge": charge}})
}

// respondError maps domain errors onto HTTP statuses; causes stay in the log,
// not the response.
func (g *Gateway) respondError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	var overlapErr *models.OverlapError

	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not found"})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": validationErr.Message})
	case errors.As(err, &overlapErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "This range overlaps with an existing range",
			"overlappingRange": gin.H{
				"minDistance": overlapErr.Existing.MinDistance,
				"maxDistance": overlapErr.Existing.MaxDistance,
				"charge":      overlapErr.Existing.Charge,
			},
		})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "concurrent update conflict"})
	default:
		g.logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
	}
}

func parseInt64(value string, fallback int64) int64 {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
