package http

import (
	"errors"
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	menuports "github.com/tablebite/order-service/internal/domains/menu/ports"
	"github.com/tablebite/order-service/internal/domains/orders/adapters/http/mapper"
	"github.com/tablebite/order-service/internal/domains/orders/application"
	"github.com/tablebite/order-service/internal/domains/orders/domain"
	"github.com/tablebite/order-service/internal/domains/orders/ports"
	sharederrors "github.com/tablebite/order-service/internal/shared/errors"
)

// Caller identity headers. The gateway authenticates and injects
// X-User-Id; the guest token travels in a header or query parameter.
const (
	HeaderUserID     = "X-User-Id"
	HeaderGuestToken = "X-Guest-Token"
	QueryGuestToken  = "token"
)

// OrderAPI wires HTTP transport with the order lifecycle service.
type OrderAPI struct {
	service ports.Service
}

// NewOrderAPI creates an OrderAPI backed by the provided service.
func NewOrderAPI(service ports.Service) OrderAPI {
	return OrderAPI{service: service}
}

// RegisterRoutes mounts the order endpoints on the router group.
func (api *OrderAPI) RegisterRoutes(r gin.IRouter) {
	orders := r.Group("/orders")
	orders.POST("", api.CreateOrder)
	orders.GET("/my", api.ListMyOrders)
	orders.GET("/:id", api.GetOrder)
	orders.POST("/:id/items", api.AddItems)
	orders.POST("/:id/cancel", api.CancelOrder)
	orders.PATCH("/:id/pay", api.PayOrder)
	orders.PATCH("/:id/status", api.UpdateStatus)
	orders.POST("/merge", api.MergeGuestOrders)
}

// Post /orders
// Open a new order for a user or guest
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload mapper.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		sharederrors.RespondError(c, sharederrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	caller := callerFrom(c)
	if caller.GuestToken == "" {
		caller.GuestToken = payload.GuestToken
	}
	order, err := api.service.Create(c.Request.Context(), caller, mapper.ToCreateInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromDomainOrder(order))
}

// Get /orders/:id
// Fetch an order the caller owns
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := api.service.Get(c.Request.Context(), id, callerFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromDomainOrder(order))
}

// Get /orders/my
// List the authenticated caller's orders, newest first
func (api *OrderAPI) ListMyOrders(c *gin.Context) {
	orders, err := api.service.ListMine(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromDomainOrders(orders))
}

// Post /orders/:id/items
// Append line items to a pending or preparing order
func (api *OrderAPI) AddItems(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload mapper.AddItemsRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		sharederrors.RespondError(c, sharederrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	order, err := api.service.AddItems(c.Request.Context(), id, callerFrom(c), mapper.ToItemInputs(payload.Items))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromDomainOrder(order))
}

// Patch /orders/:id/pay
// Record a payment confirmation from the payment collaborator
func (api *OrderAPI) PayOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := api.service.Pay(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromDomainOrder(order))
}

// Patch /orders/:id/status
// Administrative status override for staff tooling
func (api *OrderAPI) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload mapper.UpdateStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		sharederrors.RespondError(c, sharederrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	order, err := api.service.UpdateStatus(c.Request.Context(), id, payload.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromDomainOrder(order))
}

// Post /orders/:id/cancel
// Cancel a pending order as its account owner
func (api *OrderAPI) CancelOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := api.service.Cancel(c.Request.Context(), id, callerFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromDomainOrder(order))
}

// Post /orders/merge
// Claim guest-session orders for the authenticated account
func (api *OrderAPI) MergeGuestOrders(c *gin.Context) {
	var payload mapper.MergeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		sharederrors.RespondError(c, sharederrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	count, err := api.service.MergeGuestOrders(c.Request.Context(), c.GetHeader(HeaderUserID), payload.GuestToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.MergeResponse{Merged: count})
}

// MenuAPI exposes the read-only menu catalog.
type MenuAPI struct {
	catalog menuports.Catalog
}

func NewMenuAPI(catalog menuports.Catalog) MenuAPI {
	return MenuAPI{catalog: catalog}
}

// RegisterRoutes mounts the menu endpoints on the router group.
func (api *MenuAPI) RegisterRoutes(r gin.IRouter) {
	r.GET("/menus", api.ListMenus)
}

// Get /menus
// List the current menu catalog
func (api *MenuAPI) ListMenus(c *gin.Context) {
	items, err := api.catalog.List(c.Request.Context())
	if err != nil {
		sharederrors.RespondError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, items)
}

func callerFrom(c *gin.Context) domain.Caller {
	token := c.GetHeader(HeaderGuestToken)
	if token == "" {
		token = c.Query(QueryGuestToken)
	}
	return domain.Caller{
		UserID:     c.GetHeader(HeaderUserID),
		GuestToken: token,
	}
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		sharederrors.RespondError(c, sharederrors.ErrBadRequest.WithDetail("invalid order id"))
		return 0, false
	}
	return id, true
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrNotFound):
		sharederrors.RespondError(c, sharederrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, application.ErrForbidden):
		sharederrors.RespondError(c, sharederrors.ErrForbidden.WithDetail(err.Error()))
	case errors.Is(err, application.ErrInvalidState):
		sharederrors.RespondError(c, sharederrors.ErrConflict.WithDetail(err.Error()))
	case errors.Is(err, application.ErrInvalidInput):
		sharederrors.RespondError(c, sharederrors.ErrValidation.WithDetail(err.Error()))
	default:
		sharederrors.RespondError(c, err)
	}
}
