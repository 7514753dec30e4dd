package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/marketloft/storefront/internal/storefront/domain"
	"github.com/marketloft/storefront/internal/storefront/service"
	"github.com/marketloft/storefront/internal/storefront/store"
	"github.com/marketloft/storefront/pkg/httpx"
)

func writeOrderList(w http.ResponseWriter, orders []domain.Order) {
	if orders == nil {
		orders = []domain.Order{}
	}
	httpx.WriteJSON(w, http.StatusOK, struct {
		Success bool           `json:"success"`
		Orders  []domain.Order `json:"orders"`
	}{Success: true, Orders: orders})
}

// OrderPlaceHandler serves POST /api/order/place.
type OrderPlaceHandler struct {
	Orders *service.OrderService
}

// ServeHTTP godoc
//
//	@Summary		Place an order
//	@Description	Converts the caller's cart into a cash-on-delivery order and clears the cart.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		object{address=string}	true	"Delivery address"
//	@Success		201		{object}	object{success=bool,order=domain.Order}
//	@Failure		400		{object}	httpx.Envelope	"empty cart or missing address"
//	@Router			/api/order/place [post].
func (h *OrderPlaceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeNoToken, "authentication required")
		return
	}

	var body struct {
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "invalid request body")
		return
	}

	order, err := h.Orders.Place(r.Context(), userID, body.Address)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingAddress):
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "a delivery address is required")
		case errors.Is(err, service.ErrEmptyCart):
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "cart is empty")
		default:
			httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "could not place order")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, struct {
		Success bool         `json:"success"`
		Order   domain.Order `json:"order"`
	}{Success: true, Order: *order})
}

// OrderListMineHandler serves GET /api/order/user.
type OrderListMineHandler struct {
	Orders *service.OrderService
}

// ServeHTTP godoc
//
//	@Summary		List my orders
//	@Tags			Orders
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	object{success=bool,orders=[]domain.Order}
//	@Router			/api/order/user [get].
func (h *OrderListMineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeNoToken, "authentication required")
		return
	}

	orders, err := h.Orders.ListByUser(r.Context(), userID)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "could not load orders")
		return
	}

	writeOrderList(w, orders)
}

// OrderListAllHandler serves GET /api/order/list. Admin only.
type OrderListAllHandler struct {
	Orders *service.OrderService
}

// ServeHTTP godoc
//
//	@Summary		List all orders
//	@Tags			Orders
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	object{success=bool,orders=[]domain.Order}
//	@Failure		403	{object}	httpx.Envelope
//	@Router			/api/order/list [get].
func (h *OrderListAllHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListAll(r.Context())
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "could not load orders")
		return
	}

	writeOrderList(w, orders)
}

// OrderStatusHandler serves POST /api/order/status. Admin only.
type OrderStatusHandler struct {
	Orders *service.OrderService
}

// ServeHTTP godoc
//
//	@Summary		Update an order's status
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		object{orderId=string,status=string}	true	"Order and new status"
//	@Success		200		{object}	httpx.Envelope
//	@Failure		400		{object}	httpx.Envelope	"unknown status"
//	@Failure		404		{object}	httpx.Envelope	"unknown order"
//	@Router			/api/order/status [post].
func (h *OrderStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.OrderID == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "orderId is required")
		return
	}

	if err := h.Orders.SetStatus(r.Context(), body.OrderID, body.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrderStatus):
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "unknown order status")
		case errors.Is(err, store.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, "order not found")
		default:
			httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "could not update order")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.Envelope{Success: true, Message: "order updated"})
}
