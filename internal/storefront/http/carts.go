package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/marketloft/storefront/internal/storefront/service"
	"github.com/marketloft/storefront/internal/storefront/store"
	"github.com/marketloft/storefront/pkg/httpx"
)

// cartItem is a single product line in a cart response.
type cartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type cartBody struct {
	Items []cartItem `json:"items"`
}

// cartResponse flattens the stored productID->quantity map into a
// stable, sorted line list.
func cartResponse(cart map[string]int) cartBody {
	items := make([]cartItem, 0, len(cart))
	for id, qty := range cart {
		items = append(items, cartItem{ProductID: id, Quantity: qty})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return cartBody{Items: items}
}

func writeCart(w http.ResponseWriter, cart map[string]int) {
	httpx.WriteJSON(w, http.StatusOK, struct {
		Success bool     `json:"success"`
		Cart    cartBody `json:"cart"`
	}{Success: true, Cart: cartResponse(cart)})
}

// CartGetHandler serves GET /api/cart.
type CartGetHandler struct {
	Carts *service.CartService
}

// ServeHTTP godoc
//
//	@Summary		Get the current cart
//	@Tags			Carts
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	object{success=bool,cart=object{items=[]object{productId=string,quantity=int}}}
//	@Router			/api/cart [get].
func (h *CartGetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeNoToken, "authentication required")
		return
	}

	cart, err := h.Carts.Get(r.Context(), userID)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "could not load cart")
		return
	}

	writeCart(w, cart)
}

// CartAddHandler serves POST /api/cart/add.
type CartAddHandler struct {
	Carts *service.CartService
}

// ServeHTTP godoc
//
//	@Summary		Add a product to the cart
//	@Description	Adds one unit of the product. Repeated calls accumulate quantity.
//	@Tags			Carts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		object{productId=string}	true	"Product to add"
//	@Success		200		{object}	object{success=bool,cart=object{items=[]object{productId=string,quantity=int}}}
//	@Failure		404		{object}	httpx.Envelope	"unknown product"
//	@Router			/api/cart/add [post].
func (h *CartAddHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeNoToken, "authentication required")
		return
	}

	var body struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ProductID == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "productId is required")
		return
	}

	cart, err := h.Carts.Add(r.Context(), userID, body.ProductID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, "product not found")
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "could not update cart")
		return
	}

	writeCart(w, cart)
}

// CartUpdateHandler serves POST /api/cart/update.
type CartUpdateHandler struct {
	Carts *service.CartService
}

// ServeHTTP godoc
//
//	@Summary		Set a cart line quantity
//	@Description	Sets the quantity for a product. A quantity of zero removes the line.
//	@Tags			Carts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		object{productId=string,quantity=int}	true	"Line to update"
//	@Success		200		{object}	object{success=bool,cart=object{items=[]object{productId=string,quantity=int}}}
//	@Failure		400		{object}	httpx.Envelope	"negative quantity"
//	@Router			/api/cart/update [post].
func (h *CartUpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeNoToken, "authentication required")
		return
	}

	var body struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ProductID == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "productId is required")
		return
	}

	cart, err := h.Carts.Update(r.Context(), userID, body.ProductID, body.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuantity):
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "quantity cannot be negative")
		case errors.Is(err, store.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, "product not found")
		default:
			httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "could not update cart")
		}
		return
	}

	writeCart(w, cart)
}
