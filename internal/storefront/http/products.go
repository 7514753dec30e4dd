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

// ProductListHandler serves GET /api/product/list.
type ProductListHandler struct {
	Catalog *service.CatalogService
}

// ServeHTTP godoc
//
//	@Summary		List products
//	@Description	Returns the full catalogue, newest first.
//	@Tags			Products
//	@Produce		json
//	@Success		200	{object}	object{success=bool,products=[]domain.Product}
//	@Router			/api/product/list [get].
func (h *ProductListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.List(r.Context())
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "could not load products")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	httpx.WriteJSON(w, http.StatusOK, struct {
		Success  bool             `json:"success"`
		Products []domain.Product `json:"products"`
	}{Success: true, Products: products})
}

// ProductGetHandler serves GET /api/product/{id}.
type ProductGetHandler struct {
	Catalog *service.CatalogService
}

// ServeHTTP godoc
//
//	@Summary		Get a product
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		string	true	"Product ID"
//	@Success		200	{object}	object{success=bool,product=domain.Product}
//	@Failure		404	{object}	httpx.Envelope
//	@Router			/api/product/{id} [get].
func (h *ProductGetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	product, err := h.Catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, "product not found")
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "could not load product")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, struct {
		Success bool           `json:"success"`
		Product domain.Product `json:"product"`
	}{Success: true, Product: product})
}

// ProductAddHandler serves POST /api/product/add. Admin only.
type ProductAddHandler struct {
	Catalog *service.CatalogService
}

// ServeHTTP godoc
//
//	@Summary		Add a product
//	@Description	Creates a catalogue entry. Requires an admin access token.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		domain.Product	true	"Product details"
//	@Success		201		{object}	object{success=bool,product=domain.Product}
//	@Failure		400		{object}	httpx.Envelope	"invalid product"
//	@Failure		403		{object}	httpx.Envelope	"not an admin"
//	@Router			/api/product/add [post].
func (h *ProductAddHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body domain.Product
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "invalid request body")
		return
	}

	product, err := h.Catalog.Add(r.Context(), body)
	if err != nil {
		if errors.Is(err, service.ErrInvalidProduct) {
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "product needs a name, a positive price and a non-negative stock")
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "could not create product")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, struct {
		Success bool           `json:"success"`
		Product domain.Product `json:"product"`
	}{Success: true, Product: product})
}

// ProductDeleteHandler serves DELETE /api/product/{id}. Admin only.
type ProductDeleteHandler struct {
	Catalog *service.CatalogService
}

// ServeHTTP godoc
//
//	@Summary		Delete a product
//	@Tags			Products
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Product ID"
//	@Success		200	{object}	httpx.Envelope
//	@Failure		404	{object}	httpx.Envelope
//	@Router			/api/product/{id} [delete].
func (h *ProductDeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, "product not found")
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "could not delete product")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.Envelope{Success: true, Message: "product deleted"})
}
