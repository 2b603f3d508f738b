package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/rocketshoes-cart/internal/domain"
	"github.com/fjod/rocketshoes-cart/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// CartService is the cart store as seen by the HTTP layer.
type CartService interface {
	GetCart() domain.Cart
	AddProduct(ctx context.Context, productID int64) error
	RemoveProduct(ctx context.Context, productID int64) error
	UpdateProductAmount(ctx context.Context, productID int64, amount int) error
	ClearCart(ctx context.Context) error
}

type CartHandler struct {
	cart    CartService
	timeout time.Duration
	log     *logrus.Entry
}

func NewCartHandler(cart CartService, timeout time.Duration, log *logrus.Entry) *CartHandler {
	return &CartHandler{
		cart:    cart,
		timeout: timeout,
		log:     log,
	}
}

type UpdateAmountRequestDTO struct {
	Amount *int `json:"amount"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.cart.GetCart())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	if err := h.cart.AddProduct(ctx, productID); err != nil {
		h.handleCartError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, h.cart.GetCart())
}

func (h *CartHandler) UpdateAmount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req UpdateAmountRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Amount == nil {
		h.respondError(w, http.StatusBadRequest, "invalid_amount", "amount is required")
		return
	}

	// amounts below one are a silent no-op in the store
	if err := h.cart.UpdateProductAmount(ctx, productID, *req.Amount); err != nil {
		h.handleCartError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, h.cart.GetCart())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	if err := h.cart.RemoveProduct(ctx, productID); err != nil {
		h.handleCartError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, h.cart.GetCart())
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.cart.ClearCart(ctx); err != nil {
		h.handleCartError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, h.cart.GetCart())
}

func (h *CartHandler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		h.respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}

func (h *CartHandler) handleCartError(w http.ResponseWriter, err error) {
	var opErr *store.OperationError
	if !errors.As(err, &opErr) {
		h.log.WithError(err).Error("unexpected cart error")
		h.respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	var httpStatus int
	var code string

	switch {
	case errors.Is(err, store.ErrOutOfStock):
		httpStatus = http.StatusConflict
		code = "out_of_stock"
	case errors.Is(err, store.ErrProductNotInCart):
		httpStatus = http.StatusNotFound
		code = "not_found"
	default:
		httpStatus = http.StatusBadGateway
		code = "operation_failed"
	}

	h.respondError(w, httpStatus, code, opErr.Message)
}

func (h *CartHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.WithError(err).Error("failed to encode response")
	}
}

func (h *CartHandler) respondError(w http.ResponseWriter, status int, code, message string) {
	h.respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
