package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fourpaws/petstore/internal/petstore/service"
	"github.com/fourpaws/petstore/internal/petstore/store"
	"github.com/fourpaws/petstore/pkg/httpx"
	"github.com/fourpaws/petstore/pkg/slogx"
)

// OrdersHandler serves the /store/order resource.
type OrdersHandler struct {
	OrderService *service.OrderService
}

// HandlePlace serves POST /store/order.
func (h *OrdersHandler) HandlePlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var dto orderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeStatus(w, http.StatusBadRequest, "invalid order payload")
		return
	}

	order, err := h.OrderService.PlaceOrder(ctx, orderFromDTO(dto))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			writeStatus(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error("failed to place order", slogx.Err(err))
		writeStatus(w, http.StatusInternalServerError, "failed to place order")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, orderToDTO(order))
}

// HandleGet serves GET /store/order/{orderId}.
func (h *OrdersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := pathID(w, r, "orderId")
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeStatus(w, http.StatusNotFound, "order not found")
			return
		}
		log.Error("failed to load order", slogx.OrderID(id), slogx.Err(err))
		writeStatus(w, http.StatusInternalServerError, "failed to load order")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, orderToDTO(order))
}

// HandleDelete serves DELETE /store/order/{orderId}.
func (h *OrdersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := pathID(w, r, "orderId")
	if !ok {
		return
	}

	if err := h.OrderService.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeStatus(w, http.StatusNotFound, "order not found")
			return
		}
		log.Error("failed to delete order", slogx.OrderID(id), slogx.Err(err))
		writeStatus(w, http.StatusInternalServerError, "failed to delete order")
		return
	}

	writeStatus(w, http.StatusOK, strconv.FormatInt(id, 10))
}

// InventoryHandler serves GET /store/inventory, returning pet counts keyed
// by status.
type InventoryHandler struct {
	PetService *service.PetService
}

func (h *InventoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	counts, err := h.PetService.Inventory(ctx)
	if err != nil {
		log.Error("failed to load inventory", slogx.Err(err))
		writeStatus(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, counts)
}
