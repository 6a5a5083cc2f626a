package petstore

import (
	"context"
	"net/http"
	"strconv"
)

// ============================================================================
// Store Operations
// ============================================================================

// PlaceOrder places an order for a pet and returns the stored record.
func (c *Client) PlaceOrder(ctx context.Context, order Order) (Order, error) {
	return request[Order](ctx, c, http.MethodPost, "/store/order", WithJSON(order))
}

// GetOrderByID fetches a single order.
func (c *Client) GetOrderByID(ctx context.Context, orderID int64) (Order, error) {
	return request[Order](ctx, c, http.MethodGet, "/store/order/{orderId}",
		WithPathParam("orderId", strconv.FormatInt(orderID, 10)),
	)
}

// DeleteOrder cancels an order.
func (c *Client) DeleteOrder(ctx context.Context, orderID int64) error {
	return requestNoContent(ctx, c, http.MethodDelete, "/store/order/{orderId}",
		WithPathParam("orderId", strconv.FormatInt(orderID, 10)),
	)
}

// GetInventory returns pet counts keyed by status.
func (c *Client) GetInventory(ctx context.Context) (map[string]int32, error) {
	return request[map[string]int32](ctx, c, http.MethodGet, "/store/inventory")
}
