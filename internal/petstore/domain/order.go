package domain

import "time"

// Order statuses reported by the store.
const (
	OrderStatusPlaced    = "placed"
	OrderStatusApproved  = "approved"
	OrderStatusDelivered = "delivered"
)

// ValidOrderStatus reports whether s is one of the accepted order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPlaced, OrderStatusApproved, OrderStatusDelivered:
		return true
	}
	return false
}

type Order struct {
	ID        int64
	PetID     int64
	Quantity  int32
	ShipDate  *time.Time
	Status    string
	Complete  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
