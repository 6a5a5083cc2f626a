package petstore

import "time"

// Data models matching the petstore wire format. Field names follow the
// service's JSON contract (petId, photoUrls, shipDate, ...), not Go casing.

// Pet statuses accepted by the store.
const (
	PetStatusAvailable = "available"
	PetStatusPending   = "pending"
	PetStatusSold      = "sold"
)

// Order statuses reported by the store.
const (
	OrderStatusPlaced    = "placed"
	OrderStatusApproved  = "approved"
	OrderStatusDelivered = "delivered"
)

// Category groups pets.
type Category struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Tag labels pets.
type Tag struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Pet is a pet listed in the store.
type Pet struct {
	ID        int64     `json:"id,omitempty"`
	Category  *Category `json:"category,omitempty"`
	Name      string    `json:"name"`
	PhotoURLs []string  `json:"photoUrls"`
	Tags      []Tag     `json:"tags,omitempty"`
	Status    string    `json:"status,omitempty"`
}

// Order is a purchase order for a pet.
type Order struct {
	ID       int64      `json:"id,omitempty"`
	PetID    int64      `json:"petId,omitempty"`
	Quantity int32      `json:"quantity,omitempty"`
	ShipDate *time.Time `json:"shipDate,omitempty"`
	Status   string     `json:"status,omitempty"`
	Complete bool       `json:"complete,omitempty"`
}

// User is a store account.
type User struct {
	ID         int64  `json:"id,omitempty"`
	Username   string `json:"username,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Email      string `json:"email,omitempty"`
	Password   string `json:"password,omitempty"`
	Phone      string `json:"phone,omitempty"`
	UserStatus int32  `json:"userStatus,omitempty"`
}

// APIResponse is the generic status blob the service returns for operations
// without a dedicated response shape.
type APIResponse struct {
	Code    int32  `json:"code,omitempty"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message,omitempty"`
}
