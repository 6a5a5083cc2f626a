package domain

import "time"

// Pet statuses accepted by the store.
const (
	PetStatusAvailable = "available"
	PetStatusPending   = "pending"
	PetStatusSold      = "sold"
)

// ValidPetStatus reports whether s is one of the accepted pet statuses.
func ValidPetStatus(s string) bool {
	switch s {
	case PetStatusAvailable, PetStatusPending, PetStatusSold:
		return true
	}
	return false
}

type Category struct {
	ID   int64
	Name string
}

type Tag struct {
	ID   int64
	Name string
}

type Pet struct {
	ID        int64
	Name      string
	Category  *Category
	PhotoURLs []string
	Tags      []Tag
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
