package http

import (
	"net/http"
	"time"

	"github.com/fourpaws/petstore/internal/petstore/domain"
	"github.com/fourpaws/petstore/pkg/httpx"
)

// Wire DTOs for the JSON contract (petId, photoUrls, shipDate, ...). The
// domain types stay free of serialization concerns.

type categoryDTO struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type tagDTO struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type petDTO struct {
	ID        int64        `json:"id,omitempty"`
	Category  *categoryDTO `json:"category,omitempty"`
	Name      string       `json:"name"`
	PhotoURLs []string     `json:"photoUrls"`
	Tags      []tagDTO     `json:"tags,omitempty"`
	Status    string       `json:"status,omitempty"`
}

type orderDTO struct {
	ID       int64      `json:"id,omitempty"`
	PetID    int64      `json:"petId,omitempty"`
	Quantity int32      `json:"quantity,omitempty"`
	ShipDate *time.Time `json:"shipDate,omitempty"`
	Status   string     `json:"status,omitempty"`
	Complete bool       `json:"complete,omitempty"`
}

type userDTO struct {
	ID         int64  `json:"id,omitempty"`
	Username   string `json:"username,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Email      string `json:"email,omitempty"`
	Password   string `json:"password,omitempty"`
	Phone      string `json:"phone,omitempty"`
	UserStatus int32  `json:"userStatus,omitempty"`
}

type apiResponse struct {
	Code    int32  `json:"code,omitempty"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message,omitempty"`
}

func petToDTO(p domain.Pet) petDTO {
	dto := petDTO{
		ID:        p.ID,
		Name:      p.Name,
		PhotoURLs: p.PhotoURLs,
		Status:    p.Status,
	}
	if dto.PhotoURLs == nil {
		dto.PhotoURLs = []string{}
	}
	if p.Category != nil {
		dto.Category = &categoryDTO{ID: p.Category.ID, Name: p.Category.Name}
	}
	for _, t := range p.Tags {
		dto.Tags = append(dto.Tags, tagDTO{ID: t.ID, Name: t.Name})
	}
	return dto
}

func petFromDTO(dto petDTO) domain.Pet {
	p := domain.Pet{
		ID:        dto.ID,
		Name:      dto.Name,
		PhotoURLs: dto.PhotoURLs,
		Status:    dto.Status,
	}
	if dto.Category != nil {
		p.Category = &domain.Category{ID: dto.Category.ID, Name: dto.Category.Name}
	}
	for _, t := range dto.Tags {
		p.Tags = append(p.Tags, domain.Tag{ID: t.ID, Name: t.Name})
	}
	return p
}

func orderToDTO(o domain.Order) orderDTO {
	return orderDTO{
		ID:       o.ID,
		PetID:    o.PetID,
		Quantity: o.Quantity,
		ShipDate: o.ShipDate,
		Status:   o.Status,
		Complete: o.Complete,
	}
}

func orderFromDTO(dto orderDTO) domain.Order {
	return domain.Order{
		ID:       dto.ID,
		PetID:    dto.PetID,
		Quantity: dto.Quantity,
		ShipDate: dto.ShipDate,
		Status:   dto.Status,
		Complete: dto.Complete,
	}
}

func userToDTO(u domain.User) userDTO {
	// PasswordHash never leaves the service.
	return userDTO{
		ID:         u.ID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Phone:      u.Phone,
		UserStatus: u.UserStatus,
	}
}

func userFromDTO(dto userDTO) domain.User {
	return domain.User{
		ID:         dto.ID,
		Username:   dto.Username,
		FirstName:  dto.FirstName,
		LastName:   dto.LastName,
		Email:      dto.Email,
		Phone:      dto.Phone,
		UserStatus: dto.UserStatus,
	}
}

func writeStatus(w http.ResponseWriter, code int, message string) {
	kind := "error"
	if code < http.StatusBadRequest {
		kind = "unknown"
	}
	httpx.WriteJSON(w, code, apiResponse{
		Code:    int32(code),
		Type:    kind,
		Message: message,
	})
}
