package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fourpaws/petstore/internal/petstore/domain"
	"github.com/fourpaws/petstore/internal/petstore/store"
)

var ErrValidation = errors.New("validation failed")

type PetService struct {
	Store store.Store
}

// AddPet validates and inserts a new pet, returning it with its assigned id.
func (s *PetService) AddPet(ctx context.Context, p domain.Pet) (domain.Pet, error) {
	if p.Name == "" {
		return domain.Pet{}, fmt.Errorf("%w: pet name is required", ErrValidation)
	}
	if p.Status == "" {
		p.Status = domain.PetStatusAvailable
	}
	if !domain.ValidPetStatus(p.Status) {
		return domain.Pet{}, fmt.Errorf("%w: unknown pet status %q", ErrValidation, p.Status)
	}

	id, err := s.Store.Pets().CreatePet(ctx, p)
	if err != nil {
		return domain.Pet{}, err
	}
	return s.Store.Pets().GetPetByID(ctx, id)
}

// UpdatePet replaces an existing pet wholesale.
func (s *PetService) UpdatePet(ctx context.Context, p domain.Pet) (domain.Pet, error) {
	if p.ID == 0 {
		return domain.Pet{}, fmt.Errorf("%w: pet id is required", ErrValidation)
	}
	if p.Name == "" {
		return domain.Pet{}, fmt.Errorf("%w: pet name is required", ErrValidation)
	}
	if p.Status != "" && !domain.ValidPetStatus(p.Status) {
		return domain.Pet{}, fmt.Errorf("%w: unknown pet status %q", ErrValidation, p.Status)
	}

	if err := s.Store.Pets().UpdatePet(ctx, p); err != nil {
		return domain.Pet{}, err
	}
	return s.Store.Pets().GetPetByID(ctx, p.ID)
}

// UpdatePetWithForm applies a partial name/status update. Empty fields are
// left unchanged.
func (s *PetService) UpdatePetWithForm(ctx context.Context, id int64, name, status string) error {
	if status != "" && !domain.ValidPetStatus(status) {
		return fmt.Errorf("%w: unknown pet status %q", ErrValidation, status)
	}
	return s.Store.Pets().UpdatePetNameStatus(ctx, id, name, status)
}

func (s *PetService) GetPetByID(ctx context.Context, id int64) (domain.Pet, error) {
	return s.Store.Pets().GetPetByID(ctx, id)
}

func (s *PetService) DeletePet(ctx context.Context, id int64) error {
	return s.Store.Pets().DeletePet(ctx, id)
}

// AttachPhoto appends a photo reference to an existing pet's photoUrls and
// returns the updated record.
func (s *PetService) AttachPhoto(ctx context.Context, id int64, ref string) (domain.Pet, error) {
	if ref == "" {
		return domain.Pet{}, fmt.Errorf("%w: photo reference is required", ErrValidation)
	}

	pet, err := s.Store.Pets().GetPetByID(ctx, id)
	if err != nil {
		return domain.Pet{}, err
	}

	pet.PhotoURLs = append(pet.PhotoURLs, ref)
	if err := s.Store.Pets().UpdatePet(ctx, pet); err != nil {
		return domain.Pet{}, err
	}
	return s.Store.Pets().GetPetByID(ctx, id)
}

// FindPetsByStatus returns pets matching any of the given statuses. Every
// status must be one of the known values.
func (s *PetService) FindPetsByStatus(ctx context.Context, statuses []string) ([]domain.Pet, error) {
	for _, st := range statuses {
		if !domain.ValidPetStatus(st) {
			return nil, fmt.Errorf("%w: unknown pet status %q", ErrValidation, st)
		}
	}
	return s.Store.Pets().FindPetsByStatus(ctx, statuses)
}

func (s *PetService) FindPetsByTags(ctx context.Context, tags []string) ([]domain.Pet, error) {
	return s.Store.Pets().FindPetsByTags(ctx, tags)
}

// Inventory returns pet counts keyed by status.
func (s *PetService) Inventory(ctx context.Context) (map[string]int32, error) {
	return s.Store.Pets().CountByStatus(ctx)
}
