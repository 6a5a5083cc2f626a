package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fourpaws/petstore/internal/petstore/domain"
	"github.com/fourpaws/petstore/internal/petstore/store"
)

type OrderService struct {
	Store store.Store
}

// PlaceOrder validates and inserts a new order. The referenced pet must
// exist.
func (s *OrderService) PlaceOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	if o.PetID == 0 {
		return domain.Order{}, fmt.Errorf("%w: pet id is required", ErrValidation)
	}
	if o.Quantity <= 0 {
		o.Quantity = 1
	}
	if o.Status == "" {
		o.Status = domain.OrderStatusPlaced
	}
	if !domain.ValidOrderStatus(o.Status) {
		return domain.Order{}, fmt.Errorf("%w: unknown order status %q", ErrValidation, o.Status)
	}

	if _, err := s.Store.Pets().GetPetByID(ctx, o.PetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Order{}, fmt.Errorf("%w: pet %d does not exist", ErrValidation, o.PetID)
		}
		return domain.Order{}, err
	}

	id, err := s.Store.Orders().CreateOrder(ctx, o)
	if err != nil {
		return domain.Order{}, err
	}
	return s.Store.Orders().GetOrderByID(ctx, id)
}

func (s *OrderService) GetOrderByID(ctx context.Context, id int64) (domain.Order, error) {
	return s.Store.Orders().GetOrderByID(ctx, id)
}

func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	return s.Store.Orders().DeleteOrder(ctx, id)
}
