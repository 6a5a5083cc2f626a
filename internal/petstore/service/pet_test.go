package service

import (
	"context"
	"testing"

	"github.com/fourpaws/petstore/internal/petstore/domain"
	"github.com/fourpaws/petstore/internal/petstore/store"
	"github.com/stretchr/testify/require"
)

func TestPetServiceAddPet(t *testing.T) {
	ctx := context.Background()
	svc := &PetService{Store: newServiceStore(t)}

	t.Run("defaults status to available", func(t *testing.T) {
		pet, err := svc.AddPet(ctx, domain.Pet{Name: "rex"})
		require.NoError(t, err)
		require.NotZero(t, pet.ID)
		require.Equal(t, domain.PetStatusAvailable, pet.Status)
	})

	t.Run("requires a name", func(t *testing.T) {
		_, err := svc.AddPet(ctx, domain.Pet{})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := svc.AddPet(ctx, domain.Pet{Name: "milo", Status: "hibernating"})
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestPetServiceUpdate(t *testing.T) {
	ctx := context.Background()
	svc := &PetService{Store: newServiceStore(t)}

	pet, err := svc.AddPet(ctx, domain.Pet{Name: "rex"})
	require.NoError(t, err)

	pet.Name = "rexington"
	pet.Status = domain.PetStatusSold
	updated, err := svc.UpdatePet(ctx, pet)
	require.NoError(t, err)
	require.Equal(t, "rexington", updated.Name)
	require.Equal(t, domain.PetStatusSold, updated.Status)

	t.Run("missing pet", func(t *testing.T) {
		ghost := pet
		ghost.ID = 99999
		_, err := svc.UpdatePet(ctx, ghost)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("form update validates status", func(t *testing.T) {
		require.ErrorIs(t, svc.UpdatePetWithForm(ctx, pet.ID, "", "asleep"), ErrValidation)
		require.NoError(t, svc.UpdatePetWithForm(ctx, pet.ID, "", domain.PetStatusPending))

		got, err := svc.GetPetByID(ctx, pet.ID)
		require.NoError(t, err)
		require.Equal(t, domain.PetStatusPending, got.Status)
		require.Equal(t, "rexington", got.Name)
	})
}

func TestPetServiceAttachPhoto(t *testing.T) {
	ctx := context.Background()
	svc := &PetService{Store: newServiceStore(t)}

	pet, err := svc.AddPet(ctx, domain.Pet{Name: "rex", PhotoURLs: []string{"rex-1.jpg"}})
	require.NoError(t, err)

	updated, err := svc.AttachPhoto(ctx, pet.ID, "rex-2.jpg")
	require.NoError(t, err)
	require.Equal(t, []string{"rex-1.jpg", "rex-2.jpg"}, updated.PhotoURLs)

	_, err = svc.AttachPhoto(ctx, pet.ID, "")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.AttachPhoto(ctx, 99999, "ghost.jpg")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPetServiceFindByStatus(t *testing.T) {
	ctx := context.Background()
	svc := &PetService{Store: newServiceStore(t)}

	_, err := svc.AddPet(ctx, domain.Pet{Name: "a", Status: domain.PetStatusAvailable})
	require.NoError(t, err)
	_, err = svc.AddPet(ctx, domain.Pet{Name: "b", Status: domain.PetStatusSold})
	require.NoError(t, err)

	pets, err := svc.FindPetsByStatus(ctx, []string{domain.PetStatusAvailable})
	require.NoError(t, err)
	require.Len(t, pets, 1)

	_, err = svc.FindPetsByStatus(ctx, []string{"bogus"})
	require.ErrorIs(t, err, ErrValidation)

	inv, err := svc.Inventory(ctx)
	require.NoError(t, err)
	require.Equal(t, int32(1), inv[domain.PetStatusAvailable])
	require.Equal(t, int32(1), inv[domain.PetStatusSold])
}

func TestOrderService(t *testing.T) {
	ctx := context.Background()
	st := newServiceStore(t)
	pets := &PetService{Store: st}
	orders := &OrderService{Store: st}

	pet, err := pets.AddPet(ctx, domain.Pet{Name: "rex"})
	require.NoError(t, err)

	t.Run("place and fetch", func(t *testing.T) {
		order, err := orders.PlaceOrder(ctx, domain.Order{PetID: pet.ID, Quantity: 2})
		require.NoError(t, err)
		require.NotZero(t, order.ID)
		require.Equal(t, domain.OrderStatusPlaced, order.Status)

		got, err := orders.GetOrderByID(ctx, order.ID)
		require.NoError(t, err)
		require.Equal(t, pet.ID, got.PetID)

		require.NoError(t, orders.DeleteOrder(ctx, order.ID))
		_, err = orders.GetOrderByID(ctx, order.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("quantity defaults to one", func(t *testing.T) {
		order, err := orders.PlaceOrder(ctx, domain.Order{PetID: pet.ID})
		require.NoError(t, err)
		require.Equal(t, int32(1), order.Quantity)
	})

	t.Run("pet must exist", func(t *testing.T) {
		_, err := orders.PlaceOrder(ctx, domain.Order{PetID: 99999})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := orders.PlaceOrder(ctx, domain.Order{PetID: pet.ID, Status: "teleported"})
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	svc := &UserService{Store: newServiceStore(t)}

	u, err := svc.Register(ctx, domain.User{Username: "alice", Email: "alice@example.com"}, "hunter2")
	require.NoError(t, err)
	require.NotZero(t, u.ID)
	require.NotEmpty(t, u.PasswordHash)
	require.NotEqual(t, "hunter2", u.PasswordHash)
	require.Equal(t, DefaultUserScopes, u.Scopes)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, domain.User{Username: "alice"}, "pw")
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("verify credentials", func(t *testing.T) {
		got, err := svc.VerifyCredentials(ctx, "alice", "hunter2")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)

		_, err = svc.VerifyCredentials(ctx, "alice", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = svc.VerifyCredentials(ctx, "nobody", "hunter2")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("update keeps password when empty", func(t *testing.T) {
		u.FirstName = "Alicia"
		require.NoError(t, svc.UpdateUser(ctx, "alice", u, ""))

		got, err := svc.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, "Alicia", got.FirstName)

		_, err = svc.VerifyCredentials(ctx, "alice", "hunter2")
		require.NoError(t, err)
	})

	t.Run("update can rotate password", func(t *testing.T) {
		require.NoError(t, svc.UpdateUser(ctx, "alice", u, "correct horse"))

		_, err := svc.VerifyCredentials(ctx, "alice", "correct horse")
		require.NoError(t, err)
		_, err = svc.VerifyCredentials(ctx, "alice", "hunter2")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteUser(ctx, "alice"))
		_, err := svc.GetUserByUsername(ctx, "alice")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
