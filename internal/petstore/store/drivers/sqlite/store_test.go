package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fourpaws/petstore/internal/petstore/domain"
	"github.com/fourpaws/petstore/internal/petstore/store"
	"github.com/fourpaws/petstore/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "petstore_test.db")
	s, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestPetsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Pets().CreatePet(ctx, domain.Pet{
		Name:      "rex",
		Category:  &domain.Category{ID: 1, Name: "dogs"},
		PhotoURLs: []string{"https://img.example/rex-1.jpg", "https://img.example/rex-2.jpg"},
		Tags:      []domain.Tag{{ID: 7, Name: "friendly"}},
		Status:    domain.PetStatusAvailable,
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	pet, err := s.Pets().GetPetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "rex", pet.Name)
	require.NotNil(t, pet.Category)
	require.Equal(t, "dogs", pet.Category.Name)
	require.Equal(t, []string{"https://img.example/rex-1.jpg", "https://img.example/rex-2.jpg"}, pet.PhotoURLs)
	require.Len(t, pet.Tags, 1)
	require.Equal(t, "friendly", pet.Tags[0].Name)

	pet.Name = "rexington"
	pet.Status = domain.PetStatusPending
	pet.PhotoURLs = []string{"https://img.example/rex-3.jpg"}
	pet.Tags = []domain.Tag{{ID: 7, Name: "friendly"}, {ID: 9, Name: "trained"}}
	require.NoError(t, s.Pets().UpdatePet(ctx, pet))

	got, err := s.Pets().GetPetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "rexington", got.Name)
	require.Equal(t, domain.PetStatusPending, got.Status)
	require.Equal(t, []string{"https://img.example/rex-3.jpg"}, got.PhotoURLs)
	require.Len(t, got.Tags, 2)

	require.NoError(t, s.Pets().DeletePet(ctx, id))
	_, err = s.Pets().GetPetByID(ctx, id)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPetsPartialUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Pets().CreatePet(ctx, domain.Pet{Name: "milo", Status: domain.PetStatusAvailable})
	require.NoError(t, err)

	// Empty name leaves the stored value alone.
	require.NoError(t, s.Pets().UpdatePetNameStatus(ctx, id, "", domain.PetStatusSold))

	pet, err := s.Pets().GetPetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "milo", pet.Name)
	require.Equal(t, domain.PetStatusSold, pet.Status)

	require.ErrorIs(t, s.Pets().UpdatePetNameStatus(ctx, 99999, "ghost", ""), store.ErrNotFound)
}

func TestPetsFindAndCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreate := func(name, status string, tags ...string) int64 {
		p := domain.Pet{Name: name, Status: status}
		for i, tag := range tags {
			p.Tags = append(p.Tags, domain.Tag{ID: int64(i + 1), Name: tag})
		}
		id, err := s.Pets().CreatePet(ctx, p)
		require.NoError(t, err)
		return id
	}

	mustCreate("a", domain.PetStatusAvailable, "small")
	mustCreate("b", domain.PetStatusAvailable, "small", "young")
	mustCreate("c", domain.PetStatusSold, "young")

	avail, err := s.Pets().FindPetsByStatus(ctx, []string{domain.PetStatusAvailable})
	require.NoError(t, err)
	require.Len(t, avail, 2)

	both, err := s.Pets().FindPetsByStatus(ctx, []string{domain.PetStatusAvailable, domain.PetStatusSold})
	require.NoError(t, err)
	require.Len(t, both, 3)

	none, err := s.Pets().FindPetsByStatus(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, none)

	// Pet "b" matches both tags but must appear only once.
	tagged, err := s.Pets().FindPetsByTags(ctx, []string{"small", "young"})
	require.NoError(t, err)
	require.Len(t, tagged, 3)

	counts, err := s.Pets().CountByStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, int32(2), counts[domain.PetStatusAvailable])
	require.Equal(t, int32(1), counts[domain.PetStatusSold])
}

func TestOrdersRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ship := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	id, err := s.Orders().CreateOrder(ctx, domain.Order{
		PetID:    42,
		Quantity: 2,
		ShipDate: &ship,
		Status:   domain.OrderStatusPlaced,
	})
	require.NoError(t, err)

	order, err := s.Orders().GetOrderByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, int64(42), order.PetID)
	require.Equal(t, int32(2), order.Quantity)
	require.NotNil(t, order.ShipDate)
	require.WithinDuration(t, ship, *order.ShipDate, time.Second)
	require.False(t, order.Complete)

	require.NoError(t, s.Orders().DeleteOrder(ctx, id))
	require.ErrorIs(t, s.Orders().DeleteOrder(ctx, id), store.ErrNotFound)
}

func TestOrdersNilShipDate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Orders().CreateOrder(ctx, domain.Order{PetID: 1, Quantity: 1, Status: domain.OrderStatusPlaced})
	require.NoError(t, err)

	order, err := s.Orders().GetOrderByID(ctx, id)
	require.NoError(t, err)
	require.Nil(t, order.ShipDate)
}

func TestUsersRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	id, err := s.Users().CreateUser(ctx, domain.User{
		Username:     "alice",
		FirstName:    "Alice",
		Email:        "alice@example.com",
		PasswordHash: "$argon2id$stub",
		Scopes:       []string{"read", "write"},
	})
	require.NoError(t, err)

	empty, err = s.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)

	u, err := s.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, id, u.ID)
	require.Equal(t, []string{"read", "write"}, u.Scopes)

	byID, err := s.Users().GetUserByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Username)

	_, err = s.Users().CreateUser(ctx, domain.User{Username: "alice", PasswordHash: "x"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// Empty PasswordHash keeps the stored hash.
	u.FirstName = "Alicia"
	u.PasswordHash = ""
	require.NoError(t, s.Users().UpdateUser(ctx, "alice", u))

	updated, err := s.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "Alicia", updated.FirstName)
	require.Equal(t, "$argon2id$stub", updated.PasswordHash)

	require.NoError(t, s.Users().DeleteUser(ctx, "alice"))
	require.ErrorIs(t, s.Users().DeleteUser(ctx, "alice"), store.ErrNotFound)
}

func TestRefreshTokensLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID, err := s.Users().CreateUser(ctx, domain.User{Username: "bob", PasswordHash: "x"})
	require.NoError(t, err)

	mk := func(hash string, expiresAt time.Time) domain.RefreshToken {
		return domain.RefreshToken{
			ID:        idx.New().String(),
			UserID:    userID,
			TokenHash: hash,
			Scopes:    []string{"read"},
			ExpiresAt: expiresAt,
		}
	}

	live := mk("hash-live", time.Now().Add(time.Hour))
	stale := mk("hash-stale", time.Now().Add(-time.Hour))
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, live))
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, stale))

	require.ErrorIs(t, s.RefreshTokens().CreateRefreshToken(ctx, mk("hash-live", time.Now().Add(time.Hour))), store.ErrAlreadyExists)

	got, err := s.RefreshTokens().GetRefreshTokenByHash(ctx, "hash-live")
	require.NoError(t, err)
	require.Equal(t, live.ID, got.ID)
	require.Equal(t, []string{"read"}, got.Scopes)
	require.False(t, got.Revoked)

	require.NoError(t, s.RefreshTokens().RevokeRefreshToken(ctx, "hash-live"))
	// Already revoked, so there is nothing left to revoke.
	require.ErrorIs(t, s.RefreshTokens().RevokeRefreshToken(ctx, "hash-live"), store.ErrNotFound)

	revoked, err := s.RefreshTokens().GetRefreshTokenByHash(ctx, "hash-live")
	require.NoError(t, err)
	require.True(t, revoked.Revoked)

	// Both the expired and the revoked row get pruned.
	n, err := s.RefreshTokens().DeleteExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	_, err = s.RefreshTokens().GetRefreshTokenByHash(ctx, "hash-stale")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRevokeAllForUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID, err := s.Users().CreateUser(ctx, domain.User{Username: "carol", PasswordHash: "x"})
	require.NoError(t, err)

	for _, hash := range []string{"h1", "h2"} {
		require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			ID:        idx.New().String(),
			UserID:    userID,
			TokenHash: hash,
			ExpiresAt: time.Now().Add(time.Hour),
		}))
	}

	require.NoError(t, s.RefreshTokens().RevokeAllForUser(ctx, userID))

	for _, hash := range []string{"h1", "h2"} {
		tok, err := s.RefreshTokens().GetRefreshTokenByHash(ctx, hash)
		require.NoError(t, err)
		require.True(t, tok.Revoked)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	errBoom := context.Canceled
	err := s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().CreateUser(ctx, domain.User{Username: "dave", PasswordHash: "x"})
		require.NoError(t, err)
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, err = s.Users().GetUserByUsername(ctx, "dave")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxCommits(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().CreateUser(ctx, domain.User{Username: "erin", PasswordHash: "x"})
		return err
	})
	require.NoError(t, err)

	u, err := s.Users().GetUserByUsername(ctx, "erin")
	require.NoError(t, err)
	require.Equal(t, "erin", u.Username)
}
