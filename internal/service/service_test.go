package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"medmarket/internal/auth"
	"medmarket/internal/entity"
	"medmarket/internal/repository"
)

const testTokenTTL = time.Hour

// env bundles every service over a shared in-memory store. Kafka and
// redis are nil: events and the idempotency guard are off in tests.
type env struct {
	store    *repository.MemoryStore
	auth     *AuthService
	users    *UserService
	medicine *MedicineService
	cart     *CartService
	checkout *CheckoutService
	feedback *FeedbackService
	codec    *auth.TokenCodec
}

func setup(t *testing.T) *env {
	t.Helper()
	store := repository.NewMemoryStore()
	codec := auth.NewTokenCodec("test-secret", testTokenTTL)
	return &env{
		store:    store,
		auth:     NewAuthService(store.Users(), codec),
		users:    NewUserService(store.Users(), store.Addresses()),
		medicine: NewMedicineService(store.Medicines(), nil),
		cart:     NewCartService(store.Carts(), store.Medicines()),
		checkout: NewCheckoutService(store.Orders(), store.Carts(), store.Addresses(), store.Medicines(), store.Tx(), nil, nil),
		feedback: NewFeedbackService(store.Feedback(), store.Medicines(), store.Orders()),
		codec:    codec,
	}
}

// seller registers a seller and returns its principal.
func (e *env) seller(t *testing.T, email string) auth.Principal {
	t.Helper()
	_, u, err := e.auth.Signup(context.Background(), "Seller", email, "password", "seller")
	require.NoError(t, err)
	return auth.Principal{UserID: u.ID, Role: u.Role}
}

func (e *env) buyer(t *testing.T, email string) auth.Principal {
	t.Helper()
	_, u, err := e.auth.Signup(context.Background(), "Buyer", email, "password", "buyer")
	require.NoError(t, err)
	return auth.Principal{UserID: u.ID, Role: u.Role}
}

func (e *env) admin(t *testing.T, email string) auth.Principal {
	t.Helper()
	_, u, err := e.auth.Signup(context.Background(), "Admin", email, "password", "admin")
	require.NoError(t, err)
	return auth.Principal{UserID: u.ID, Role: u.Role}
}

// medicineFor creates a catalog entry owned by the seller.
func (e *env) medicineFor(t *testing.T, seller auth.Principal, name, price string, stock int) *entity.Medicine {
	t.Helper()
	m, err := e.medicine.Create(context.Background(), seller, &entity.Medicine{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	})
	require.NoError(t, err)
	return m
}

var testAddress = AddressInput{Street: "12 Nile St", Building: "4", Floor: "2", Apartment: "8"}
