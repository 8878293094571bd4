package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medmarket/internal/entity"
	"medmarket/internal/repository"
)

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	seller := e.seller(t, "seller@pharma.com")
	buyer := e.buyer(t, "buyer@mail.com")

	aspirin := e.medicineFor(t, seller, "Aspirin", "10.00", 5)
	sirup := e.medicineFor(t, seller, "Cough Sirup", "5.50", 3)

	_, err := e.cart.Add(ctx, buyer, aspirin.ID, 2)
	require.NoError(t, err)
	_, err = e.cart.Add(ctx, buyer, sirup.ID, 1)
	require.NoError(t, err)

	order, err := e.checkout.Checkout(ctx, buyer, testAddress, "")
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.NotEmpty(t, order.OrderNumber)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("25.50")), "got total %s", order.TotalPrice)
	require.Len(t, order.Items, 2)

	// the snapshot carries the price at checkout time
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, 2, order.Items[0].Quantity)

	// cart cleared, stock reserved
	lines, err := e.cart.MyCart(ctx, buyer)
	require.NoError(t, err)
	assert.Empty(t, lines)

	m, err := e.store.Medicines().GetByID(ctx, aspirin.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Stock)
	m, err = e.store.Medicines().GetByID(ctx, sirup.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Stock)

	// address written and bound to the order
	addr, err := e.store.Addresses().GetByID(ctx, order.AddressID)
	require.NoError(t, err)
	assert.Equal(t, buyer.UserID, addr.UserID)
	assert.Equal(t, "12 Nile St", addr.Street)
}

func TestCheckoutEmptyCart(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	buyer := e.buyer(t, "buyer@mail.com")

	_, err := e.checkout.Checkout(ctx, buyer, testAddress, "")
	assert.ErrorIs(t, err, ErrEmptyCart)

	// nothing leaks out of the rolled-back transaction
	addrs, err := e.users.ListAddresses(ctx, buyer)
	require.NoError(t, err)
	assert.Empty(t, addrs)

	orders, err := e.checkout.MyOrders(ctx, buyer)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCheckoutSecondRunSeesEmptyCart(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	seller := e.seller(t, "seller@pharma.com")
	buyer := e.buyer(t, "buyer@mail.com")
	m := e.medicineFor(t, seller, "Aspirin", "10.00", 5)

	_, err := e.cart.Add(ctx, buyer, m.ID, 1)
	require.NoError(t, err)

	_, err = e.checkout.Checkout(ctx, buyer, testAddress, "")
	require.NoError(t, err)

	_, err = e.checkout.Checkout(ctx, buyer, testAddress, "")
	assert.ErrorIs(t, err, ErrEmptyCart)

	orders, err := e.checkout.MyOrders(ctx, buyer)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	seller := e.seller(t, "seller@pharma.com")
	buyer := e.buyer(t, "buyer@mail.com")

	aspirin := e.medicineFor(t, seller, "Aspirin", "10.00", 5)
	sirup := e.medicineFor(t, seller, "Cough Sirup", "5.50", 3)

	_, err := e.cart.Add(ctx, buyer, aspirin.ID, 2)
	require.NoError(t, err)
	_, err = e.cart.Add(ctx, buyer, sirup.ID, 3)
	require.NoError(t, err)

	// another buyer drains the sirup stock between add and checkout
	rival := e.buyer(t, "rival@mail.com")
	_, err = e.cart.Add(ctx, rival, sirup.ID, 3)
	require.NoError(t, err)
	_, err = e.checkout.Checkout(ctx, rival, testAddress, "")
	require.NoError(t, err)

	_, err = e.checkout.Checkout(ctx, buyer, testAddress, "")
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)

	// the aspirin reservation made before the failure is rolled back
	m, err := e.store.Medicines().GetByID(ctx, aspirin.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, m.Stock)

	// the cart is intact so the buyer can adjust and retry
	lines, err := e.cart.MyCart(ctx, buyer)
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	orders, err := e.checkout.MyOrders(ctx, buyer)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCheckoutValidation(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	buyer := e.buyer(t, "buyer@mail.com")
	seller := e.seller(t, "seller@pharma.com")

	_, err := e.checkout.Checkout(ctx, buyer, AddressInput{Street: "x"}, "")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = e.checkout.Checkout(ctx, seller, testAddress, "")
	assert.Error(t, err, "sellers have no cart to check out")
}

func TestCheckoutSnapshotSurvivesPriceChange(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	seller := e.seller(t, "seller@pharma.com")
	buyer := e.buyer(t, "buyer@mail.com")
	m := e.medicineFor(t, seller, "Aspirin", "10.00", 5)

	_, err := e.cart.Add(ctx, buyer, m.ID, 1)
	require.NoError(t, err)
	order, err := e.checkout.Checkout(ctx, buyer, testAddress, "")
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("99.99")
	require.NoError(t, e.medicine.Update(ctx, seller, m.ID, entity.MedicineUpdate{Price: &newPrice}))

	got, err := e.checkout.GetOrder(ctx, buyer, order.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalPrice.Equal(decimal.RequireFromString("10.00")))
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
}

func TestGetOrderOwnership(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	seller := e.seller(t, "seller@pharma.com")
	buyer := e.buyer(t, "buyer@mail.com")
	other := e.buyer(t, "other@mail.com")
	admin := e.admin(t, "admin@mail.com")
	m := e.medicineFor(t, seller, "Aspirin", "10.00", 5)

	_, err := e.cart.Add(ctx, buyer, m.ID, 1)
	require.NoError(t, err)
	order, err := e.checkout.Checkout(ctx, buyer, testAddress, "")
	require.NoError(t, err)

	_, err = e.checkout.GetOrder(ctx, buyer, order.ID)
	assert.NoError(t, err)
	_, err = e.checkout.GetOrder(ctx, admin, order.ID)
	assert.NoError(t, err)

	_, err = e.checkout.GetOrder(ctx, other, order.ID)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound, "denial is distinct from not found at this layer")

	_, err = e.checkout.GetOrder(ctx, buyer, 9999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	seller := e.seller(t, "seller@pharma.com")
	buyer := e.buyer(t, "buyer@mail.com")
	m := e.medicineFor(t, seller, "Aspirin", "10.00", 5)

	_, err := e.cart.Add(ctx, buyer, m.ID, 2)
	require.NoError(t, err)
	order, err := e.checkout.Checkout(ctx, buyer, testAddress, "")
	require.NoError(t, err)

	updated, err := e.checkout.UpdateStatus(ctx, order.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusConfirmed, updated.Status)

	// backwards and skipping moves are rejected
	_, err = e.checkout.UpdateStatus(ctx, order.ID, "pending")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = e.checkout.UpdateStatus(ctx, order.ID, "delivered")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = e.checkout.UpdateStatus(ctx, order.ID, "returned")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = e.checkout.UpdateStatus(ctx, 9999, "confirmed")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = e.checkout.UpdateStatus(ctx, order.ID, "shipped")
	require.NoError(t, err)
	_, err = e.checkout.UpdateStatus(ctx, order.ID, "delivered")
	require.NoError(t, err)

	_, err = e.checkout.UpdateStatus(ctx, order.ID, "cancelled")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelRestoresStock(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	seller := e.seller(t, "seller@pharma.com")
	buyer := e.buyer(t, "buyer@mail.com")
	m := e.medicineFor(t, seller, "Aspirin", "10.00", 5)

	_, err := e.cart.Add(ctx, buyer, m.ID, 3)
	require.NoError(t, err)
	order, err := e.checkout.Checkout(ctx, buyer, testAddress, "")
	require.NoError(t, err)

	got, err := e.store.Medicines().GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)

	_, err = e.checkout.UpdateStatus(ctx, order.ID, "cancelled")
	require.NoError(t, err)

	got, err = e.store.Medicines().GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
}
