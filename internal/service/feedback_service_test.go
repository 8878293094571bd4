package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medmarket/internal/auth"
	"medmarket/internal/entity"
	"medmarket/internal/repository"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// placeOrder runs a one-item checkout so order feedback has a target.
func placeOrder(t *testing.T, e *env, buyer auth.Principal) *entity.Order {
	t.Helper()
	ctx := context.Background()
	seller := e.seller(t, "pharma@mail.com")
	m := e.medicineFor(t, seller, "Aspirin", "10.00", 10)
	_, err := e.cart.Add(ctx, buyer, m.ID, 1)
	require.NoError(t, err)
	order, err := e.checkout.Checkout(ctx, buyer, testAddress, "")
	require.NoError(t, err)
	return order
}

func TestAddMedicineFeedback(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	seller := e.seller(t, "seller@pharma.com")
	buyer := e.buyer(t, "buyer@mail.com")
	m := e.medicineFor(t, seller, "Aspirin", "10.00", 5)

	f, err := e.feedback.AddMedicineFeedback(ctx, buyer, m.ID, 4, strPtr("works"))
	require.NoError(t, err)
	assert.Equal(t, 4, f.Rating)
	assert.Equal(t, buyer.UserID, f.UserID)

	_, err = e.feedback.AddMedicineFeedback(ctx, buyer, m.ID, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = e.feedback.AddMedicineFeedback(ctx, buyer, m.ID, 6, nil)
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = e.feedback.AddMedicineFeedback(ctx, buyer, 9999, 3, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	var deny *auth.DenyError
	_, err = e.feedback.AddMedicineFeedback(ctx, seller, m.ID, 3, nil)
	assert.True(t, errors.As(err, &deny))

	all, err := e.feedback.ListMedicineFeedback(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAddOrderFeedback(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	buyer := e.buyer(t, "buyer@mail.com")
	other := e.buyer(t, "other@mail.com")
	order := placeOrder(t, e, buyer)

	f, err := e.feedback.AddOrderFeedback(ctx, buyer, order.ID, 5, 3, strPtr("late but intact"))
	require.NoError(t, err)
	assert.Equal(t, 5, f.OrderQuality)
	assert.Equal(t, 3, f.DeliveryRating)

	// only the order's owner may rate it
	var deny *auth.DenyError
	_, err = e.feedback.AddOrderFeedback(ctx, other, order.ID, 4, 4, nil)
	require.True(t, errors.As(err, &deny))
	assert.Equal(t, auth.ReasonNotOwner, deny.Reason)

	_, err = e.feedback.AddOrderFeedback(ctx, buyer, 9999, 4, 4, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = e.feedback.AddOrderFeedback(ctx, buyer, order.ID, 0, 4, nil)
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = e.feedback.AddOrderFeedback(ctx, buyer, order.ID, 4, 9, nil)
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestOrderFeedbackReadAndUpdate(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	buyer := e.buyer(t, "buyer@mail.com")
	other := e.buyer(t, "other@mail.com")
	admin := e.admin(t, "admin@mail.com")
	order := placeOrder(t, e, buyer)

	f, err := e.feedback.AddOrderFeedback(ctx, buyer, order.ID, 4, 4, nil)
	require.NoError(t, err)

	mine, err := e.feedback.MyOrderFeedback(ctx, buyer)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := e.feedback.MyOrderFeedback(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	got, err := e.feedback.GetOrderFeedback(ctx, buyer, f.ID)
	require.NoError(t, err)
	assert.Equal(t, f.ID, got.ID)

	var deny *auth.DenyError
	_, err = e.feedback.GetOrderFeedback(ctx, other, f.ID)
	assert.True(t, errors.As(err, &deny))

	_, err = e.feedback.GetOrderFeedback(ctx, admin, f.ID)
	assert.NoError(t, err)

	updated, err := e.feedback.UpdateOrderFeedback(ctx, buyer, f.ID, intPtr(2), nil, strPtr("broke after a week"))
	require.NoError(t, err)
	assert.Equal(t, 2, updated.OrderQuality)
	assert.Equal(t, 4, updated.DeliveryRating, "unset fields keep their value")

	_, err = e.feedback.UpdateOrderFeedback(ctx, buyer, f.ID, nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyUpdate)

	_, err = e.feedback.UpdateOrderFeedback(ctx, buyer, f.ID, intPtr(0), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = e.feedback.UpdateOrderFeedback(ctx, other, f.ID, intPtr(3), nil, nil)
	assert.True(t, errors.As(err, &deny))

	_, err = e.feedback.UpdateOrderFeedback(ctx, buyer, 9999, intPtr(3), nil, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
