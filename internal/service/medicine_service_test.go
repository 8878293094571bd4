package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medmarket/internal/auth"
	"medmarket/internal/entity"
	"medmarket/internal/repository"
)

func TestMedicineCreate(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	seller := e.seller(t, "seller@pharma.com")
	buyer := e.buyer(t, "buyer@mail.com")

	expiry := "2027-01-01"
	m, err := e.medicine.Create(ctx, seller, &entity.Medicine{
		Name:       "Aspirin",
		Price:      decimal.RequireFromString("10.00"),
		Stock:      5,
		ExpiryDate: &expiry,
	})
	require.NoError(t, err)
	assert.Equal(t, seller.UserID, m.UserID, "ownership comes from the token, not the payload")

	var deny *auth.DenyError
	_, err = e.medicine.Create(ctx, buyer, &entity.Medicine{Name: "X", Stock: 1})
	assert.True(t, errors.As(err, &deny))

	_, err = e.medicine.Create(ctx, seller, &entity.Medicine{Name: ""})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = e.medicine.Create(ctx, seller, &entity.Medicine{Name: "X", Price: decimal.RequireFromString("-1")})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = e.medicine.Create(ctx, seller, &entity.Medicine{Name: "X", Stock: -1})
	assert.ErrorIs(t, err, ErrInvalidStock)
}

func TestMedicineList(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	seller := e.seller(t, "seller@pharma.com")
	e.medicineFor(t, seller, "Aspirin", "10.00", 5)
	e.medicineFor(t, seller, "Ibuprofen", "8.25", 2)

	list, err := e.medicine.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestMedicineGetByID(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	seller := e.seller(t, "seller@pharma.com")
	buyer := e.buyer(t, "buyer@mail.com")
	m := e.medicineFor(t, seller, "Aspirin", "10.00", 5)

	got, err := e.medicine.GetByID(ctx, seller, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Aspirin", got.Name)

	var deny *auth.DenyError
	_, err = e.medicine.GetByID(ctx, buyer, m.ID)
	assert.True(t, errors.As(err, &deny))

	_, err = e.medicine.GetByID(ctx, seller, 9999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMedicineUpdate(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	seller := e.seller(t, "seller@pharma.com")
	rival := e.seller(t, "rival@pharma.com")
	admin := e.admin(t, "admin@mail.com")
	m := e.medicineFor(t, seller, "Aspirin", "10.00", 5)

	newStock := 7
	require.NoError(t, e.medicine.Update(ctx, seller, m.ID, entity.MedicineUpdate{Stock: &newStock}))

	got, err := e.medicine.GetByID(ctx, seller, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)
	assert.Equal(t, "Aspirin", got.Name, "untouched fields survive a partial update")

	// another seller may not touch it, admin may
	var deny *auth.DenyError
	err = e.medicine.Update(ctx, rival, m.ID, entity.MedicineUpdate{Stock: &newStock})
	require.True(t, errors.As(err, &deny))
	assert.Equal(t, auth.ReasonNotOwner, deny.Reason)

	name := "Aspirin Forte"
	require.NoError(t, e.medicine.Update(ctx, admin, m.ID, entity.MedicineUpdate{Name: &name}))

	assert.ErrorIs(t, e.medicine.Update(ctx, seller, m.ID, entity.MedicineUpdate{}), ErrEmptyUpdate)

	bad := decimal.RequireFromString("-2")
	assert.ErrorIs(t, e.medicine.Update(ctx, seller, m.ID, entity.MedicineUpdate{Price: &bad}), ErrInvalidPrice)

	negStock := -1
	assert.ErrorIs(t, e.medicine.Update(ctx, seller, m.ID, entity.MedicineUpdate{Stock: &negStock}), ErrInvalidStock)

	assert.ErrorIs(t, e.medicine.Update(ctx, seller, 9999, entity.MedicineUpdate{Stock: &newStock}), repository.ErrNotFound)
}

func TestMedicineDelete(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	seller := e.seller(t, "seller@pharma.com")
	rival := e.seller(t, "rival@pharma.com")
	m := e.medicineFor(t, seller, "Aspirin", "10.00", 5)

	var deny *auth.DenyError
	err := e.medicine.Delete(ctx, rival, m.ID)
	require.True(t, errors.As(err, &deny))
	assert.Equal(t, auth.ReasonNotOwner, deny.Reason)

	require.NoError(t, e.medicine.Delete(ctx, seller, m.ID))

	_, err = e.medicine.GetByID(ctx, seller, m.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
