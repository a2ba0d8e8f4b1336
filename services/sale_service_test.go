package services

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sareeledger-backend/models"
)

func TestFormValue_AcceptsNumbersStringsAndNull(t *testing.T) {
	var in SaleInput
	require.NoError(t, json.Unmarshal([]byte(`{"sareePrice": 2000, "quantity": "2", "tips": null, "commission": " 15.5 "}`), &in))
	assert.Equal(t, "2000", in.SareePrice.String())
	assert.Equal(t, "2", in.Quantity.String())
	assert.Equal(t, "", in.Tips.String())
	assert.True(t, in.Commission.OrZero().Equal(decimal.RequireFromString("15.5")))
}

func TestSaleInputNormalize_FirstViolationWins(t *testing.T) {
	cases := []struct {
		name string
		in   SaleInput
		msg  string
	}{
		{"missing price", SaleInput{Quantity: "abc"}, "Enter a valid price."},
		{"zero price", SaleInput{SareePrice: "0", Quantity: "1"}, "Enter a valid price."},
		{"negative price", SaleInput{SareePrice: "-5", Quantity: "1"}, "Enter a valid price."},
		{"text price", SaleInput{SareePrice: "two", Quantity: "1"}, "Enter a valid price."},
		{"zero quantity", SaleInput{SareePrice: "100", Quantity: "0"}, "Enter a valid quantity."},
		{"fractional quantity", SaleInput{SareePrice: "100", Quantity: "1.5"}, "Enter a valid quantity."},
		{"bad customer", SaleInput{SareePrice: "100", Quantity: "1", CustomerID: "nope"}, "Select a valid customer."},
		{"bad payment", SaleInput{SareePrice: "100", Quantity: "1", PaymentMode: "cheque"}, "Select a valid payment mode."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.in.Normalize()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tc.msg, err.Error())
		})
	}
}

func TestSaleInputNormalize_OptionalAmountsFallBackToZero(t *testing.T) {
	fields, err := SaleInput{SareePrice: "100", Quantity: "1", Tips: "abc", Commission: "-20", PaymentMode: " UPI "}.Normalize()
	require.NoError(t, err)
	assert.True(t, fields.Tips.IsZero())
	assert.True(t, fields.Commission.IsZero())
	assert.Equal(t, models.PaymentUPI, fields.PaymentMode)
	assert.Nil(t, fields.CustomerID)
}

func TestRecord_ComputesTotalWithoutCommission(t *testing.T) {
	env := newTestEnv(t)
	sale, offer, err := env.sales.Record(env.ctx, env.user, SaleInput{
		SareePrice: "2000", Quantity: "2", Tips: "150", Commission: "0",
	})
	require.NoError(t, err)
	assert.Nil(t, offer, "walk-in sales get no thank-you")
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(4150)), "total %s", sale.Total)
	assert.Equal(t, models.PaymentCash, sale.PaymentMode)
	assert.Equal(t, "2024-02-14", sale.SaleDate.String())

	var stored models.Sale
	require.NoError(t, env.db.First(&stored, "id = ?", sale.ID).Error)
	assert.True(t, stored.Total.Equal(decimal.NewFromInt(4150)))
	assert.Equal(t, "2024-02-14", stored.SaleDate.String())
}

func TestRecord_OffersThankYouForCustomerWithPhone(t *testing.T) {
	env := newTestEnv(t)
	priya := env.addCustomer(t, "Priya", "+91 98400-11223", "Chennai")

	_, offer, err := env.sales.Record(env.ctx, env.user, SaleInput{
		CustomerID: priya.ID.String(), SareePrice: "1500", Quantity: "1",
	})
	require.NoError(t, err)
	require.NotNil(t, offer)
	assert.Equal(t, "919840011223", offer.Phone)
	assert.Equal(t, "Thank you for shopping with us, Priya! Hope you love your new saree. 🙏✨", offer.Message)
	assert.Contains(t, offer.Link, "https://wa.me/919840011223?text=Thank%20you%20for%20shopping")
}

func TestRecord_RejectsCustomerOutsideDirectory(t *testing.T) {
	env := newTestEnv(t)
	ghost := uuid.New()
	_, _, err := env.sales.Record(env.ctx, env.user, SaleInput{
		CustomerID: ghost.String(), SareePrice: "500", Quantity: "1",
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Select a valid customer.", err.Error())

	other, err := env.customers.Create(env.ctx, uuid.New(), CustomerInput{Name: "Meena", Phone: "9000011111"})
	require.NoError(t, err)
	_, _, err = env.sales.Record(env.ctx, env.user, SaleInput{
		CustomerID: other.ID.String(), SareePrice: "500", Quantity: "1",
	})
	assert.ErrorIs(t, err, ErrValidation)

	var count int64
	require.NoError(t, env.db.Model(&models.Sale{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdate_KeepsDanglingCustomerButRejectsNewUnknown(t *testing.T) {
	env := newTestEnv(t)
	gone := env.addCustomer(t, "Gone", "8000000000", "")
	orig := env.addSale(t, gone, "2024-02-10", "1000", 1)
	require.NoError(t, env.customers.Delete(env.ctx, env.user, gone.ID))

	updated, err := env.sales.Update(env.ctx, env.user, orig.ID, SaleInput{
		CustomerID: gone.ID.String(), SareePrice: "1100", Quantity: "1",
	})
	require.NoError(t, err)
	assert.Equal(t, gone.ID, *updated.CustomerID)

	_, err = env.sales.Update(env.ctx, env.user, orig.ID, SaleInput{
		CustomerID: uuid.NewString(), SareePrice: "1100", Quantity: "1",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRecord_AmountsHeldToPaise(t *testing.T) {
	env := newTestEnv(t)
	sale, _, err := env.sales.Record(env.ctx, env.user, SaleInput{
		SareePrice: "0.005", Quantity: "3", Tips: "0.004", Commission: "12.345",
	})
	require.NoError(t, err)
	assert.Equal(t, "0.01", sale.SareePrice.StringFixed(2))
	assert.True(t, sale.Tips.IsZero())
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("0.03")), "total %s", sale.Total)

	var stored models.Sale
	require.NoError(t, env.db.First(&stored, "id = ?", sale.ID).Error)
	recomputed := models.SaleTotal(stored.SareePrice.Round(2), stored.Quantity, stored.Tips.Round(2))
	assert.True(t, stored.Total.Equal(recomputed), "stored %s recomputed %s", stored.Total, recomputed)
	assert.True(t, stored.Commission.Equal(decimal.RequireFromString("12.35")))

	_, _, err = env.sales.Record(env.ctx, env.user, SaleInput{SareePrice: "0.004", Quantity: "1"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Enter a valid price.", err.Error())
}

func TestUpdate_ReplacesFieldsAndKeepsIdentity(t *testing.T) {
	env := newTestEnv(t)
	priya := env.addCustomer(t, "Priya", "9000012345", "")
	orig := env.addSale(t, priya, "2024-02-10", "1000", 1)

	updated, err := env.sales.Update(env.ctx, env.user, orig.ID, SaleInput{
		SareePrice: "1200", Quantity: "3", Tips: "50", Commission: "100", PaymentMode: "card", SareeType: "Silk",
	})
	require.NoError(t, err)
	assert.Equal(t, orig.ID, updated.ID)
	assert.Equal(t, env.user, updated.UserID)
	assert.Nil(t, updated.CustomerID, "edit is a full replacement")
	assert.Equal(t, "2024-02-10", updated.SaleDate.String())
	assert.True(t, updated.Total.Equal(decimal.NewFromInt(3650)))
	assert.True(t, updated.Commission.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, models.PaymentCard, updated.PaymentMode)
}

func TestUpdate_ValidationLeavesRecordUntouched(t *testing.T) {
	env := newTestEnv(t)
	orig := env.addSale(t, nil, "2024-02-10", "1000", 1)

	_, err := env.sales.Update(env.ctx, env.user, orig.ID, SaleInput{SareePrice: "", Quantity: "1"})
	assert.ErrorIs(t, err, ErrValidation)

	got, err := env.sales.Get(env.ctx, env.user, orig.ID)
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(1000)))
}

func TestUpdate_ConcurrentMutationConflicts(t *testing.T) {
	env := newTestEnv(t)
	orig := env.addSale(t, nil, "2024-02-10", "1000", 1)

	release, err := env.locker.Acquire(env.ctx, "sale:"+orig.ID.String())
	require.NoError(t, err)
	defer release()

	_, err = env.sales.Update(env.ctx, env.user, orig.ID, SaleInput{SareePrice: "10", Quantity: "1"})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "Another change to this record is in progress", err.Error())

	err = env.sales.Delete(env.ctx, env.user, orig.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdate_OtherMerchantsSaleIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	orig := env.addSale(t, nil, "2024-02-10", "1000", 1)
	_, err := env.sales.Update(env.ctx, uuid.New(), orig.ID, SaleInput{SareePrice: "10", Quantity: "1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_RemovesOnce(t *testing.T) {
	env := newTestEnv(t)
	orig := env.addSale(t, nil, "2024-02-10", "1000", 1)

	require.NoError(t, env.sales.Delete(env.ctx, env.user, orig.ID))
	assert.ErrorIs(t, env.sales.Delete(env.ctx, env.user, orig.ID), ErrNotFound)
	_, err := env.sales.Get(env.ctx, env.user, orig.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_ResolvesNamesNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	priya := env.addCustomer(t, "Priya", "9000012345", "")
	gone := env.addCustomer(t, "Gone", "8000000000", "")

	env.addSale(t, nil, "2024-02-01", "100", 1)
	env.addSale(t, priya, "2024-02-03", "200", 1)
	env.addSale(t, gone, "2024-02-02", "300", 1)
	require.NoError(t, env.customers.Delete(env.ctx, env.user, gone.ID))

	views, err := env.sales.List(env.ctx, env.user, 0)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, []string{"Priya", models.UnknownLabel, models.WalkInLabel},
		[]string{views[0].CustomerName, views[1].CustomerName, views[2].CustomerName})

	limited, err := env.sales.List(env.ctx, env.user, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
