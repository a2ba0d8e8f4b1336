package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sareeledger-backend/models"
)

func TestThankYouSend_LinkOnlyWhenNotDelivering(t *testing.T) {
	env := newTestEnv(t)
	env.messenger.enabled = true
	c := env.addCustomer(t, "Priya", "+91 90000 12345", "")
	sale := env.addSale(t, c, "2024-02-10", "900", 1)

	res, err := env.thankYou.Send(env.ctx, env.user, sale.ID, false)
	require.NoError(t, err)
	assert.Equal(t, ThankYouStatusLink, res.Status)
	assert.Empty(t, env.messenger.sent)
	assert.Equal(t, "919000012345", res.Offer.Phone)
}

func TestThankYouSend_DeliversAndLogs(t *testing.T) {
	env := newTestEnv(t)
	env.messenger.enabled = true
	c := env.addCustomer(t, "Priya", "9000012345", "")
	sale := env.addSale(t, c, "2024-02-10", "900", 1)

	tmpl := "Hi [CustomerName]!"
	_, err := env.settings.Update(env.ctx, env.user, SettingsInput{ThankYouTemplate: &tmpl})
	require.NoError(t, err)

	res, err := env.thankYou.Send(env.ctx, env.user, sale.ID, true)
	require.NoError(t, err)
	assert.Equal(t, ThankYouStatusSent, res.Status)
	assert.Equal(t, "SM123", res.SID)
	assert.Equal(t, []string{"9000012345|Hi Priya!"}, env.messenger.sent)

	var logs []models.ThankYouLog
	require.NoError(t, env.db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, sale.ID, logs[0].SaleID)
	assert.Equal(t, ThankYouStatusSent, logs[0].Status)
}

func TestThankYouSend_FailureNeverTouchesSale(t *testing.T) {
	env := newTestEnv(t)
	env.messenger.enabled = true
	env.messenger.err = errors.New("twilio down")
	c := env.addCustomer(t, "Priya", "9000012345", "")
	sale := env.addSale(t, c, "2024-02-10", "900", 1)

	res, err := env.thankYou.Send(env.ctx, env.user, sale.ID, true)
	require.NoError(t, err)
	assert.Equal(t, ThankYouStatusFailed, res.Status)
	assert.Equal(t, "twilio down", res.ErrorMsg)

	_, err = env.sales.Get(env.ctx, env.user, sale.ID)
	assert.NoError(t, err)
}

func TestThankYouSend_NeedsCustomerWithPhone(t *testing.T) {
	env := newTestEnv(t)
	walkIn := env.addSale(t, nil, "2024-02-10", "900", 1)

	_, err := env.thankYou.Send(env.ctx, env.user, walkIn.ID, false)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.thankYou.Send(env.ctx, env.user, uuid.New(), false)
	assert.ErrorIs(t, err, ErrNotFound)
}
