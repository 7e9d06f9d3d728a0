package services_test

import (
	"testing"

	"github.com/diewo77/go-facto/internal/crud"
	"github.com/diewo77/go-facto/internal/models"
	"github.com/diewo77/go-facto/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInvoiceLifecycle walks one client from basket to reminded invoice.
func TestInvoiceLifecycle(t *testing.T) {
	f := newFixture(t)
	c1 := f.client(t, "C1")
	s1 := f.service(t, "S1", "100")
	var inv *models.Invoice

	t.Run("add to basket", func(t *testing.T) {
		_, err := f.l.AddToBasket(f.ctx, c1.ID, s1.ID, 2)
		require.NoError(t, err)

		b := f.basket(t, c1.ID)
		assertDec(t, "200", b.RawAmount)
		assertDec(t, "40", b.VAT)
		require.Len(t, b.Items, 1)
		assert.Equal(t, 2, b.Items[0].Quantity)
	})

	t.Run("invoice from basket", func(t *testing.T) {
		var err error
		inv, err = f.l.InvoiceFromBasket(f.ctx, c1.ID, true)
		require.NoError(t, err)

		assert.Equal(t, models.InvoiceStatusDraft, inv.Status)
		require.Len(t, inv.Items, 1)
		assert.Equal(t, 2, inv.Items[0].Quantity)
		assertDec(t, "200", inv.Items[0].RawAmount)
		assertDec(t, "40", inv.Items[0].VAT)
		assertDec(t, "200", inv.RawAmount)
		assertDec(t, "40", inv.VAT)
		assert.Nil(t, inv.Items[0].BasketID)

		require.Len(t, inv.StatusLogs, 1)
		assert.Equal(t, models.InvoiceStatusDraft, inv.StatusLogs[0].Status)
		assert.True(t, inv.StatusLogs[0].IsOpen())

		b := f.basket(t, c1.ID)
		assertDec(t, "0", b.RawAmount)
		assert.Empty(t, b.Items)
	})

	t.Run("emitting twice is rejected", func(t *testing.T) {
		_, err := f.l.MarkAs(f.ctx, inv.ID, models.InvoiceStatusEmitted)
		require.NoError(t, err)

		_, err = f.l.MarkAs(f.ctx, inv.ID, models.InvoiceStatusEmitted)
		require.ErrorIs(t, err, services.ErrRejected)
		assert.Equal(t, "Invoice status transition from EMITTED to EMITTED is not allowed.", err.Error())
		assert.Equal(t, models.InvoiceStatusEmitted, f.invoice(t, inv.ID).Status)
	})

	t.Run("reminding twice refreshes the open row", func(t *testing.T) {
		_, err := f.l.MarkAs(f.ctx, inv.ID, models.InvoiceStatusReminded)
		require.NoError(t, err)
		got, err := f.l.MarkAs(f.ctx, inv.ID, models.InvoiceStatusReminded)
		require.NoError(t, err)
		second := f.clock.Last()

		var reminded []models.StatusLog
		for _, log := range got.StatusLogs {
			if log.Status == models.InvoiceStatusReminded {
				reminded = append(reminded, log)
			}
		}
		require.Len(t, reminded, 1)
		assert.True(t, reminded[0].IsOpen())
		assert.True(t, reminded[0].From.Equal(second), "from %s want %s", reminded[0].From, second)
		assert.Len(t, f.openLogs(t, inv.ID), 1)
	})

	t.Run("used VAT rate cannot be deleted", func(t *testing.T) {
		rate, err := f.l.CreateVatRate(f.ctx, services.VatRateInput{Name: "Taux spécial", Rate: dec("8.5")})
		require.NoError(t, err)
		_, err = f.l.CreateService(f.ctx, services.ServiceInput{Name: "Audit", UnitPrice: dec("10"), VatRateID: rate.ID})
		require.NoError(t, err)

		err = f.l.DeleteVatRate(f.ctx, rate.ID)
		require.ErrorIs(t, err, services.ErrRejected)
		assert.Contains(t, err.Error(), "'Audit'")

		_, err = f.l.GetVatRate(f.ctx, rate.ID)
		assert.NoError(t, err)
	})
}

func TestDeleteReferencedVatRateAtStoreLevelIsIntegrityFailure(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t, "S1", "10")
	store := crud.NewStore(f.db)

	rate, err := store.VatRates.Get(f.ctx, svc.Current.VatRateID)
	require.NoError(t, err)
	err = store.VatRates.Delete(f.ctx, rate)
	require.ErrorIs(t, err, crud.ErrIntegrity)
}
