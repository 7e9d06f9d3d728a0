package services_test

import (
	"testing"
	"time"

	"github.com/diewo77/go-facto/internal/models"
	"github.com/diewo77/go-facto/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.InvoiceStatus
		want     bool
	}{
		{models.InvoiceStatusDraft, models.InvoiceStatusEmitted, true},
		{models.InvoiceStatusDraft, models.InvoiceStatusPaid, false},
		{models.InvoiceStatusDraft, models.InvoiceStatusCancelled, false},
		{models.InvoiceStatusEmitted, models.InvoiceStatusEmitted, false},
		{models.InvoiceStatusEmitted, models.InvoiceStatusReminded, true},
		{models.InvoiceStatusEmitted, models.InvoiceStatusPaid, true},
		{models.InvoiceStatusEmitted, models.InvoiceStatusCancelled, true},
		{models.InvoiceStatusReminded, models.InvoiceStatusReminded, true},
		{models.InvoiceStatusReminded, models.InvoiceStatusPaid, true},
		{models.InvoiceStatusReminded, models.InvoiceStatusDraft, false},
		{models.InvoiceStatusPaid, models.InvoiceStatusCancelled, false},
		{models.InvoiceStatusCancelled, models.InvoiceStatusEmitted, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.want, services.CanTransition(tc.from, tc.to))
		})
	}
}

func TestMarkAsKeepsOneOpenRow(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "Acme")
	inv, err := f.l.CreateInvoice(f.ctx, c.ID)
	require.NoError(t, err)

	steps := []models.InvoiceStatus{
		models.InvoiceStatusEmitted,
		models.InvoiceStatusReminded,
		models.InvoiceStatusReminded,
		models.InvoiceStatusPaid,
	}
	for _, status := range steps {
		got, err := f.l.MarkAs(f.ctx, inv.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, got.Status)

		open := f.openLogs(t, inv.ID)
		require.Len(t, open, 1)
		assert.Equal(t, status, open[0].Status)
	}

	history, err := f.l.StatusHistory(f.ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	for i, log := range history[:len(history)-1] {
		require.NotNilf(t, log.To, "row %d is closed", i)
		assert.False(t, log.To.Before(log.From))
	}
	assert.Equal(t, models.InvoiceStatusEmitted, history[1].Status)
	assert.True(t, history[0].To.Equal(history[1].From), "DRAFT ends when EMITTED starts")

	_, err = f.l.MarkAs(f.ctx, inv.ID, models.InvoiceStatusCancelled)
	assert.ErrorIs(t, err, services.ErrRejected)
}

func TestRevertStatus(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "Acme")
	inv, err := f.l.CreateInvoice(f.ctx, c.ID)
	require.NoError(t, err)

	_, err = f.l.RevertStatus(f.ctx, inv.ID)
	require.ErrorIs(t, err, services.ErrRejected)

	_, err = f.l.MarkAs(f.ctx, inv.ID, models.InvoiceStatusEmitted)
	require.NoError(t, err)
	_, err = f.l.MarkAs(f.ctx, inv.ID, models.InvoiceStatusPaid)
	require.NoError(t, err)

	got, err := f.l.RevertStatus(f.ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusEmitted, got.Status)
	require.Len(t, got.StatusLogs, 2)
	assert.True(t, got.StatusLogs[1].IsOpen())

	open := f.openLogs(t, inv.ID)
	require.Len(t, open, 1)
	assert.Equal(t, models.InvoiceStatusEmitted, open[0].Status)

	// The reverted invoice follows the state machine from EMITTED again.
	_, err = f.l.MarkAs(f.ctx, inv.ID, models.InvoiceStatusCancelled)
	require.NoError(t, err)
}

func TestRevertAfterHistoryCorrection(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "Acme")
	inv, err := f.l.CreateInvoice(f.ctx, c.ID)
	require.NoError(t, err)
	_, err = f.l.MarkAs(f.ctx, inv.ID, models.InvoiceStatusEmitted)
	require.NoError(t, err)

	// EMITTED now starts before the closed DRAFT period.
	_, err = f.l.UpdateStatusHistory(f.ctx, inv.ID, map[models.InvoiceStatus]services.Window{
		models.InvoiceStatusEmitted: {From: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)

	got, err := f.l.RevertStatus(f.ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusDraft, got.Status)

	history, err := f.l.StatusHistory(f.ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.InvoiceStatusDraft, history[0].Status)
	assert.True(t, history[0].IsOpen())

	_, err = f.l.RevertStatus(f.ctx, inv.ID)
	assert.ErrorIs(t, err, services.ErrRejected)
}

func TestUpdateStatusHistory(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "Acme")
	inv, err := f.l.CreateInvoice(f.ctx, c.ID)
	require.NoError(t, err)
	_, err = f.l.MarkAs(f.ctx, inv.ID, models.InvoiceStatusEmitted)
	require.NoError(t, err)

	day := func(d int) time.Time { return time.Date(2024, time.January, d, 8, 0, 0, 0, time.UTC) }
	end := day(5)

	got, err := f.l.UpdateStatusHistory(f.ctx, inv.ID, map[models.InvoiceStatus]services.Window{
		models.InvoiceStatusDraft:   {From: day(1), To: &end},
		models.InvoiceStatusEmitted: {From: day(5)},
	})
	require.NoError(t, err)
	require.Len(t, got.StatusLogs, 2)
	assert.True(t, got.StatusLogs[0].From.Equal(day(1)))
	assert.True(t, got.StatusLogs[0].To.Equal(end))
	assert.True(t, got.StatusLogs[1].From.Equal(day(5)))
	assert.True(t, got.StatusLogs[1].IsOpen())

	before := day(2)
	rejected := []map[models.InvoiceStatus]services.Window{
		{models.InvoiceStatus("LOST"): {From: day(1)}},
		{models.InvoiceStatusDraft: {From: day(3), To: &before}},
		{models.InvoiceStatusEmitted: {From: day(5), To: &end}},
		{models.InvoiceStatusDraft: {From: day(1)}},
		{models.InvoiceStatusPaid: {From: day(6)}},
	}
	for i, windows := range rejected {
		_, err := f.l.UpdateStatusHistory(f.ctx, inv.ID, windows)
		assert.ErrorIsf(t, err, services.ErrRejected, "case %d", i)
	}
	assert.Len(t, f.openLogs(t, inv.ID), 1)
}

func TestListInvoices(t *testing.T) {
	f := newFixture(t)
	acme := f.client(t, "Acme")
	globex := f.client(t, "Globex")

	a1, err := f.l.CreateInvoice(f.ctx, acme.ID)
	require.NoError(t, err)
	a2, err := f.l.CreateInvoice(f.ctx, acme.ID)
	require.NoError(t, err)
	_, err = f.l.CreateInvoice(f.ctx, globex.ID)
	require.NoError(t, err)
	_, err = f.l.MarkAs(f.ctx, a1.ID, models.InvoiceStatusEmitted)
	require.NoError(t, err)

	all, err := f.l.ListInvoices(f.ctx, services.InvoiceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := f.l.ListInvoices(f.ctx, services.InvoiceFilter{ClientID: acme.ID})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, a2.ID, mine[0].ID, "newest first")

	emitted := models.InvoiceStatusEmitted
	got, err := f.l.ListInvoices(f.ctx, services.InvoiceFilter{Status: &emitted})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a1.ID, got[0].ID)

	thisMonth, lastMonth := models.FilterCurrentMonth, models.FilterLastMonth
	got, err = f.l.ListInvoices(f.ctx, services.InvoiceFilter{Filter: &thisMonth})
	require.NoError(t, err)
	assert.Len(t, got, 3)
	got, err = f.l.ListInvoices(f.ctx, services.InvoiceFilter{Filter: &lastMonth})
	require.NoError(t, err)
	assert.Empty(t, got)

	q, err := models.PeriodFromQuarter(2024, 1, time.UTC)
	require.NoError(t, err)
	got, err = f.l.ListInvoices(f.ctx, services.InvoiceFilter{Status: &emitted, Period: &q})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = f.l.ListInvoices(f.ctx, services.InvoiceFilter{Filter: &thisMonth, Period: &q})
	assert.ErrorIs(t, err, services.ErrRejected)
}

func TestSummary(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "Acme")
	s := f.service(t, "Dev", "100")

	invoice := func(qty int, statuses ...models.InvoiceStatus) {
		inv, err := f.l.CreateInvoice(f.ctx, c.ID)
		require.NoError(t, err)
		_, err = f.l.AddToInvoice(f.ctx, inv.ID, s.ID, qty)
		require.NoError(t, err)
		for _, status := range statuses {
			_, err = f.l.MarkAs(f.ctx, inv.ID, status)
			require.NoError(t, err)
		}
	}
	invoice(1)
	invoice(2, models.InvoiceStatusEmitted)
	invoice(3, models.InvoiceStatusEmitted, models.InvoiceStatusReminded)
	invoice(4, models.InvoiceStatusEmitted, models.InvoiceStatusPaid)
	invoice(5, models.InvoiceStatusEmitted, models.InvoiceStatusCancelled)

	sum, err := f.l.Summary(f.ctx, nil)
	require.NoError(t, err)
	assertDec(t, "600", sum.PendingPayment)
	assert.Equal(t, 2, sum.Pending)
	assertDec(t, "480", sum.Sales)
	assert.Equal(t, 1, sum.Paid)
	assert.Equal(t, 1, sum.Drafts)

	lastYear, err := models.FilterLastYear.Period(f.clock.Last())
	require.NoError(t, err)
	sum, err = f.l.Summary(f.ctx, &lastYear)
	require.NoError(t, err)
	assertDec(t, "0", sum.Sales)
	assertDec(t, "600", sum.PendingPayment)
}
