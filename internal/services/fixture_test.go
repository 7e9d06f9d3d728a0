package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/diewo77/go-facto/internal/models"
	"github.com/diewo77/go-facto/internal/services"
	"github.com/diewo77/go-facto/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stepClock advances by one minute on every reading so that consecutive
// status rows never share a timestamp.
type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

// Last returns the most recent reading.
func (c *stepClock) Last() time.Time {
	return c.t
}

type fixture struct {
	ctx   context.Context
	db    *gorm.DB
	clock *stepClock
	l     *services.Ledger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := testutil.SetupDB(t)
	clock := &stepClock{t: time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)}
	return &fixture{
		ctx:   context.Background(),
		db:    conn,
		clock: clock,
		l:     services.NewLedger(conn, services.WithClock(clock.Now)),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s got %s %v", want, got, msgAndArgs)
}

func (f *fixture) rate(t *testing.T, name string) *models.VatRate {
	t.Helper()
	rates, err := f.l.ListVatRates(f.ctx)
	require.NoError(t, err)
	for i := range rates {
		if rates[i].Name == name {
			return &rates[i]
		}
	}
	t.Fatalf("no VAT rate named %q", name)
	return nil
}

func (f *fixture) client(t *testing.T, name string) *models.Client {
	t.Helper()
	c, err := f.l.CreateClient(f.ctx, services.ClientInput{Name: name, City: "Paris"})
	require.NoError(t, err)
	return c
}

// service creates a service taxed at the "Taux normal" preset (20%).
func (f *fixture) service(t *testing.T, name, price string) *models.Service {
	t.Helper()
	svc, err := f.l.CreateService(f.ctx, services.ServiceInput{
		Name:      name,
		UnitPrice: dec(price),
		VatRateID: f.rate(t, "Taux normal").ID,
	})
	require.NoError(t, err)
	return svc
}

func (f *fixture) basket(t *testing.T, clientID uint) *models.Basket {
	t.Helper()
	b, err := f.l.GetBasket(f.ctx, clientID)
	require.NoError(t, err)
	return b
}

func (f *fixture) invoice(t *testing.T, id uint) *models.Invoice {
	t.Helper()
	inv, err := f.l.GetInvoice(f.ctx, id)
	require.NoError(t, err)
	return inv
}

func (f *fixture) openLogs(t *testing.T, invoiceID uint) []models.StatusLog {
	t.Helper()
	var logs []models.StatusLog
	require.NoError(t, f.db.Where("invoice_id = ? AND valid_to IS NULL", invoiceID).Find(&logs).Error)
	return logs
}

func (f *fixture) countItems(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.Item{}).Count(&n).Error)
	return n
}

// assertTotals checks the cached totals of a container against its items.
func assertTotals(t *testing.T, cached models.Amount, items []models.Item) {
	t.Helper()
	want := models.SumItems(items)
	assert.Truef(t, want.Raw.Equal(cached.Raw), "raw: want %s got %s", want.Raw, cached.Raw)
	assert.Truef(t, want.VAT.Equal(cached.VAT), "vat: want %s got %s", want.VAT, cached.VAT)
}
