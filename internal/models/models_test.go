package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeAmount(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice string
		quantity  int
		rate      string
		wantRaw   string
		wantVAT   string
		wantNet   string
	}{
		{"20% VAT on 2 x 100", "100", 2, "20", "200", "40", "240"},
		{"10% VAT on 50", "50", 1, "10", "50", "5", "55"},
		{"0% VAT", "100", 3, "0", "300", "0", "300"},
		{"5.5% VAT rounded", "33.33", 1, "5.5", "33.33", "1.83", "35.16"},
		{"2.1% VAT", "10", 3, "2.1", "30", "0.63", "30.63"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeAmount(dec(tt.unitPrice), tt.quantity, dec(tt.rate))
			if !got.Raw.Equal(dec(tt.wantRaw)) {
				t.Errorf("Raw = %s, want %s", got.Raw, tt.wantRaw)
			}
			if !got.VAT.Equal(dec(tt.wantVAT)) {
				t.Errorf("VAT = %s, want %s", got.VAT, tt.wantVAT)
			}
			if !got.Net.Equal(dec(tt.wantNet)) {
				t.Errorf("Net = %s, want %s", got.Net, tt.wantNet)
			}
		})
	}
}

func TestClient_Code(t *testing.T) {
	c := &Client{ID: 42}
	if got := c.Code(); got != "CL00042" {
		t.Errorf("Code() = %q, want CL00042", got)
	}
	inv := &Invoice{ID: 7}
	if got := inv.Code(); got != "FC00007" {
		t.Errorf("Code() = %q, want FC00007", got)
	}
}

func TestClient_FullAddress(t *testing.T) {
	tests := []struct {
		name   string
		client Client
		want   string
	}{
		{
			name:   "full address",
			client: Client{Address: "123 Main St", ZipCode: "75001", City: "Paris"},
			want:   "123 Main St\n75001 Paris",
		},
		{
			name:   "only city",
			client: Client{City: "Paris"},
			want:   "Paris",
		},
		{
			name:   "empty",
			client: Client{},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.client.FullAddress(); got != tt.want {
				t.Errorf("FullAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInvoice_Status(t *testing.T) {
	tests := []struct {
		status   InvoiceStatus
		canEdit  bool
		terminal bool
		awaiting bool
	}{
		{InvoiceStatusDraft, true, false, false},
		{InvoiceStatusEmitted, false, false, true},
		{InvoiceStatusReminded, false, false, true},
		{InvoiceStatusPaid, false, true, false},
		{InvoiceStatusCancelled, false, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			inv := &Invoice{Status: tt.status}
			if got := inv.CanEdit(); got != tt.canEdit {
				t.Errorf("CanEdit() = %v, want %v", got, tt.canEdit)
			}
			if got := tt.status.IsTerminal(); got != tt.terminal {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.terminal)
			}
			if got := tt.status.AwaitsPayment(); got != tt.awaiting {
				t.Errorf("AwaitsPayment() = %v, want %v", got, tt.awaiting)
			}
		})
	}

	if InvoiceStatus("ARCHIVED").Valid() {
		t.Error("unknown status reported valid")
	}
}

func TestNewItem(t *testing.T) {
	rev := &ServiceRevision{
		ID: 3, ServiceID: 1, UnitPrice: dec("100"),
		VatRate: &VatRate{Rate: dec("20")},
	}

	it, err := NewItem(rev, 2, BasketOwner(9))
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	if it.ServiceID != 1 || it.ServiceRevisionID != 3 {
		t.Errorf("refs = (%d, %d), want (1, 3)", it.ServiceID, it.ServiceRevisionID)
	}
	if !it.RawAmount.Equal(dec("200")) || !it.VAT.Equal(dec("40")) {
		t.Errorf("amount = %s/%s, want 200/40", it.RawAmount, it.VAT)
	}

	if _, err := NewItem(nil, 1, BasketOwner(9)); !errors.Is(err, ErrMissingRevision) {
		t.Errorf("nil revision: err = %v", err)
	}
	if _, err := NewItem(rev, 0, BasketOwner(9)); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("zero quantity: err = %v", err)
	}
	if _, err := NewItem(rev, 1, Owner{}); !errors.Is(err, ErrNoOwner) {
		t.Errorf("no owner: err = %v", err)
	}
}

func TestItem_Owner(t *testing.T) {
	it := &Item{}
	it.SetOwner(SharedOwner(1, 2))
	if it.BasketID == nil || *it.BasketID != 1 || it.InvoiceID == nil || *it.InvoiceID != 2 {
		t.Fatalf("SetOwner(shared) = %v/%v", it.BasketID, it.InvoiceID)
	}
	if got := it.Owner(); got.Kind != OwnerShared {
		t.Errorf("Owner().Kind = %s, want shared", got.Kind)
	}

	it.SetOwner(it.Owner().WithoutBasket())
	if got := it.Owner(); got != InvoiceOwner(2) {
		t.Errorf("after basket release = %+v", got)
	}
	it.SetOwner(it.Owner().WithoutInvoice())
	if got := it.Owner(); got.Kind != OwnerNone {
		t.Errorf("after invoice release = %s, want none", got.Kind)
	}
}

func TestItem_Requantify(t *testing.T) {
	rev := &ServiceRevision{ID: 1, ServiceID: 1, UnitPrice: dec("12.5"), VatRate: &VatRate{Rate: dec("10")}}
	it, _ := NewItem(rev, 1, InvoiceOwner(4))

	if err := it.Requantify(4); err != nil {
		t.Fatalf("Requantify: %v", err)
	}
	if !it.RawAmount.Equal(dec("50")) || !it.VAT.Equal(dec("5")) {
		t.Errorf("amount = %s/%s, want 50/5", it.RawAmount, it.VAT)
	}
	if err := it.Requantify(-1); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("negative quantity: err = %v", err)
	}
}

func TestPeriodFilter(t *testing.T) {
	now := time.Date(2024, time.February, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		filter    PeriodFilter
		wantStart time.Time
		wantEnd   time.Time
	}{
		{FilterCurrentMonth, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{FilterLastMonth, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{FilterCurrentQuarter, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		{FilterLastQuarter, time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{FilterCurrentYear, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{FilterLastYear, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			p, err := tt.filter.Period(now)
			if err != nil {
				t.Fatalf("Period: %v", err)
			}
			if !p.Start.Equal(tt.wantStart) {
				t.Errorf("Start = %v, want %v", p.Start, tt.wantStart)
			}
			if !p.End.Equal(tt.wantEnd.Add(-time.Nanosecond)) {
				t.Errorf("End = %v, want just before %v", p.End, tt.wantEnd)
			}
		})
	}

	if _, err := PeriodFilter("NEXT_DECADE").Period(now); err == nil {
		t.Error("expected error for unknown filter")
	}
}
