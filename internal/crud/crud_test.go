package crud_test

import (
	"context"
	"errors"
	"testing"

	"github.com/diewo77/go-facto/internal/crud"
	"github.com/diewo77/go-facto/internal/models"
	"github.com/diewo77/go-facto/internal/testutil"
	"github.com/shopspring/decimal"
)

type renameClient string

func (p renameClient) Changes(cur *models.Client) map[string]any {
	if cur.Name == string(p) {
		return nil
	}
	return map[string]any{"name": string(p)}
}

func TestRepoGetNotFound(t *testing.T) {
	store := crud.NewStore(testutil.OpenSQLite(t))
	_, err := store.Clients.Get(context.Background(), 42)
	if !errors.Is(err, crud.ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
	if err.Error() != "Client with id 42 not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	var opErr *crud.OpError
	if !errors.As(err, &opErr) || opErr.Op != "get" {
		t.Fatalf("expected get OpError got %#v", err)
	}
}

func TestRepoCreateDuplicateIsIntegrity(t *testing.T) {
	ctx := context.Background()
	store := crud.NewStore(testutil.OpenSQLite(t))
	if err := store.Clients.Create(ctx, &models.Client{Name: "Acme", IsActive: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := store.Clients.Create(ctx, &models.Client{Name: "Acme", IsActive: true})
	if !errors.Is(err, crud.ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity got %v", err)
	}
}

func TestRepoUpdateOnlyWritesChanges(t *testing.T) {
	ctx := context.Background()
	store := crud.NewStore(testutil.OpenSQLite(t))
	c := &models.Client{Name: "Acme", IsActive: true}
	if err := store.Clients.Create(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}

	written, err := store.Clients.Update(ctx, c, renameClient("Acme"))
	if err != nil || written {
		t.Fatalf("expected no-op, written=%v err=%v", written, err)
	}
	written, err = store.Clients.Update(ctx, c, renameClient("Acme Corp"))
	if err != nil || !written {
		t.Fatalf("expected write, written=%v err=%v", written, err)
	}
	got, err := store.Clients.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Acme Corp" {
		t.Fatalf("expected renamed client got %q", got.Name)
	}
}

func TestRepoList(t *testing.T) {
	ctx := context.Background()
	store := crud.NewStore(testutil.OpenSQLite(t))
	for _, name := range []string{"a", "b", "c", "d"} {
		if err := store.VatRates.Create(ctx, &models.VatRate{Name: name, Rate: decimal.NewFromInt(1)}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	page, err := store.VatRates.List(ctx, 1, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 || page[0].Name != "b" || page[1].Name != "c" {
		t.Fatalf("unexpected page %+v", page)
	}
	all, err := store.VatRates.List(ctx, -1, 0)
	if err != nil || len(all) != 4 {
		t.Fatalf("expected 4 rows got %d err=%v", len(all), err)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	store := crud.NewStore(testutil.OpenSQLite(t))
	boom := errors.New("boom")

	err := store.WithTx(ctx, func(tx *crud.Store) error {
		if err := tx.Clients.Create(ctx, &models.Client{Name: "Acme", IsActive: true}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom got %v", err)
	}
	clients, err := store.ListClients(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(clients) != 0 {
		t.Fatalf("expected rollback, found %d clients", len(clients))
	}
}

func TestDefaultVatRateMissing(t *testing.T) {
	store := crud.NewStore(testutil.OpenSQLite(t))
	if _, err := store.DefaultVatRate(context.Background()); !crud.IsNotFound(err) {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestItemOwnerCheckIsIntegrity(t *testing.T) {
	ctx := context.Background()
	store := crud.NewStore(testutil.SetupDB(t))
	rate, err := store.DefaultVatRate(ctx)
	if err != nil {
		t.Fatalf("default rate: %v", err)
	}
	svc := &models.Service{}
	if err := store.Services.Create(ctx, svc); err != nil {
		t.Fatalf("service: %v", err)
	}
	rev := &models.ServiceRevision{ServiceID: svc.ID, Name: "Dev", UnitPrice: decimal.NewFromInt(10), VatRateID: rate.ID}
	if err := store.Revisions.Create(ctx, rev); err != nil {
		t.Fatalf("revision: %v", err)
	}
	orphan := &models.Item{ServiceID: svc.ID, ServiceRevisionID: rev.ID, Quantity: 1}
	if err := store.Items.Create(ctx, orphan); !errors.Is(err, crud.ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity got %v", err)
	}
}
