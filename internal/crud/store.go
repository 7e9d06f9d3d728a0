package crud

import (
	"context"

	"github.com/diewo77/go-facto/internal/models"
	"gorm.io/gorm"
)

// Store groups one repository per entity plus the entity specific queries.
type Store struct {
	db *gorm.DB

	VatRates   *Repo[models.VatRate]
	Services   *Repo[models.Service]
	Revisions  *Repo[models.ServiceRevision]
	Clients    *Repo[models.Client]
	Baskets    *Repo[models.Basket]
	Invoices   *Repo[models.Invoice]
	StatusLogs *Repo[models.StatusLog]
	Items      *Repo[models.Item]
}

// NewStore builds a Store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		VatRates:   NewRepo[models.VatRate](db),
		Services:   NewRepo[models.Service](db),
		Revisions:  NewRepo[models.ServiceRevision](db),
		Clients:    NewRepo[models.Client](db),
		Baskets:    NewRepo[models.Basket](db),
		Invoices:   NewRepo[models.Invoice](db),
		StatusLogs: NewRepo[models.StatusLog](db),
		Items:      NewRepo[models.Item](db),
	}
}

// WithTx runs fn with a Store bound to one transaction. The transaction is
// rolled back when fn returns an error.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(NewStore(tx))
		return fnErr
	})
	if err != nil && fnErr == nil {
		return wrap("commit", "transaction", err)
	}
	return err
}

func (s *Store) q(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}
