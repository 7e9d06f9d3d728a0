// Package crud provides the generic persistence primitives used by the domain
// layer. Every mutating call runs in its own transaction (a savepoint when the
// caller already holds one) and every failure is reported as an *OpError.
package crud

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultLimit is the page size used by List when limit is not positive.
const DefaultLimit = 100

// Patch computes the columns to write on current. Only columns whose value
// actually differs must be returned.
type Patch[T any] interface {
	Changes(current *T) map[string]any
}

// Repo exposes create/read/update/delete for one entity type.
type Repo[T any] struct {
	db     *gorm.DB
	entity string
}

// NewRepo builds a repository for T on db.
func NewRepo[T any](db *gorm.DB) *Repo[T] {
	return &Repo[T]{db: db, entity: reflect.TypeOf((*T)(nil)).Elem().Name()}
}

// Entity returns the entity name used in error messages.
func (r *Repo[T]) Entity() string {
	return r.entity
}

// Get returns the row with primary key id.
func (r *Repo[T]) Get(ctx context.Context, id uint) (*T, error) {
	var obj T
	if err := r.db.WithContext(ctx).First(&obj, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, r.notFound("get", id)
		}
		return nil, wrap("get", r.entity, err)
	}
	return &obj, nil
}

// List returns one page of rows ordered by primary key.
func (r *Repo[T]) List(ctx context.Context, skip, limit int) ([]T, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	var out []T
	err := r.db.WithContext(ctx).Order("id").Offset(skip).Limit(limit).Find(&out).Error
	if err != nil {
		return nil, wrap("list", r.entity, err)
	}
	return out, nil
}

// All returns every row ordered by primary key.
func (r *Repo[T]) All(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, wrap("list", r.entity, err)
	}
	return out, nil
}

// Create inserts obj. Associations are never written through it.
func (r *Repo[T]) Create(ctx context.Context, obj *T) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(obj).Error
	})
	return wrap("create", r.entity, err)
}

// Save writes every column of obj, including nil ones.
func (r *Repo[T]) Save(ctx context.Context, obj *T) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Save(obj).Error
	})
	return wrap("save", r.entity, err)
}

// Update writes the columns of patch that differ from obj and reloads it. It
// reports whether anything was written; an identical patch is a no-op.
func (r *Repo[T]) Update(ctx context.Context, obj *T, patch Patch[T]) (bool, error) {
	changes := patch.Changes(obj)
	if len(changes) == 0 {
		return false, nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(obj).Omit(clause.Associations).Updates(changes).Error; err != nil {
			return err
		}
		return tx.First(obj).Error
	})
	if err != nil {
		return false, wrap("update", r.entity, err)
	}
	return true, nil
}

// UpdateColumns writes columns on obj unconditionally.
func (r *Repo[T]) UpdateColumns(ctx context.Context, obj *T, columns map[string]any) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(obj).Omit(clause.Associations).Updates(columns).Error
	})
	return wrap("update", r.entity, err)
}

// Delete removes obj.
func (r *Repo[T]) Delete(ctx context.Context, obj *T) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Delete(obj).Error
	})
	return wrap("delete", r.entity, err)
}

func (r *Repo[T]) notFound(op string, id uint) error {
	return &OpError{
		Op:     op,
		Entity: r.entity,
		Kind:   ErrNotFound,
		Err:    fmt.Errorf("%s with id %d", r.entity, id),
	}
}
