// Package mediastore defines the backend operations the gateway dispatches to.
package mediastore

import (
	"context"
	"errors"

	"github.com/listenupapp/mediashelf/internal/domain"
)

// Sentinel errors shared by MediaStore implementations.
var (
	ErrDuplicateItem = errors.New("media item already exists")
	ErrItemNotFound  = errors.New("media item not found")
	ErrMissingID     = errors.New("media item id is required")
	ErrUnknownTable  = errors.New("unknown media table")
	ErrUnknownColumn = errors.New("unknown media column")
)

// MediaStore is the backend capability behind the gateway.
// Every method performs at most one logical backend operation and returns
// a non-nil error on any failure.
type MediaStore interface {
	// ListTags returns the tag names of a metadata column for one category, name ascending.
	ListTags(ctx context.Context, column string, category domain.Category) ([]string, error)

	// ListItems returns every item of table, title ascending.
	ListItems(ctx context.Context, table domain.Table) ([]domain.MediaItem, error)

	// SearchItems returns items whose title contains pattern, case-insensitively.
	SearchItems(ctx context.Context, table domain.Table, pattern string) ([]domain.MediaItem, error)

	// InsertItem stores item and returns its title.
	// Returns ErrDuplicateItem if an item with the same title exists.
	InsertItem(ctx context.Context, table domain.Table, item domain.MediaItem) (string, error)

	// UpdateItem replaces the fields of the item with id and returns its title.
	UpdateItem(ctx context.Context, table domain.Table, id string, item domain.MediaItem) (string, error)

	// AggregateCount counts the occurrences of each value of column, in the
	// order the backend returns the values.
	AggregateCount(ctx context.Context, table domain.Table, column string) (domain.CountResult, error)
}

// CheckTable returns ErrUnknownTable for tables outside the known set.
func CheckTable(table domain.Table) error {
	if !table.Valid() {
		return ErrUnknownTable
	}
	return nil
}

// CheckColumn returns ErrUnknownTable or ErrUnknownColumn when column is
// not a countable column of table.
func CheckColumn(table domain.Table, column string) error {
	if err := CheckTable(table); err != nil {
		return err
	}
	if !table.HasField(column) {
		return ErrUnknownColumn
	}
	return nil
}
