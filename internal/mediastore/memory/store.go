// Package memory provides an in-process mediastore.MediaStore for local
// development and tests. Contents are lost when the process exits.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/listenupapp/mediashelf/internal/domain"
	"github.com/listenupapp/mediashelf/internal/mediastore"
)

var _ mediastore.MediaStore = (*Store)(nil)

type row struct {
	id     string
	values map[string]string
}

// tagKey addresses one tag catalogue: a metadata column for a category.
type tagKey struct {
	column   string
	category domain.Category
}

// Store keeps media rows and tag catalogues in memory.
//
// Thread safety: All public methods are safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	tables map[domain.Table][]row
	tags   map[tagKey][]string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		tables: make(map[domain.Table][]row),
		tags:   make(map[tagKey][]string),
	}
}

// SetTags replaces the tag names of a metadata column for one category.
func (s *Store) SetTags(column string, category domain.Category, names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	s.tags[tagKey{column: column, category: category}] = sorted
}

// ListTags returns the catalogue's names, ascending.
func (s *Store) ListTags(_ context.Context, column string, category domain.Category) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := s.tags[tagKey{column: column, category: category}]
	return append([]string{}, names...), nil
}

// ListItems returns every item of table, title ascending.
func (s *Store) ListItems(_ context.Context, table domain.Table) ([]domain.MediaItem, error) {
	if err := mediastore.CheckTable(table); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.itemsWhere(table, func(row) bool { return true })
}

// SearchItems returns items whose title contains pattern, ignoring case.
func (s *Store) SearchItems(_ context.Context, table domain.Table, pattern string) ([]domain.MediaItem, error) {
	if err := mediastore.CheckTable(table); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := fold(pattern)
	return s.itemsWhere(table, func(r row) bool {
		return strings.Contains(fold(r.values["title"]), needle)
	})
}

// InsertItem stores item under a new id unless its title is taken.
func (s *Store) InsertItem(_ context.Context, table domain.Table, item domain.MediaItem) (string, error) {
	if err := mediastore.CheckTable(table); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	title := fold(item.Name())
	for _, r := range s.tables[table] {
		if fold(r.values["title"]) == title {
			return "", mediastore.ErrDuplicateItem
		}
	}

	id := item.Identifier()
	if id == "" {
		id = uuid.NewString()
	}
	s.tables[table] = append(s.tables[table], row{id: id, values: item.Values()})
	return item.Name(), nil
}

// UpdateItem overwrites the set fields of the row with id.
func (s *Store) UpdateItem(_ context.Context, table domain.Table, id string, item domain.MediaItem) (string, error) {
	if err := mediastore.CheckTable(table); err != nil {
		return "", err
	}
	if id == "" {
		return "", mediastore.ErrMissingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.tables[table]
	for i := range rows {
		if rows[i].id != id {
			continue
		}
		for k, v := range item.Values() {
			rows[i].values[k] = v
		}
		return rows[i].values["title"], nil
	}
	return "", fmt.Errorf("%w: %s", mediastore.ErrItemNotFound, id)
}

// AggregateCount tallies column values, visiting rows ordered by the column.
func (s *Store) AggregateCount(_ context.Context, table domain.Table, column string) (domain.CountResult, error) {
	if err := mediastore.CheckColumn(table, column); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	values := make([]string, 0, len(s.tables[table]))
	for _, r := range s.tables[table] {
		if v, ok := r.values[column]; ok {
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return domain.CountValues(values), nil
}

// itemsWhere returns matching rows of table as items, title ascending.
// Callers hold s.mu.
func (s *Store) itemsWhere(table domain.Table, match func(row) bool) ([]domain.MediaItem, error) {
	matched := make([]row, 0, len(s.tables[table]))
	for _, r := range s.tables[table] {
		if match(r) {
			matched = append(matched, r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].values["title"] < matched[j].values["title"]
	})

	items := make([]domain.MediaItem, 0, len(matched))
	for _, r := range matched {
		item, err := domain.MediaItemFromValues(table, r.id, r.values)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// fold returns the case-folded form of s. A Caser holds state, so each call
// gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
