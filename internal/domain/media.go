// Package domain contains the action payload and media record types shared by the gateway.
package domain

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Category identifies which MediaItem variant a table stores.
type Category string

// Media categories. The values match the backend's tag metadata tables.
const (
	CategoryBook  Category = "book"
	CategoryGame  Category = "game"
	CategoryVideo Category = "video"
)

// Table is a backend media table name.
type Table string

// Known media tables.
const (
	TableBooks  Table = "books"
	TableGames  Table = "games"
	TableMovies Table = "movies"
	TableShows  Table = "shows"
)

// tableFields lists the selectable columns of each table, id excluded.
// Order matters: it is the order of the GraphQL selection set.
var tableFields = map[Table][]string{
	TableBooks:  {"title", "author", "genre"},
	TableGames:  {"title", "studio", "platform", "genre"},
	TableMovies: {"title", "director", "genre"},
	TableShows:  {"title", "director", "genre"},
}

var tableCategories = map[Table]Category{
	TableBooks:  CategoryBook,
	TableGames:  CategoryGame,
	TableMovies: CategoryVideo,
	TableShows:  CategoryVideo,
}

// Valid reports whether t is a known table.
func (t Table) Valid() bool {
	_, ok := tableFields[t]
	return ok
}

// Fields returns the table's columns (id excluded), or nil for unknown tables.
func (t Table) Fields() []string {
	fields := tableFields[t]
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// HasField reports whether column is one of the table's columns.
func (t Table) HasField(column string) bool {
	for _, f := range tableFields[t] {
		if f == column {
			return true
		}
	}
	return false
}

// Category returns the variant stored in the table.
func (t Table) Category() Category {
	return tableCategories[t]
}

// MediaItem is a record stored in one of the media tables.
// It is a closed sum type: *Book, *Game and *Video are the only variants.
type MediaItem interface {
	Category() Category
	// Identifier returns the backend id, or "" when unset.
	Identifier() string
	// Name returns the title, or "" when unset.
	Name() string
	// Values returns the set (non-nil) columns keyed by column name, id excluded.
	Values() map[string]string
	isMediaItem()
}

// Book is a row of the books table.
type Book struct {
	ID     *string `json:"id,omitempty"`
	Title  *string `json:"title" validate:"required"`
	Author *string `json:"author" validate:"required"`
	Genre  *string `json:"genre" validate:"required"`
}

// Game is a row of the games table.
type Game struct {
	ID       *string `json:"id,omitempty"`
	Title    *string `json:"title" validate:"required"`
	Studio   *string `json:"studio" validate:"required"`
	Platform *string `json:"platform" validate:"required"`
	Genre    *string `json:"genre" validate:"required"`
}

// Video is a row of the movies or shows table.
type Video struct {
	ID       *string `json:"id,omitempty"`
	Title    *string `json:"title" validate:"required"`
	Director *string `json:"director" validate:"required"`
	Genre    *string `json:"genre" validate:"required"`
}

func (*Book) Category() Category  { return CategoryBook }
func (*Game) Category() Category  { return CategoryGame }
func (*Video) Category() Category { return CategoryVideo }

func (b *Book) Identifier() string  { return deref(b.ID) }
func (g *Game) Identifier() string  { return deref(g.ID) }
func (v *Video) Identifier() string { return deref(v.ID) }

func (b *Book) Name() string  { return deref(b.Title) }
func (g *Game) Name() string  { return deref(g.Title) }
func (v *Video) Name() string { return deref(v.Title) }

func (b *Book) Values() map[string]string {
	return collect(map[string]*string{"title": b.Title, "author": b.Author, "genre": b.Genre})
}

func (g *Game) Values() map[string]string {
	return collect(map[string]*string{"title": g.Title, "studio": g.Studio, "platform": g.Platform, "genre": g.Genre})
}

func (v *Video) Values() map[string]string {
	return collect(map[string]*string{"title": v.Title, "director": v.Director, "genre": v.Genre})
}

func (*Book) isMediaItem()  {}
func (*Game) isMediaItem()  {}
func (*Video) isMediaItem() {}

// NewMediaItem returns an empty variant for the table's category.
func NewMediaItem(table Table) (MediaItem, error) {
	switch table.Category() {
	case CategoryBook:
		return &Book{}, nil
	case CategoryGame:
		return &Game{}, nil
	case CategoryVideo:
		return &Video{}, nil
	default:
		return nil, fmt.Errorf("unknown table %q", table)
	}
}

// DecodeMediaItem decodes raw JSON into the variant stored by table.
func DecodeMediaItem(table Table, raw []byte) (MediaItem, error) {
	item, err := NewMediaItem(table)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, item); err != nil {
		return nil, fmt.Errorf("decode %s item: %w", table, err)
	}
	return item, nil
}

// MediaItemFromValues builds a variant for table from column values.
// Columns absent from values stay nil.
func MediaItemFromValues(table Table, id string, values map[string]string) (MediaItem, error) {
	ptr := func(col string) *string {
		if v, ok := values[col]; ok {
			return &v
		}
		return nil
	}
	var idPtr *string
	if id != "" {
		idPtr = &id
	}

	switch table.Category() {
	case CategoryBook:
		return &Book{ID: idPtr, Title: ptr("title"), Author: ptr("author"), Genre: ptr("genre")}, nil
	case CategoryGame:
		return &Game{ID: idPtr, Title: ptr("title"), Studio: ptr("studio"), Platform: ptr("platform"), Genre: ptr("genre")}, nil
	case CategoryVideo:
		return &Video{ID: idPtr, Title: ptr("title"), Director: ptr("director"), Genre: ptr("genre")}, nil
	default:
		return nil, fmt.Errorf("unknown table %q", table)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func collect(fields map[string]*string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if v != nil {
			out[k] = *v
		}
	}
	return out
}
