package mediastore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/goccy/go-json"

	"github.com/listenupapp/mediashelf/internal/domain"
)

// Fixtures maps table names to raw item objects.
type Fixtures map[string][]json.RawMessage

// SeedReport summarizes a Seed run.
type SeedReport struct {
	Inserted int
	Skipped  int // duplicates already present
}

// ReadFixtures decodes a fixtures document: {"books": [{...}], "games": [...]}.
func ReadFixtures(r io.Reader) (Fixtures, error) {
	var f Fixtures
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return f, nil
}

// Seed inserts every fixture into store. Items whose title already exists
// are skipped; any other failure stops the run.
func Seed(ctx context.Context, store MediaStore, fixtures Fixtures) (SeedReport, error) {
	var report SeedReport

	tables := make([]string, 0, len(fixtures))
	for name := range fixtures {
		tables = append(tables, name)
	}
	slices.Sort(tables)

	for _, name := range tables {
		table := domain.Table(name)
		if err := CheckTable(table); err != nil {
			return report, fmt.Errorf("%w: %s", err, name)
		}

		for i, raw := range fixtures[name] {
			item, err := domain.DecodeMediaItem(table, raw)
			if err != nil {
				return report, fmt.Errorf("%s[%d]: %w", name, i, err)
			}

			_, err = store.InsertItem(ctx, table, item)
			switch {
			case errors.Is(err, ErrDuplicateItem):
				report.Skipped++
			case err != nil:
				return report, fmt.Errorf("%s[%d] %q: %w", name, i, item.Name(), err)
			default:
				report.Inserted++
			}
		}
	}

	return report, nil
}
