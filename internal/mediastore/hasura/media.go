package hasura

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/listenupapp/mediashelf/internal/domain"
	"github.com/listenupapp/mediashelf/internal/mediastore"
)

var _ mediastore.MediaStore = (*Client)(nil)

// tagColumns are the metadata tables that hold tag names.
var tagColumns = map[string]bool{
	"genres":    true,
	"platforms": true,
}

// ListTags returns the names in meta_<column> for one media category.
func (c *Client) ListTags(ctx context.Context, column string, category domain.Category) ([]string, error) {
	if !tagColumns[column] {
		return nil, wrapError("listTags", "", fmt.Errorf("%w: meta_%s", mediastore.ErrUnknownColumn, column))
	}

	field := "meta_" + column
	query := fmt.Sprintf(`query ListTags($category: String!) {
  %s(order_by: {name: asc}, where: {schema: {_eq: "media"}, table: {_eq: $category}}) {
    name
  }
}`, field)

	var rows []struct {
		Name string `json:"name"`
	}
	if err := c.execute(ctx, query, map[string]any{"category": string(category)}, field, &rows); err != nil {
		return nil, wrapError("listTags", "", err)
	}

	tags := make([]string, 0, len(rows))
	for _, r := range rows {
		tags = append(tags, r.Name)
	}
	return tags, nil
}

// ListItems returns every row of media_<table>, title ascending.
func (c *Client) ListItems(ctx context.Context, table domain.Table) ([]domain.MediaItem, error) {
	if err := mediastore.CheckTable(table); err != nil {
		return nil, wrapError("listItems", table, err)
	}

	field := "media_" + string(table)
	query := fmt.Sprintf(`query ListItems {
  %s(order_by: {title: asc}) {
    %s
  }
}`, field, selection(table))

	items, err := c.queryItems(ctx, table, query, nil, field)
	if err != nil {
		return nil, wrapError("listItems", table, err)
	}
	return items, nil
}

// SearchItems returns rows whose title contains pattern, case-insensitively.
func (c *Client) SearchItems(ctx context.Context, table domain.Table, pattern string) ([]domain.MediaItem, error) {
	if err := mediastore.CheckTable(table); err != nil {
		return nil, wrapError("searchItems", table, err)
	}

	field := "media_" + string(table)
	query := fmt.Sprintf(`query SearchItems($pattern: String!) {
  %s(order_by: {title: asc}, where: {title: {_ilike: $pattern}}) {
    %s
  }
}`, field, selection(table))

	vars := map[string]any{"pattern": "%" + escapeLike(pattern) + "%"}
	items, err := c.queryItems(ctx, table, query, vars, field)
	if err != nil {
		return nil, wrapError("searchItems", table, err)
	}
	return items, nil
}

// InsertItem inserts item unless a row with the same title (ignoring case) exists.
// The existence check and the insert are separate round trips.
func (c *Client) InsertItem(ctx context.Context, table domain.Table, item domain.MediaItem) (string, error) {
	if err := mediastore.CheckTable(table); err != nil {
		return "", wrapError("insertItem", table, err)
	}

	exists, err := c.titleExists(ctx, table, item.Name())
	if err != nil {
		return "", wrapError("insertItem", table, err)
	}
	if exists {
		return "", wrapError("insertItem", table, mediastore.ErrDuplicateItem)
	}

	field := "insert_media_" + string(table) + "_one"
	query := fmt.Sprintf(`mutation InsertItem($object: media_%s_insert_input!) {
  %s(object: $object) {
    title
  }
}`, table, field)

	object := item.Values()
	if id := item.Identifier(); id != "" {
		object["id"] = id
	}

	var row struct {
		Title string `json:"title"`
	}
	if err := c.execute(ctx, query, map[string]any{"object": object}, field, &row); err != nil {
		return "", wrapError("insertItem", table, err)
	}

	c.logger.Info("media item inserted", "table", table, "title", row.Title)
	return row.Title, nil
}

// UpdateItem sets the fields of the row with id and returns its title.
func (c *Client) UpdateItem(ctx context.Context, table domain.Table, id string, item domain.MediaItem) (string, error) {
	if err := mediastore.CheckTable(table); err != nil {
		return "", wrapError("updateItem", table, err)
	}
	if id == "" {
		return "", wrapError("updateItem", table, mediastore.ErrMissingID)
	}

	field := "update_media_" + string(table)
	query := fmt.Sprintf(`mutation UpdateItem($id: %s!, $set: media_%s_set_input!) {
  %s(where: {id: {_eq: $id}}, _set: $set) {
    returning {
      title
    }
  }
}`, c.idType, table, field)

	var result struct {
		Returning []struct {
			Title string `json:"title"`
		} `json:"returning"`
	}
	vars := map[string]any{"id": id, "set": item.Values()}
	if err := c.execute(ctx, query, vars, field, &result); err != nil {
		return "", wrapError("updateItem", table, err)
	}
	if len(result.Returning) == 0 {
		return "", wrapError("updateItem", table, mediastore.ErrItemNotFound)
	}

	c.logger.Info("media item updated", "table", table, "id", id)
	return result.Returning[0].Title, nil
}

// AggregateCount tallies column values of media_<table>.
// Rows come back ordered by the column, so equal counts keep that order.
func (c *Client) AggregateCount(ctx context.Context, table domain.Table, column string) (domain.CountResult, error) {
	if err := mediastore.CheckColumn(table, column); err != nil {
		return nil, wrapError("aggregateCount", table, err)
	}

	field := "media_" + string(table)
	query := fmt.Sprintf(`query AggregateCount {
  %s(order_by: {%s: asc}) {
    %s
  }
}`, field, column, column)

	var rows []map[string]any
	if err := c.execute(ctx, query, nil, field, &rows); err != nil {
		return nil, wrapError("aggregateCount", table, err)
	}

	values := make([]string, 0, len(rows))
	for _, row := range rows {
		if v, ok := scalarString(row[column]); ok {
			values = append(values, v)
		}
	}
	return domain.CountValues(values), nil
}

func (c *Client) titleExists(ctx context.Context, table domain.Table, title string) (bool, error) {
	field := "media_" + string(table)
	query := fmt.Sprintf(`query FindByTitle($title: String!) {
  %s(where: {title: {_ilike: $title}}, limit: 1) {
    id
  }
}`, field)

	var rows []map[string]any
	if err := c.execute(ctx, query, map[string]any{"title": escapeLike(title)}, field, &rows); err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

func (c *Client) queryItems(ctx context.Context, table domain.Table, query string, vars map[string]any, field string) ([]domain.MediaItem, error) {
	var rows []map[string]any
	if err := c.execute(ctx, query, vars, field, &rows); err != nil {
		return nil, err
	}

	items := make([]domain.MediaItem, 0, len(rows))
	for _, row := range rows {
		values := make(map[string]string, len(row))
		for _, col := range table.Fields() {
			if v, ok := scalarString(row[col]); ok {
				values[col] = v
			}
		}
		id, _ := scalarString(row["id"])

		item, err := domain.MediaItemFromValues(table, id, values)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// selection is the GraphQL selection set for a table's rows.
func selection(table domain.Table) string {
	return strings.Join(append(table.Fields(), "id"), "\n    ")
}

// escapeLike escapes LIKE metacharacters so s matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// scalarString renders a JSON scalar as a string. Null and composite values report false.
func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}
