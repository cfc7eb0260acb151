package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/mediashelf/internal/domain"
	domainerrors "github.com/listenupapp/mediashelf/internal/errors"
	"github.com/listenupapp/mediashelf/internal/mediastore"
	"github.com/listenupapp/mediashelf/internal/metrics"
)

// fakeStore records calls and returns canned results.
type fakeStore struct {
	calls []string

	tags   []string
	items  []domain.MediaItem
	counts domain.CountResult
	title  string
	err    error

	gotColumn   string
	gotCategory domain.Category
	gotPattern  string
	gotID       string
	gotItem     domain.MediaItem
}

var _ mediastore.MediaStore = (*fakeStore)(nil)

func (f *fakeStore) ListTags(_ context.Context, column string, category domain.Category) ([]string, error) {
	f.calls = append(f.calls, "ListTags")
	f.gotColumn, f.gotCategory = column, category
	return f.tags, f.err
}

func (f *fakeStore) ListItems(_ context.Context, _ domain.Table) ([]domain.MediaItem, error) {
	f.calls = append(f.calls, "ListItems")
	return f.items, f.err
}

func (f *fakeStore) SearchItems(_ context.Context, _ domain.Table, pattern string) ([]domain.MediaItem, error) {
	f.calls = append(f.calls, "SearchItems")
	f.gotPattern = pattern
	return f.items, f.err
}

func (f *fakeStore) InsertItem(_ context.Context, _ domain.Table, item domain.MediaItem) (string, error) {
	f.calls = append(f.calls, "InsertItem")
	f.gotItem = item
	return f.title, f.err
}

func (f *fakeStore) UpdateItem(_ context.Context, _ domain.Table, id string, item domain.MediaItem) (string, error) {
	f.calls = append(f.calls, "UpdateItem")
	f.gotID, f.gotItem = id, item
	return f.title, f.err
}

func (f *fakeStore) AggregateCount(_ context.Context, _ domain.Table, column string) (domain.CountResult, error) {
	f.calls = append(f.calls, "AggregateCount")
	f.gotColumn = column
	return f.counts, f.err
}

func setupActionService(store *fakeStore) *ActionService {
	return NewActionService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func encode(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestDispatch_ListTags(t *testing.T) {
	store := &fakeStore{tags: []string{"PC", "Switch"}}
	svc := setupActionService(store)

	env, err := svc.Dispatch(context.Background(), &domain.ActionRequest{
		Type: "Tags", Table: "games", TagList: "gamePlatforms",
	})
	require.NoError(t, err)

	assert.Equal(t, "platforms", store.gotColumn)
	assert.Equal(t, domain.CategoryGame, store.gotCategory)
	assert.JSONEq(t, `{"tags":["PC","Switch"],"table":"games","location":"gamePlatforms"}`, encode(t, env))
}

func TestDispatch_ListTags_UnknownList(t *testing.T) {
	store := &fakeStore{}
	svc := setupActionService(store)

	_, err := svc.Dispatch(context.Background(), &domain.ActionRequest{
		Type: "Tags", Table: "games", TagList: "comicGenres",
	})

	require.ErrorIs(t, err, domainerrors.ErrBackend)
	assert.ErrorIs(t, err, ErrUnknownTagList)
	assert.Empty(t, store.calls)
}

func TestDispatch_Insert(t *testing.T) {
	store := &fakeStore{title: "Emma"}
	svc := setupActionService(store)

	env, err := svc.Dispatch(context.Background(), &domain.ActionRequest{
		Type:  "Insert",
		Table: "books",
		Data:  json.RawMessage(`{"title":"Emma","author":"Austen","genre":"Classic"}`),
	})
	require.NoError(t, err)

	require.IsType(t, &domain.Book{}, store.gotItem)
	assert.Equal(t, "Austen", *store.gotItem.(*domain.Book).Author)
	assert.JSONEq(t, `{"saved":"Emma","table":"books","location":"Insert"}`, encode(t, env))
}

func TestDispatch_Insert_Duplicate(t *testing.T) {
	store := &fakeStore{err: mediastore.ErrDuplicateItem}
	svc := setupActionService(store)

	_, err := svc.Dispatch(context.Background(), &domain.ActionRequest{
		Type:  "Insert",
		Table: "books",
		Data:  json.RawMessage(`{"title":"Emma","author":"Austen","genre":"Classic"}`),
	})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domainerrors.CodeBackend, domainErr.Code)
	assert.Equal(t, "media item already exists", domainErr.Message)
	assert.Equal(t, "books", domainErr.Table)
	assert.Equal(t, "Insert", domainErr.Location)
	assert.ErrorIs(t, err, mediastore.ErrDuplicateItem)
}

func TestDispatch_Update(t *testing.T) {
	store := &fakeStore{title: "Heat (1995)"}
	svc := setupActionService(store)

	env, err := svc.Dispatch(context.Background(), &domain.ActionRequest{
		Type:  "Update",
		Table: "movies",
		Data:  json.RawMessage(`{"id":"m1","title":"Heat (1995)","director":"Mann","genre":"Crime"}`),
	})
	require.NoError(t, err)

	assert.Equal(t, "m1", store.gotID)
	assert.JSONEq(t, `{"updated":"Heat (1995)","table":"movies","location":"Update"}`, encode(t, env))
}

func TestDispatch_Search(t *testing.T) {
	title, director, genre := "Alien", "Scott", "Horror"
	store := &fakeStore{items: []domain.MediaItem{&domain.Video{Title: &title, Director: &director, Genre: &genre}}}
	svc := setupActionService(store)

	env, err := svc.Dispatch(context.Background(), &domain.ActionRequest{
		Type: "Search", Table: "movies", Query: "ali",
	})
	require.NoError(t, err)

	assert.Equal(t, "ali", store.gotPattern)
	assert.JSONEq(t, `{"items":[{"title":"Alien","director":"Scott","genre":"Horror"}],"table":"movies"}`, encode(t, env))
}

func TestDispatch_Count_SortedDescending(t *testing.T) {
	store := &fakeStore{counts: domain.CountResult{
		{Value: "Action", Count: 3},
		{Value: "Comedy", Count: 3},
		{Value: "Drama", Count: 5},
	}}
	svc := setupActionService(store)

	env, err := svc.Dispatch(context.Background(), &domain.ActionRequest{
		Type: "Count", Table: "movies", CountColumn: "genre",
	})
	require.NoError(t, err)

	assert.Equal(t, "genre", store.gotColumn)
	count := env.(CountEnvelope).Count
	assert.Equal(t, domain.CountResult{
		{Value: "Drama", Count: 5},
		{Value: "Action", Count: 3},
		{Value: "Comedy", Count: 3},
	}, count)
	assert.Equal(t, `{"count":{"Drama":5,"Action":3,"Comedy":3},"table":"movies"}`, encode(t, env))
}

func TestDispatch_Query(t *testing.T) {
	tests := []struct {
		name string
		typ  string
	}{
		{name: "explicit query", typ: "Query"},
		{name: "unknown type falls back to query", typ: "Browse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			svc := setupActionService(store)

			env, err := svc.Dispatch(context.Background(), &domain.ActionRequest{Type: tt.typ, Table: "shows"})
			require.NoError(t, err)

			assert.Equal(t, []string{"ListItems"}, store.calls)
			assert.JSONEq(t, `{"items":[],"table":"shows"}`, encode(t, env))
		})
	}
}

func TestDispatch_BackendError(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	svc := setupActionService(store)

	_, err := svc.Dispatch(context.Background(), &domain.ActionRequest{Type: "Query", Table: "books"})

	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "connection refused", domainErr.Message)
	assert.Equal(t, "Query", domainErr.Location)
}

func TestDispatch_BackendMetricsUseBoundedTableLabel(t *testing.T) {
	store := &fakeStore{err: mediastore.ErrUnknownTable}
	svc := setupActionService(store)

	before := testutil.ToFloat64(metrics.BackendErrors.WithLabelValues("Query", metrics.UnknownTable))
	for _, table := range []string{"comics", "users", "x1"} {
		_, err := svc.Dispatch(context.Background(), &domain.ActionRequest{Type: "Query", Table: table})
		require.Error(t, err)
	}
	after := testutil.ToFloat64(metrics.BackendErrors.WithLabelValues("Query", metrics.UnknownTable))
	assert.Equal(t, before+3, after)

	for _, table := range []string{"comics", "users", "x1"} {
		assert.Zero(t, testutil.ToFloat64(metrics.BackendErrors.WithLabelValues("Query", table)))
	}

	store.err = nil
	before = testutil.ToFloat64(metrics.BackendErrors.WithLabelValues("Query", "books"))
	_, err := svc.Dispatch(context.Background(), &domain.ActionRequest{Type: "Query", Table: "books"})
	require.NoError(t, err)
	assert.Equal(t, before, testutil.ToFloat64(metrics.BackendErrors.WithLabelValues("Query", "books")))
}
