package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/listenupapp/mediashelf/internal/domain"
	domainerrors "github.com/listenupapp/mediashelf/internal/errors"
	"github.com/listenupapp/mediashelf/internal/mediastore"
	"github.com/listenupapp/mediashelf/internal/metrics"
)

// ErrUnknownTagList is returned for a tagList name outside the catalogue.
var ErrUnknownTagList = errors.New("unknown tag list")

// TagsEnvelope is the response to a ListTags action.
type TagsEnvelope struct {
	Tags     []string `json:"tags"`
	Table    string   `json:"table"`
	Location string   `json:"location"`
}

// SavedEnvelope is the response to an Insert action.
type SavedEnvelope struct {
	Saved    string `json:"saved"`
	Table    string `json:"table"`
	Location string `json:"location"`
}

// UpdatedEnvelope is the response to an Update action.
type UpdatedEnvelope struct {
	Updated  string `json:"updated"`
	Table    string `json:"table"`
	Location string `json:"location"`
}

// ItemsEnvelope is the response to Search and Query actions.
type ItemsEnvelope struct {
	Items []domain.MediaItem `json:"items"`
	Table string             `json:"table"`
}

// CountEnvelope is the response to a Count action.
type CountEnvelope struct {
	Count domain.CountResult `json:"count"`
	Table string             `json:"table"`
}

// ActionService routes validated action requests to the media store and
// shapes the results into response envelopes.
type ActionService struct {
	store  mediastore.MediaStore
	logger *slog.Logger
}

// NewActionService creates a new action service.
func NewActionService(store mediastore.MediaStore, logger *slog.Logger) *ActionService {
	return &ActionService{
		store:  store,
		logger: logger,
	}
}

// Dispatch runs the store operation for req's kind and returns its envelope.
// req must already have passed validation. Every store failure comes back
// as a BACKEND domain error carrying the request's table and type.
func (s *ActionService) Dispatch(ctx context.Context, req *domain.ActionRequest) (any, error) {
	kind := req.Kind()
	table := domain.Table(req.Table)

	start := time.Now()
	envelope, err := s.dispatch(ctx, kind, table, req)
	metrics.RecordBackendCall(kind.String(), metricsTable(table), time.Since(start), err)

	if err != nil {
		s.logger.Error("action failed",
			"kind", kind.String(),
			"table", req.Table,
			"error", err,
		)
		return nil, domainerrors.Backend(err).WithTable(req.Table).WithLocation(req.Type)
	}
	return envelope, nil
}

func (s *ActionService) dispatch(ctx context.Context, kind domain.ActionKind, table domain.Table, req *domain.ActionRequest) (any, error) {
	switch kind {
	case domain.ActionListTags:
		list, ok := domain.LookupTagList(req.TagList)
		if !ok {
			return nil, ErrUnknownTagList
		}
		tags, err := s.store.ListTags(ctx, list.Column, list.Category)
		if err != nil {
			return nil, err
		}
		return TagsEnvelope{Tags: nonNil(tags), Table: req.Table, Location: req.TagList}, nil

	case domain.ActionInsert:
		item, err := req.MediaItem()
		if err != nil {
			return nil, err
		}
		saved, err := s.store.InsertItem(ctx, table, item)
		if err != nil {
			return nil, err
		}
		return SavedEnvelope{Saved: saved, Table: req.Table, Location: req.Type}, nil

	case domain.ActionUpdate:
		item, err := req.MediaItem()
		if err != nil {
			return nil, err
		}
		updated, err := s.store.UpdateItem(ctx, table, item.Identifier(), item)
		if err != nil {
			return nil, err
		}
		return UpdatedEnvelope{Updated: updated, Table: req.Table, Location: req.Type}, nil

	case domain.ActionSearch:
		items, err := s.store.SearchItems(ctx, table, req.Query)
		if err != nil {
			return nil, err
		}
		return ItemsEnvelope{Items: nonNil(items), Table: req.Table}, nil

	case domain.ActionCount:
		counts, err := s.store.AggregateCount(ctx, table, req.CountColumn)
		if err != nil {
			return nil, err
		}
		return CountEnvelope{Count: counts.SortedDesc(), Table: req.Table}, nil

	default:
		items, err := s.store.ListItems(ctx, table)
		if err != nil {
			return nil, err
		}
		return ItemsEnvelope{Items: nonNil(items), Table: req.Table}, nil
	}
}

// metricsTable is the table label for backend metrics. Unknown names
// collapse into one series.
func metricsTable(table domain.Table) string {
	if !table.Valid() {
		return metrics.UnknownTable
	}
	return string(table)
}

// nonNil returns s, or an empty slice when s is nil, so lists encode as [].
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
