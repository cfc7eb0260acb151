package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/mediashelf/internal/domain"
	domainerrors "github.com/listenupapp/mediashelf/internal/errors"
	"github.com/listenupapp/mediashelf/internal/validation"
)

const testKey = "s3cret"

func TestPayloadValidator_Validate(t *testing.T) {
	p := validation.NewPayloadValidator(testKey)

	//nolint:govet // fieldalignment: Minor memory optimization not worth the complexity in test code
	tests := []struct {
		name       string
		req        domain.ActionRequest
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "missing type wins over everything",
			req:        domain.ActionRequest{Table: "books", Key: "wrong"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    validation.MsgMissingType,
		},
		{
			name:       "missing type and table reports type",
			req:        domain.ActionRequest{},
			wantStatus: http.StatusBadRequest,
			wantMsg:    validation.MsgMissingType,
		},
		{
			name:       "missing table",
			req:        domain.ActionRequest{Type: "Search", Query: "dune", Key: testKey},
			wantStatus: http.StatusBadRequest,
			wantMsg:    validation.MsgMissingTable,
		},
		{
			name:       "tags without tagList",
			req:        domain.ActionRequest{Type: "Tags", Table: "books", Key: testKey},
			wantStatus: http.StatusBadRequest,
			wantMsg:    validation.MsgMissingTagList,
		},
		{
			name:       "insert without data",
			req:        domain.ActionRequest{Type: "Insert", Table: "books", Key: testKey},
			wantStatus: http.StatusBadRequest,
			wantMsg:    validation.MsgMissingInsertData,
		},
		{
			name:       "insert with null data",
			req:        domain.ActionRequest{Type: "Insert", Table: "books", Data: []byte(`null`), Key: testKey},
			wantStatus: http.StatusBadRequest,
			wantMsg:    validation.MsgMissingInsertData,
		},
		{
			name:       "insert with a missing author",
			req:        domain.ActionRequest{Type: "Insert", Table: "books", Data: []byte(`{"title":"Emma","genre":"Classic"}`), Key: testKey},
			wantStatus: http.StatusBadRequest,
			wantMsg:    validation.MsgMissingInsertData,
		},
		{
			name:       "insert with a null field",
			req:        domain.ActionRequest{Type: "Insert", Table: "books", Data: []byte(`{"title":"Emma","author":null,"genre":"Classic"}`), Key: testKey},
			wantStatus: http.StatusBadRequest,
			wantMsg:    validation.MsgMissingInsertData,
		},
		{
			name:       "insert into unknown table",
			req:        domain.ActionRequest{Type: "Insert", Table: "comics", Data: []byte(`{"title":"Maus"}`), Key: testKey},
			wantStatus: http.StatusBadRequest,
			wantMsg:    validation.MsgMissingInsertData,
		},
		{
			name:       "update with incomplete data",
			req:        domain.ActionRequest{Type: "Update", Table: "games", Data: []byte(`{"id":"g1","title":"Hades"}`), Key: testKey},
			wantStatus: http.StatusBadRequest,
			wantMsg:    validation.MsgMissingUpdateData,
		},
		{
			name:       "search without query",
			req:        domain.ActionRequest{Type: "Search", Table: "movies", Key: testKey},
			wantStatus: http.StatusBadRequest,
			wantMsg:    validation.MsgMissingQuery,
		},
		{
			name:       "count without column",
			req:        domain.ActionRequest{Type: "Count", Table: "movies", Key: testKey},
			wantStatus: http.StatusBadRequest,
			wantMsg:    validation.MsgMissingCountColumn,
		},
		{
			name:       "field checks run before auth",
			req:        domain.ActionRequest{Type: "Count", Table: "movies"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    validation.MsgMissingCountColumn,
		},
		{
			name:       "missing key",
			req:        domain.ActionRequest{Type: "Query", Table: "movies"},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    validation.MsgMissingKey,
		},
		{
			name:       "wrong key",
			req:        domain.ActionRequest{Type: "Query", Table: "movies", Key: "guess"},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    validation.MsgUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Validate(&tt.req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantStatus, domainErr.HTTPStatus())
			assert.Equal(t, tt.wantMsg, domainErr.Message)
		})
	}
}

func TestPayloadValidator_AcceptsValidPayloads(t *testing.T) {
	p := validation.NewPayloadValidator(testKey)

	reqs := []domain.ActionRequest{
		{Type: "Tags", Table: "books", TagList: "bookGenres", Key: testKey},
		{Type: "Insert", Table: "books", Data: []byte(`{"title":"Emma","author":"Austen","genre":"Classic"}`), Key: testKey},
		{Type: "Update", Table: "shows", Data: []byte(`{"id":"s1","title":"Dark","director":"Odar","genre":"Sci-Fi"}`), Key: testKey},
		{Type: "Search", Table: "games", Query: "zelda", Key: testKey},
		{Type: "Count", Table: "games", CountColumn: "platform", Key: testKey},
		{Type: "Query", Table: "movies", Key: testKey},
		{Type: "Whatever", Table: "movies", Key: testKey},
	}

	for _, req := range reqs {
		t.Run(req.Type, func(t *testing.T) {
			assert.NoError(t, p.Validate(&req))
		})
	}
}

func TestPayloadValidator_TagsErrorWithTable(t *testing.T) {
	p := validation.NewPayloadValidator(testKey)

	err := p.Validate(&domain.ActionRequest{Type: "Query", Table: "books", Key: "nope"})

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "books", domainErr.Table)
}
