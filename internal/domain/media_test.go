package domain

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActionKind(t *testing.T) {
	tests := []struct {
		input string
		want  ActionKind
	}{
		{"", ActionNone},
		{"Tags", ActionListTags},
		{"ListTags", ActionListTags},
		{"Insert", ActionInsert},
		{"Update", ActionUpdate},
		{"Search", ActionSearch},
		{"Count", ActionCount},
		{"Query", ActionQuery},
		{"Anything", ActionQuery},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseActionKind(tt.input))
		})
	}
}

func TestDecodeMediaItem_PicksVariantByTable(t *testing.T) {
	raw := []byte(`{"title":"Dune","director":"Villeneuve","genre":"Sci-Fi"}`)

	item, err := DecodeMediaItem(TableMovies, raw)
	require.NoError(t, err)

	video, ok := item.(*Video)
	require.True(t, ok)
	assert.Equal(t, "Dune", *video.Title)
	assert.Nil(t, video.ID)
	assert.Equal(t, CategoryVideo, item.Category())
}

func TestDecodeMediaItem_UnknownTable(t *testing.T) {
	_, err := DecodeMediaItem(Table("comics"), []byte(`{}`))
	assert.Error(t, err)
}

func TestMediaItem_ValuesSkipsUnset(t *testing.T) {
	title := "Hades"
	game := &Game{Title: &title}

	assert.Equal(t, map[string]string{"title": "Hades"}, game.Values())
	assert.Equal(t, "Hades", game.Name())
	assert.Equal(t, "", game.Identifier())
}

func TestMediaItemFromValues(t *testing.T) {
	item, err := MediaItemFromValues(TableBooks, "b-1", map[string]string{
		"title":  "Emma",
		"author": "Austen",
		"genre":  "Classic",
	})
	require.NoError(t, err)

	assert.Equal(t, "b-1", item.Identifier())
	assert.Equal(t, "Emma", item.Name())

	data, err := json.Marshal(item)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"b-1","title":"Emma","author":"Austen","genre":"Classic"}`, string(data))
}

func TestTable_Fields(t *testing.T) {
	assert.Equal(t, []string{"title", "studio", "platform", "genre"}, TableGames.Fields())
	assert.True(t, TableShows.HasField("director"))
	assert.False(t, TableShows.HasField("author"))
	assert.False(t, Table("comics").Valid())
	assert.Empty(t, Table("comics").Fields())
}

func TestLookupTagList(t *testing.T) {
	tl, ok := LookupTagList("gamePlatforms")
	require.True(t, ok)
	assert.Equal(t, "platforms", tl.Column)
	assert.Equal(t, CategoryGame, tl.Category)

	_, ok = LookupTagList("comicGenres")
	assert.False(t, ok)
}

func TestActionRequest_HasData(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{`{"type":"Insert","table":"books"}`, false},
		{`{"type":"Insert","table":"books","data":null}`, false},
		{`{"type":"Insert","table":"books","data":{}}`, true},
		{`{"type":"Insert","table":"books","data":{"title":"Emma"}}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var req ActionRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.HasData())
		})
	}
}
