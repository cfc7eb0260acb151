package domain

import "github.com/goccy/go-json"

// ActionKind is the operation requested by a payload.
type ActionKind int

// Action kinds. ActionQuery is the fallback for any unrecognized type.
const (
	ActionNone ActionKind = iota
	ActionListTags
	ActionInsert
	ActionUpdate
	ActionSearch
	ActionCount
	ActionQuery
)

// ParseActionKind maps the wire "type" value to an ActionKind.
// An empty value is ActionNone; an unknown value falls through to ActionQuery.
func ParseActionKind(s string) ActionKind {
	switch s {
	case "":
		return ActionNone
	case "Tags", "ListTags":
		return ActionListTags
	case "Insert":
		return ActionInsert
	case "Update":
		return ActionUpdate
	case "Search":
		return ActionSearch
	case "Count":
		return ActionCount
	default:
		return ActionQuery
	}
}

func (k ActionKind) String() string {
	switch k {
	case ActionListTags:
		return "ListTags"
	case ActionInsert:
		return "Insert"
	case ActionUpdate:
		return "Update"
	case ActionSearch:
		return "Search"
	case ActionCount:
		return "Count"
	case ActionQuery:
		return "Query"
	default:
		return "None"
	}
}

// ActionRequest is the JSON body of an inbound request.
// Data stays raw until the table is known, since the table decides the variant.
type ActionRequest struct {
	Type        string          `json:"type"`
	Table       string          `json:"table"`
	TagList     string          `json:"tagList,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
	Query       string          `json:"query,omitempty"`
	CountColumn string          `json:"countColumn,omitempty"`

	// Key is the shared secret, read from the "key" request header.
	Key string `json:"-"`
}

// Kind returns the parsed action kind.
func (r *ActionRequest) Kind() ActionKind {
	return ParseActionKind(r.Type)
}

// HasData reports whether a non-null data object was sent.
func (r *ActionRequest) HasData() bool {
	return len(r.Data) > 0 && string(r.Data) != "null"
}

// MediaItem decodes Data into the variant for Table.
func (r *ActionRequest) MediaItem() (MediaItem, error) {
	return DecodeMediaItem(Table(r.Table), r.Data)
}
