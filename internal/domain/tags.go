package domain

// TagList names a tag catalogue in the backend's metadata schema.
type TagList struct {
	Name string
	// Column is the metadata table suffix: meta_<Column>.
	Column string
	// Category filters the metadata rows to one media category.
	Category Category
}

var tagLists = map[string]TagList{
	"bookGenres":    {Name: "bookGenres", Column: "genres", Category: CategoryBook},
	"gameGenres":    {Name: "gameGenres", Column: "genres", Category: CategoryGame},
	"gamePlatforms": {Name: "gamePlatforms", Column: "platforms", Category: CategoryGame},
	"videoGenres":   {Name: "videoGenres", Column: "genres", Category: CategoryVideo},
}

// LookupTagList returns the catalogue registered under name.
func LookupTagList(name string) (TagList, bool) {
	tl, ok := tagLists[name]
	return tl, ok
}
