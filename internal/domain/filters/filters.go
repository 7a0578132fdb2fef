package filters

import (
	"errors"
	"strings"
)

const (
	AscSort  = "ASC"
	DescSort = "DESC"
)

// Kind selects one of the catalog filter queries.
type Kind int

const (
	KindAll Kind = iota
	KindGenre
	KindTopIMDb
	KindMostLiked
	KindNewRelease
	KindYear
	KindFree
)

var kindNames = map[Kind]string{
	KindAll:        "all",
	KindGenre:      "genre",
	KindTopIMDb:    "top_imdb",
	KindMostLiked:  "most_liked",
	KindNewRelease: "top_new_release",
	KindYear:       "year",
	KindFree:       "free",
}

// ParseKind maps a request "type" to a Kind. Unknown values fall back to KindAll.
func ParseKind(s string) Kind {
	for kind, name := range kindNames {
		if name == s {
			return kind
		}
	}
	return KindAll
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindAll]
}

// Sortable movie fields.
var MovieSortSafelist = []string{"rating", "likes", "release_date", "title", "created_at"}

type Filters struct {
	Limit        int
	Sort         string
	SortSafelist []string
}

func (f *Filters) SortColumn() string {
	s := strings.TrimPrefix(f.Sort, "-")
	for _, safeValue := range f.SortSafelist {
		if strings.EqualFold(s, safeValue) {
			return safeValue
		}
	}
	panic(errors.New("Unknown sort column: " + f.Sort))
}

func (f *Filters) SortDirection() string {
	if strings.HasPrefix(f.Sort, "-") {
		return DescSort
	}
	return AscSort
}

func (f *Filters) HasSort() bool {
	return f.Sort != ""
}
