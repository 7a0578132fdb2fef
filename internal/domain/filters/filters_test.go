package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"genre":           KindGenre,
		"top_imdb":        KindTopIMDb,
		"most_liked":      KindMostLiked,
		"top_new_release": KindNewRelease,
		"year":            KindYear,
		"free":            KindFree,
		"":                KindAll,
		"popular":         KindAll,
		"GENRE":           KindAll,
	}
	for input, expected := range cases {
		assert.Equal(t, expected, ParseKind(input), "input %q", input)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "top_new_release", KindNewRelease.String())
	assert.Equal(t, "all", Kind(99).String())
}

func TestSort(t *testing.T) {
	f := Filters{Sort: "-rating", SortSafelist: MovieSortSafelist}
	assert.Equal(t, "rating", f.SortColumn())
	assert.Equal(t, DescSort, f.SortDirection())

	f.Sort = "title"
	assert.Equal(t, AscSort, f.SortDirection())

	f.Sort = "-password"
	assert.Panics(t, func() { f.SortColumn() })
}
