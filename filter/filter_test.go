package filter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{name: "simple comparison", expression: `Year > 2000`},
		{name: "helpers", expression: `containsFold(Title, "dune") and daysSince(AddedAt) < 30`},
		{name: "string operators", expression: `Title contains "Du" or Title startsWith "The"`},
		{name: "media flags", expression: `IsMovie or (IsTV and Rating >= 8)`},
		{name: "empty expression", expression: "   ", wantErr: true, errContains: "empty expression"},
		{name: "invalid syntax", expression: `containsFold(Title, "unclosed`, wantErr: true},
		{name: "unknown field", expression: `Runtime > 90`, wantErr: true},
		{name: "non boolean result", expression: `Year + 1`, wantErr: true},
	}

	c := NewExprCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := c.Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var ce *CompilationError
				assert.True(t, errors.As(err, &ce))
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, f)
		})
	}
}

func TestMatch(t *testing.T) {
	dune := Media{
		TMDBID:    438631,
		MediaType: "movie",
		Title:     "Dune",
		Year:      2021,
		Rating:    7.8,
		AddedAt:   time.Now().AddDate(0, 0, -10),
	}
	office := Media{
		TMDBID:    2316,
		MediaType: "tv",
		Title:     "The Office",
		Year:      2005,
		Rating:    8.6,
		AddedAt:   time.Now().AddDate(-2, 0, 0),
	}

	tests := []struct {
		name       string
		expression string
		media      Media
		want       bool
	}{
		{"movie flag", `IsMovie`, dune, true},
		{"tv flag", `IsTV`, dune, false},
		{"rating threshold", `Rating >= 8`, office, true},
		{"added recently", `daysSince(AddedAt) < 30`, dune, true},
		{"added before", `AddedAt < yearsAgo(1)`, office, true},
		{"title contains", `containsFold(Title, "office")`, office, true},
		{"title prefix", `hasPrefix(Title, "the ")`, dune, false},
		{"title prefix folded", `hasPrefix(Title, "the ")`, office, true},
		{"title suffix", `hasSuffix(Title, "UNE")`, dune, true},
		{"lowered operator", `lower(Title) startsWith "the "`, office, true},
		{"media type string", `MediaType == "tv" and Year < 2010`, office, true},
		{"id", `TMDBID == 438631`, dune, true},
	}

	c := NewExprCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := c.Compile(tt.expression)
			require.NoError(t, err)

			got, err := f.Match(tt.media)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatch_RuntimeError(t *testing.T) {
	f, err := NewExprCompiler().Compile(`int(Overview) > 0`)
	require.NoError(t, err)

	_, err = f.Match(Media{Title: "Up", Overview: "a balloon house"})
	require.Error(t, err)

	var ee *EvaluationError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "Up", ee.MediaTitle)
}

func TestCompilerCache(t *testing.T) {
	c := NewExprCompiler(WithCache(2))

	first, err := c.Compile(`Year > 1`)
	require.NoError(t, err)
	again, err := c.Compile(` Year > 1 `)
	require.NoError(t, err)
	assert.Same(t, first, again)

	_, err = c.Compile(`Year > 2`)
	require.NoError(t, err)
	_, err = c.Compile(`Year > 3`)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Size())

	c.Clear()
	assert.Zero(t, c.Size())

	uncached := NewExprCompiler(WithCache(0))
	_, err = uncached.Compile(`Year > 1`)
	require.NoError(t, err)
	assert.Zero(t, uncached.Size())
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)
	c.Put("a", 1)
	c.Put("b", 2)
	_, _ = c.Get("a")
	c.Put("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "least recently used entry should be evicted")
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestWithCustomFunctions(t *testing.T) {
	c := NewExprCompiler(WithCustomFunctions(map[string]any{
		"isClassic": func(year int) bool { return year < 1980 },
	}))

	f, err := c.Compile(`isClassic(Year)`)
	require.NoError(t, err)

	ok, err := f.Match(Media{Year: 1968})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestManager(t *testing.T) {
	m := NewManager()

	require.NoError(t, m.RegisterPresets(map[string]string{
		"movies":  `IsMovie`,
		"classic": `Year < 1980`,
	}))
	assert.Equal(t, []string{"classic", "movies"}, m.Presets())

	f, err := m.Preset("classic")
	require.NoError(t, err)
	assert.Equal(t, "Year < 1980", f.Expression())

	_, err = m.Preset("missing")
	assert.ErrorIs(t, err, ErrUnknownPreset)

	err = m.RegisterPresets(map[string]string{"bad": `Year >`, "good": `IsTV`})
	require.Error(t, err)
	assert.NotContains(t, m.Presets(), "good")
}

func TestApply(t *testing.T) {
	type item struct {
		title string
		year  int
	}
	items := []item{{"Alien", 1979}, {"Dune", 2021}, {"Psycho", 1960}}

	f, err := NewExprCompiler().Compile(`Year < 1980`)
	require.NoError(t, err)

	got, err := Apply(f, items, func(i item) Media {
		return Media{Title: i.title, Year: i.year}
	})
	require.NoError(t, err)
	assert.Equal(t, []item{{"Alien", 1979}, {"Psycho", 1960}}, got)
}
