// Package filter compiles expr-lang expressions and evaluates them against
// watchlist media.
//
// Fields available in expressions:
//
//	Title, Overview, MediaType ("movie" or "tv"), TMDBID, Year, Rating,
//	AddedAt, IsMovie, IsTV
//
// Helpers: daysSince, daysAgo, monthsAgo, yearsAgo, parseDate, containsFold,
// hasPrefix, hasSuffix, lower, upper, now. The case sensitive string
// operators contains, startsWith and endsWith are built into expr.
//
//	IsMovie and Rating >= 7.5
//	daysSince(AddedAt) > 30 and Year < 2000
//	containsFold(Title, "star")
//	lower(Title) startsWith "the "
package filter

import (
	"time"
)

// Media is the view of a watchlist entry that expressions evaluate against
type Media struct {
	TMDBID    int64
	MediaType string
	Title     string
	Overview  string
	Year      int
	Rating    float64
	AddedAt   time.Time
}

// Filter checks media against a criterion
type Filter interface {
	Match(m Media) (bool, error)
}

// CompiledFilter is a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	Compile(expression string) (CompiledFilter, error)
}
