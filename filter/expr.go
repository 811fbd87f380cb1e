package filter

import (
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// DefaultCacheSize is the number of compiled programs kept by NewExprCompiler
const DefaultCacheSize = 64

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*ExprCompiler)

// WithCache sets the compiled program cache size; 0 disables caching
func WithCache(size int) ExprCompilerOption {
	return func(c *ExprCompiler) {
		c.cache = nil
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *ExprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// ExprCompiler compiles expressions with expr-lang and caches the programs
type ExprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) *ExprCompiler {
	c := &ExprCompiler{
		helperFuncs: helperFunctions(),
		cache:       newLRUCache(DefaultCacheSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles an expression into an executable filter. Unknown
// identifiers and non boolean results are rejected at compile time.
func (c *ExprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
			Position:   -1,
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached.(CompiledFilter), nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(environment(Media{}, c.helperFuncs)),
		expr.AsBool(),
	)
	if err != nil {
		return nil, compilationError(expression, err)
	}

	f := &exprFilter{
		expression: expression,
		program:    program,
		helpers:    c.helperFuncs,
	}

	if c.cache != nil {
		c.cache.Put(expression, f)
	}
	return f, nil
}

// Clear removes all cached programs
func (c *ExprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached programs
func (c *ExprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Match evaluates the filter against one media item
func (f *exprFilter) Match(m Media) (bool, error) {
	result, err := expr.Run(f.program, environment(m, f.helpers))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			MediaTitle: m.Title,
			Reason:     "runtime error",
			Err:        err,
		}
	}
	// AsBool guarantees the type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

func helperFunctions() map[string]any {
	return map[string]any{
		// dates
		"daysSince": func(t time.Time) int {
			return int(time.Since(t).Hours() / 24)
		},
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},
		"monthsAgo": func(months int) time.Time {
			return time.Now().AddDate(0, -months, 0)
		},
		"yearsAgo": func(years int) time.Time {
			return time.Now().AddDate(-years, 0, 0)
		},
		"parseDate": func(s string) time.Time {
			t, _ := time.Parse("2006-01-02", s)
			return t
		},
		"now": time.Now,

		// strings, case insensitive; contains, startsWith and endsWith are
		// reserved operators in expr
		"containsFold": func(s, substr string) bool {
			return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
		},
		"hasPrefix": func(s, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
		},
		"hasSuffix": func(s, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(s), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	}
}

func environment(m Media, helpers map[string]any) map[string]any {
	env := make(map[string]any, len(helpers)+9)
	maps.Copy(env, helpers)

	env["Title"] = m.Title
	env["Overview"] = m.Overview
	env["MediaType"] = m.MediaType
	env["TMDBID"] = m.TMDBID
	env["Year"] = m.Year
	env["Rating"] = m.Rating
	env["AddedAt"] = m.AddedAt
	env["IsMovie"] = m.MediaType == "movie"
	env["IsTV"] = m.MediaType == "tv"
	return env
}
