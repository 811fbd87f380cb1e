package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DiscoverConcurrency bounds the number of list requests in flight
const DiscoverConcurrency = 4

func (c *Client) pageParams(page int) url.Values {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	if c.region != "" {
		params.Set("region", c.region)
	}
	return params
}

func (c *Client) moviePage(ctx context.Context, endpoint string, page int) (*Page[Movie], error) {
	var p Page[Movie]
	if err := c.getJSON(ctx, endpoint, c.pageParams(page), &p); err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", endpoint, err)
	}
	return &p, nil
}

func (c *Client) tvPage(ctx context.Context, endpoint string, page int) (*Page[TVShow], error) {
	var p Page[TVShow]
	if err := c.getJSON(ctx, endpoint, c.pageParams(page), &p); err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", endpoint, err)
	}
	return &p, nil
}

// PopularMovies returns /movie/popular
func (c *Client) PopularMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return c.moviePage(ctx, "/movie/popular", page)
}

// NowPlayingMovies returns /movie/now_playing
func (c *Client) NowPlayingMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return c.moviePage(ctx, "/movie/now_playing", page)
}

// UpcomingMovies returns /movie/upcoming
func (c *Client) UpcomingMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return c.moviePage(ctx, "/movie/upcoming", page)
}

// TopRatedMovies returns /movie/top_rated
func (c *Client) TopRatedMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return c.moviePage(ctx, "/movie/top_rated", page)
}

// PopularTV returns /tv/popular
func (c *Client) PopularTV(ctx context.Context, page int) (*Page[TVShow], error) {
	return c.tvPage(ctx, "/tv/popular", page)
}

// TopRatedTV returns /tv/top_rated
func (c *Client) TopRatedTV(ctx context.Context, page int) (*Page[TVShow], error) {
	return c.tvPage(ctx, "/tv/top_rated", page)
}

// AiringThisWeekTV returns the weekly TV trending list
func (c *Client) AiringThisWeekTV(ctx context.Context, page int) (*Page[TVShow], error) {
	return c.tvPage(ctx, "/trending/tv/week", page)
}

// OnTheAirTV returns shows with an episode airing in the next seven days
func (c *Client) OnTheAirTV(ctx context.Context, page int) (*Page[TVShow], error) {
	return c.tvPage(ctx, "/tv/on_the_air", page)
}

// MovieGenres returns the movie genre list
func (c *Client) MovieGenres(ctx context.Context) ([]Genre, error) {
	var list genreList
	if err := c.getJSON(ctx, "/genre/movie/list", nil, &list); err != nil {
		return nil, fmt.Errorf("failed to get movie genres: %w", err)
	}
	return list.Genres, nil
}

// TVGenres returns the TV genre list
func (c *Client) TVGenres(ctx context.Context) ([]Genre, error) {
	var list genreList
	if err := c.getJSON(ctx, "/genre/tv/list", nil, &list); err != nil {
		return nil, fmt.Errorf("failed to get tv genres: %w", err)
	}
	return list.Genres, nil
}

// MovieDetails returns /movie/{id}
func (c *Client) MovieDetails(ctx context.Context, id int64) (*MovieDetails, error) {
	var d MovieDetails
	if err := c.getJSON(ctx, "/movie/"+strconv.FormatInt(id, 10), nil, &d); err != nil {
		return nil, fmt.Errorf("failed to get movie %d: %w", id, err)
	}
	return &d, nil
}

// TVDetails returns /tv/{id}
func (c *Client) TVDetails(ctx context.Context, id int64) (*TVDetails, error) {
	var d TVDetails
	if err := c.getJSON(ctx, "/tv/"+strconv.FormatInt(id, 10), nil, &d); err != nil {
		return nil, fmt.Errorf("failed to get tv show %d: %w", id, err)
	}
	return &d, nil
}

// DiscoverSection names one list of the discover screen
type DiscoverSection string

const (
	SectionPopularMovies    DiscoverSection = "Popular Movies"
	SectionNowPlaying       DiscoverSection = "Now Playing"
	SectionUpcoming         DiscoverSection = "Upcoming"
	SectionTopRatedMovies   DiscoverSection = "Top Rated Movies"
	SectionPopularTV        DiscoverSection = "Popular TV Shows"
	SectionTopRatedTV       DiscoverSection = "Top Rated TV Shows"
	SectionAiringThisWeekTV DiscoverSection = "This Week"
	SectionOnTheAirTV       DiscoverSection = "New Episodes"
)

// MovieSections lists the movie sections in display order
var MovieSections = []DiscoverSection{SectionPopularMovies, SectionNowPlaying, SectionUpcoming, SectionTopRatedMovies}

// TVSections lists the TV sections in display order
var TVSections = []DiscoverSection{SectionPopularTV, SectionTopRatedTV, SectionAiringThisWeekTV, SectionOnTheAirTV}

// DiscoverResult holds the first page of every discover list. Sections
// that failed are recorded in Errors and left empty.
type DiscoverResult struct {
	Movies map[DiscoverSection][]Movie
	TV     map[DiscoverSection][]TVShow
	Errors map[DiscoverSection]error
}

// AllMovies returns the movies of every section in display order, each
// title once
func (r *DiscoverResult) AllMovies() []Movie {
	var out []Movie
	seen := make(map[int64]bool)
	for _, name := range MovieSections {
		for _, m := range r.Movies[name] {
			if !seen[m.ID] {
				seen[m.ID] = true
				out = append(out, m)
			}
		}
	}
	return out
}

// AllTV returns the shows of every section in display order, each title once
func (r *DiscoverResult) AllTV() []TVShow {
	var out []TVShow
	seen := make(map[int64]bool)
	for _, name := range TVSections {
		for _, s := range r.TV[name] {
			if !seen[s.ID] {
				seen[s.ID] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// Discover fetches every discover list concurrently. It only fails when
// every list failed.
func (c *Client) Discover(ctx context.Context) (*DiscoverResult, error) {
	result := &DiscoverResult{
		Movies: make(map[DiscoverSection][]Movie),
		TV:     make(map[DiscoverSection][]TVShow),
		Errors: make(map[DiscoverSection]error),
	}

	movieFetchers := map[DiscoverSection]func(context.Context, int) (*Page[Movie], error){
		SectionPopularMovies:  c.PopularMovies,
		SectionNowPlaying:     c.NowPlayingMovies,
		SectionUpcoming:       c.UpcomingMovies,
		SectionTopRatedMovies: c.TopRatedMovies,
	}
	tvFetchers := map[DiscoverSection]func(context.Context, int) (*Page[TVShow], error){
		SectionPopularTV:        c.PopularTV,
		SectionTopRatedTV:       c.TopRatedTV,
		SectionAiringThisWeekTV: c.AiringThisWeekTV,
		SectionOnTheAirTV:       c.OnTheAirTV,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DiscoverConcurrency)

	var mu sync.Mutex
	fail := func(section DiscoverSection, err error) {
		c.logger.Warn().Err(err).Str("section", string(section)).Msg("Failed to load discover section")
		mu.Lock()
		result.Errors[section] = err
		mu.Unlock()
	}

	for section, fetch := range movieFetchers {
		g.Go(func() error {
			page, err := fetch(gctx, 1)
			if err != nil {
				fail(section, err)
				return nil
			}
			mu.Lock()
			result.Movies[section] = page.Results
			mu.Unlock()
			return nil
		})
	}
	for section, fetch := range tvFetchers {
		g.Go(func() error {
			page, err := fetch(gctx, 1)
			if err != nil {
				fail(section, err)
				return nil
			}
			mu.Lock()
			result.TV[section] = page.Results
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(result.Errors) == len(movieFetchers)+len(tvFetchers) {
		for _, err := range result.Errors {
			return nil, fmt.Errorf("failed to load discover lists: %w", err)
		}
	}

	c.logger.Debug().
		Int("movie_sections", len(result.Movies)).
		Int("tv_sections", len(result.TV)).
		Int("failed", len(result.Errors)).
		Msg("Loaded discover lists")

	return result, nil
}

// GenreTagged is implemented by Movie and TVShow
type GenreTagged interface {
	GenreIDList() []int
}

// GroupByGenre buckets items by genre name. An item appears under each of
// its genres; unknown genre ids are ignored. Buckets keep input order.
func GroupByGenre[T GenreTagged](items []T, genres []Genre) map[string][]T {
	names := make(map[int]string, len(genres))
	for _, g := range genres {
		names[g.ID] = g.Name
	}

	grouped := make(map[string][]T)
	for _, item := range items {
		for _, id := range item.GenreIDList() {
			if name, ok := names[id]; ok {
				grouped[name] = append(grouped[name], item)
			}
		}
	}
	return grouped
}

// SortedGenreNames returns the keys of a GroupByGenre result in order
func SortedGenreNames[T any](grouped map[string][]T) []string {
	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
