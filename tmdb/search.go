package tmdb

import (
	"context"
	"fmt"
	"strings"
)

// SearchMovies searches movies by title
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*Page[Movie], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &Page[Movie]{Page: 1}, nil
	}

	params := c.pageParams(page)
	params.Set("query", query)

	var p Page[Movie]
	if err := c.getJSON(ctx, "/search/movie", params, &p); err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	return &p, nil
}

// SearchTV searches TV shows by name
func (c *Client) SearchTV(ctx context.Context, query string, page int) (*Page[TVShow], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &Page[TVShow]{Page: 1}, nil
	}

	params := c.pageParams(page)
	params.Set("query", query)

	var p Page[TVShow]
	if err := c.getJSON(ctx, "/search/tv", params, &p); err != nil {
		return nil, fmt.Errorf("failed to search tv shows: %w", err)
	}
	return &p, nil
}
