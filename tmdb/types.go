package tmdb

import (
	"fmt"
	"strconv"
	"time"
)

// MediaType represents the type of media
type MediaType string

const (
	// MediaTypeMovie represents a movie
	MediaTypeMovie MediaType = "movie"
	// MediaTypeTV represents a TV show
	MediaTypeTV MediaType = "tv"
)

// ParseMediaType accepts "movie", "movies", "tv", "show" and "shows"
func ParseMediaType(s string) (MediaType, error) {
	switch s {
	case "movie", "movies":
		return MediaTypeMovie, nil
	case "tv", "show", "shows":
		return MediaTypeTV, nil
	}
	return "", fmt.Errorf("unknown media type %q (want movie or tv)", s)
}

// IsMovie checks if the media type is a movie
func (mt MediaType) IsMovie() bool {
	return mt == MediaTypeMovie
}

// Label returns a human friendly plural label
func (mt MediaType) Label() string {
	if mt.IsMovie() {
		return "Movies"
	}
	return "TV Shows"
}

// Movie is a movie as returned by list and search endpoints
type Movie struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	Popularity    float64 `json:"popularity"`
	GenreIDs      []int   `json:"genre_ids"`
	Adult         bool    `json:"adult"`
}

// Year returns the release year or 0 when unknown
func (m Movie) Year() int {
	return yearOf(m.ReleaseDate)
}

// GenreIDList returns the genre ids of the movie
func (m Movie) GenreIDList() []int {
	return m.GenreIDs
}

// TVShow is a TV show as returned by list and search endpoints
type TVShow struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	OriginalName  string   `json:"original_name"`
	Overview      string   `json:"overview"`
	FirstAirDate  string   `json:"first_air_date"`
	PosterPath    string   `json:"poster_path"`
	BackdropPath  string   `json:"backdrop_path"`
	VoteAverage   float64  `json:"vote_average"`
	VoteCount     int      `json:"vote_count"`
	Popularity    float64  `json:"popularity"`
	GenreIDs      []int    `json:"genre_ids"`
	OriginCountry []string `json:"origin_country"`
}

// Year returns the first air year or 0 when unknown
func (s TVShow) Year() int {
	return yearOf(s.FirstAirDate)
}

// GenreIDList returns the genre ids of the show
func (s TVShow) GenreIDList() []int {
	return s.GenreIDs
}

// MovieDetails is the response of /movie/{id}
type MovieDetails struct {
	Movie
	Runtime  int     `json:"runtime"`
	Tagline  string  `json:"tagline"`
	Status   string  `json:"status"`
	ImdbID   string  `json:"imdb_id"`
	Homepage string  `json:"homepage"`
	Genres   []Genre `json:"genres"`
}

// TVDetails is the response of /tv/{id}
type TVDetails struct {
	TVShow
	NumberOfSeasons  int     `json:"number_of_seasons"`
	NumberOfEpisodes int     `json:"number_of_episodes"`
	Status           string  `json:"status"`
	Tagline          string  `json:"tagline"`
	Genres           []Genre `json:"genres"`
}

// Genre is a TMDB genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type genreList struct {
	Genres []Genre `json:"genres"`
}

// Page is one page of a paginated TMDB response
type Page[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// HasMorePages checks if there are more pages to fetch
func (p *Page[T]) HasMorePages() bool {
	return p.Page < p.TotalPages
}

// NextPage returns the next page number, or an error if there are no more pages
func (p *Page[T]) NextPage() (int, error) {
	if !p.HasMorePages() {
		return 0, fmt.Errorf("no more pages available")
	}
	return p.Page + 1, nil
}

// RequestToken is a short lived token used to create a user session
type RequestToken struct {
	Success      bool   `json:"success"`
	ExpiresAt    string `json:"expires_at"`
	RequestToken string `json:"request_token"`
}

// Session is an authenticated user session
type Session struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
}

// GuestSession is an anonymous session with limited permissions
type GuestSession struct {
	Success        bool   `json:"success"`
	GuestSessionID string `json:"guest_session_id"`
	ExpiresAt      string `json:"expires_at"`
}

// Expires parses ExpiresAt ("2016-08-27 16:26:40 UTC")
func (g GuestSession) Expires() (time.Time, error) {
	return time.Parse("2006-01-02 15:04:05 MST", g.ExpiresAt)
}

// Account is the account owning a session
type Account struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// statusResponse is TMDB's generic status envelope
type statusResponse struct {
	Success       *bool  `json:"success"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return y
}
