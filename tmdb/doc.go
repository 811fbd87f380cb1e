// Package tmdb provides a client for The Movie Database (TMDB) v3 API.
//
// Only the parts of the API the application uses are implemented:
// authentication (request tokens, user and guest sessions), the movie and
// TV lists shown on the discover screen, search, details, genres and the
// account watchlist.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := tmdb.NewClient(
//		tmdb.DefaultBaseURL,
//		"your-api-key",
//		logger,
//		tmdb.WithTimeout(15*time.Second),
//		tmdb.WithLanguage("en-US"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	popular, err := client.PopularMovies(ctx, 1)
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError, which carries both the HTTP
// status and TMDB's own status code:
//
//	var apiErr *tmdb.APIError
//	if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
//		// bad credentials or API key
//	}
package tmdb
