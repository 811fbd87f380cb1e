package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/s0up4200/cloudmovies/tmdb"
	"github.com/s0up4200/cloudmovies/watchlist"
)

var (
	discoverLimit int
	byGenre       bool
	searchTV      bool
	searchPage    int
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Show popular, upcoming and top rated movies and TV shows",
	Args:  cobra.NoArgs,
	RunE:  runDiscover,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search TMDB for movies or TV shows",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(discoverCmd, searchCmd)

	discoverCmd.Flags().IntVarP(&discoverLimit, "limit", "n", 5, "titles per section")
	discoverCmd.Flags().BoolVar(&byGenre, "by-genre", false, "group all titles by genre instead of by section")

	searchCmd.Flags().BoolVar(&searchTV, "tv", false, "search TV shows instead of movies")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "result page")
}

func printEntry(e watchlist.Entry) {
	fmt.Printf("  • %s", e.Title)
	if e.Year > 0 {
		fmt.Printf(" (%d)", e.Year)
	}
	if e.Rating > 0 {
		color.New(color.FgYellow).Printf("  ★ %.1f", e.Rating)
	}
	color.New(color.FgHiBlack).Printf("  [%s %d]\n", e.MediaType, e.MediaID)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := newTMDBClient()
	if err != nil {
		return err
	}

	result, err := client.Discover(ctx)
	if err != nil {
		return err
	}

	if byGenre {
		return printByGenre(cmd, client, result)
	}

	cyan := color.New(color.FgCyan, color.Bold)
	gray := color.New(color.FgHiBlack)
	section := func(name tmdb.DiscoverSection, entries []watchlist.Entry) {
		cyan.Printf("\n%s\n", name)
		if err := result.Errors[name]; err != nil {
			gray.Printf("  unavailable: %v\n", err)
			return
		}
		if len(entries) == 0 {
			gray.Println("  nothing here")
			return
		}
		for _, e := range entries {
			printEntry(e)
		}
	}

	for _, name := range tmdb.MovieSections {
		section(name, toEntries(limit(result.Movies[name], discoverLimit), watchlist.FromMovie))
	}
	for _, name := range tmdb.TVSections {
		section(name, toEntries(limit(result.TV[name], discoverLimit), watchlist.FromTV))
	}
	return nil
}

// printByGenre regroups every discover title under its genres
func printByGenre(cmd *cobra.Command, client *tmdb.Client, result *tmdb.DiscoverResult) error {
	ctx := cmd.Context()

	movieGenres, err := client.MovieGenres(ctx)
	if err != nil {
		return err
	}
	tvGenres, err := client.TVGenres(ctx)
	if err != nil {
		return err
	}

	movies := result.AllMovies()
	shows := result.AllTV()

	cyan := color.New(color.FgCyan, color.Bold)
	bold := color.New(color.Bold)

	bold.Println("\nMOVIES")
	grouped := tmdb.GroupByGenre(movies, movieGenres)
	for _, genre := range tmdb.SortedGenreNames(grouped) {
		cyan.Printf("\n%s\n", genre)
		for _, e := range toEntries(limit(grouped[genre], discoverLimit), watchlist.FromMovie) {
			printEntry(e)
		}
	}

	bold.Println("\nTV SHOWS")
	groupedTV := tmdb.GroupByGenre(shows, tvGenres)
	for _, genre := range tmdb.SortedGenreNames(groupedTV) {
		cyan.Printf("\n%s\n", genre)
		for _, e := range toEntries(limit(groupedTV[genre], discoverLimit), watchlist.FromTV) {
			printEntry(e)
		}
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("search query cannot be empty")
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()
	mt := tmdb.MediaTypeMovie
	if searchTV {
		mt = tmdb.MediaTypeTV
	}

	var (
		entries    []watchlist.Entry
		page       int
		totalPages int
		total      int
	)
	if mt.IsMovie() {
		p, err := svc.tmdb.SearchMovies(ctx, query, searchPage)
		if err != nil {
			return err
		}
		entries = toEntries(p.Results, watchlist.FromMovie)
		page, totalPages, total = p.Page, p.TotalPages, p.TotalResults
	} else {
		p, err := svc.tmdb.SearchTV(ctx, query, searchPage)
		if err != nil {
			return err
		}
		entries = toEntries(p.Results, watchlist.FromTV)
		page, totalPages, total = p.Page, p.TotalPages, p.TotalResults
	}

	if svc.recents != nil && searchPage <= 1 {
		if err := svc.recents.Record(ctx, mt, query); err != nil {
			logger.Warn().Err(err).Msg("Failed to record recent search")
		}
	}

	if len(entries) == 0 {
		fmt.Printf("No %s found for %q.\n", strings.ToLower(mt.Label()), query)
		return nil
	}

	color.New(color.Bold).Printf("\n%d results for %q (page %d of %d):\n", total, query, page, totalPages)
	for _, e := range entries {
		printEntry(e)
	}
	if page < totalPages {
		color.New(color.FgHiBlack).Printf("\nMore results: --page %d\n", page+1)
	}
	return nil
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

func toEntries[T any](items []T, conv func(T) watchlist.Entry) []watchlist.Entry {
	out := make([]watchlist.Entry, 0, len(items))
	for _, item := range items {
		out = append(out, conv(item))
	}
	return out
}
