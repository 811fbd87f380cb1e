package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/s0up4200/cloudmovies/radarr"
	"github.com/s0up4200/cloudmovies/tmdb"
	"github.com/s0up4200/cloudmovies/watchlist"
)

var (
	// Command flags
	filterExpr    string
	preset        string
	listType      string
	dryRun        bool
	searchMissing bool
)

// watchlistCmd groups the watchlist subcommands
var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Manage your watchlist",
}

var watchlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List watchlist entries, optionally filtered",
	Long: `List the entries on your watchlist, newest first.

Entries can be narrowed down with an expression or a preset from the config:

  cloudmovies watchlist list --filter 'IsMovie && Rating >= 7.5'
  cloudmovies watchlist list --filter 'daysSince(AddedAt) < 30' --type tv
  cloudmovies watchlist list --preset unwatched-classics`,
	Args: cobra.NoArgs,
	RunE: runWatchlistList,
}

var watchlistAddCmd = &cobra.Command{
	Use:   "add <movie|tv> <id>",
	Short: "Add a movie or TV show by TMDB id",
	Args:  cobra.ExactArgs(2),
	RunE:  runWatchlistAdd,
}

var watchlistRemoveCmd = &cobra.Command{
	Use:   "remove <movie|tv> <id>",
	Short: "Remove a movie or TV show by TMDB id",
	Args:  cobra.ExactArgs(2),
	RunE:  runWatchlistRemove,
}

var watchlistPushCmd = &cobra.Command{
	Use:   "push-radarr",
	Short: "Add watchlisted movies to Radarr",
	Long: `Hand the movies on your watchlist over to Radarr. Movies Radarr already
knows are skipped; the rest are added with the configured quality profile
and root folder.`,
	Args: cobra.NoArgs,
	RunE: runWatchlistPush,
}

func init() {
	rootCmd.AddCommand(watchlistCmd)
	watchlistCmd.AddCommand(watchlistListCmd, watchlistAddCmd, watchlistRemoveCmd, watchlistPushCmd)

	watchlistListCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	watchlistListCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	watchlistListCmd.Flags().StringVarP(&listType, "type", "t", "", "only list movie or tv entries")
	watchlistListCmd.MarkFlagsMutuallyExclusive("filter", "preset")

	watchlistPushCmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "show what would be added without changing Radarr")
	watchlistPushCmd.Flags().BoolVar(&searchMissing, "search-missing", false, "also search for movies Radarr has without a file")
}

// parseMediaArgs parses "<movie|tv> <id>"
func parseMediaArgs(args []string) (tmdb.MediaType, int64, error) {
	mt, err := tmdb.ParseMediaType(args[0])
	if err != nil {
		return "", 0, err
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("invalid id '%s': must be a positive integer", args[1])
	}
	return mt, id, nil
}

func runWatchlistList(cmd *cobra.Command, args []string) error {
	var mt tmdb.MediaType
	if listType != "" {
		var err error
		if mt, err = tmdb.ParseMediaType(listType); err != nil {
			return err
		}
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()
	var entries []watchlist.Entry
	switch {
	case filterExpr != "":
		logger.Debug().Str("filter", filterExpr).Msg("Filtering watchlist")
		entries, err = svc.watchlist.Filter(ctx, filterExpr, mt)
	case preset != "":
		logger.Debug().Str("preset", preset).Msg("Filtering watchlist")
		entries, err = svc.watchlist.FilterPreset(ctx, preset, mt)
	default:
		entries, err = svc.watchlist.List(ctx, mt)
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No watchlist entries found.")
		return nil
	}

	bold := color.New(color.Bold)
	gray := color.New(color.FgHiBlack)
	yellow := color.New(color.FgYellow)

	bold.Printf("\nFound %d entries:\n", len(entries))
	for _, e := range entries {
		fmt.Printf("• %s", e.Title)
		if e.Year > 0 {
			fmt.Printf(" (%d)", e.Year)
		}
		if e.Rating > 0 {
			yellow.Printf("  ★ %.1f", e.Rating)
		}
		gray.Printf("  [%s %d, added %s]\n", e.MediaType, e.MediaID, e.AddedAt.Local().Format("2006-01-02"))
	}

	if id := svc.auth.Current(); id.Guest {
		gray.Println("\nGuest session: this watchlist is stored on this computer only.")
	}
	return nil
}

func runWatchlistAdd(cmd *cobra.Command, args []string) error {
	mt, id, err := parseMediaArgs(args)
	if err != nil {
		return err
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()
	var entry watchlist.Entry
	if mt.IsMovie() {
		details, err := svc.tmdb.MovieDetails(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to look up movie %d: %w", id, err)
		}
		entry = watchlist.FromMovie(details.Movie)
	} else {
		details, err := svc.tmdb.TVDetails(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to look up TV show %d: %w", id, err)
		}
		entry = watchlist.FromTV(details.TVShow)
	}

	if err := svc.watchlist.Add(ctx, entry); err != nil {
		return err
	}
	color.Green("✓ Added %s to your watchlist", entry.Title)
	return nil
}

func runWatchlistRemove(cmd *cobra.Command, args []string) error {
	mt, id, err := parseMediaArgs(args)
	if err != nil {
		return err
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.watchlist.Remove(cmd.Context(), mt, id); err != nil {
		if errors.Is(err, watchlist.ErrNotFound) {
			return fmt.Errorf("%s %d is not on your watchlist", mt, id)
		}
		return err
	}
	color.Green("✓ Removed %s %d from your watchlist", mt, id)
	return nil
}

func runWatchlistPush(cmd *cobra.Command, args []string) error {
	if !cfg.Radarr.Enabled {
		return fmt.Errorf("radarr is not enabled. Please set radarr.enabled, radarr.url and radarr.api_key in config")
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()
	entries, err := svc.watchlist.List(ctx, tmdb.MediaTypeMovie)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No movies on your watchlist.")
		return nil
	}

	client, err := radarr.NewClient(cfg.Radarr.URL, cfg.Radarr.APIKey, logger)
	if err != nil {
		return err
	}

	candidates := make([]radarr.Candidate, 0, len(entries))
	for _, e := range entries {
		candidates = append(candidates, radarr.Candidate{TMDBID: e.MediaID, Title: e.Title, Year: e.Year})
	}

	logger.Info().Int("movies", len(candidates)).Bool("dry_run", dryRun).Msg("Pushing watchlist to Radarr")
	results, err := client.Push(ctx, candidates, radarr.PushOptions{
		QualityProfile: cfg.Radarr.QualityProfile,
		RootFolder:     cfg.Radarr.RootFolder,
		Monitored:      cfg.Radarr.Monitored,
		Search:         cfg.Radarr.Search,
		SearchMissing:  searchMissing,
		DryRun:         dryRun,
		Concurrency:    cfg.Radarr.Concurrency,
	})
	if err != nil {
		return err
	}

	if dryRun {
		color.Yellow("[DRY RUN] No changes were made")
	}
	fmt.Print(radarr.FormatPushResults(results))
	return nil
}
