package radarr

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golift.io/starr/radarr"
)

// DefaultConcurrency is the number of movies pushed at once
const DefaultConcurrency = 5

// Candidate is a watchlisted movie to hand over
type Candidate struct {
	TMDBID int64
	Title  string
	Year   int
}

// PushOptions controls Push
type PushOptions struct {
	QualityProfile string // name; empty picks the first profile
	RootFolder     string // path; empty picks the first root folder
	Monitored      bool
	Search         bool // search for newly added movies
	SearchMissing  bool // search for existing movies without a file
	DryRun         bool
	Concurrency    int
}

// PushStatus is the outcome for one candidate
type PushStatus string

const (
	StatusAdded    PushStatus = "added"
	StatusExists   PushStatus = "exists"
	StatusWouldAdd PushStatus = "would_add"
	StatusFailed   PushStatus = "failed"
)

// PushResult is the outcome of pushing one candidate
type PushResult struct {
	Candidate Candidate
	Status    PushStatus
	RadarrID  int64
	HasFile   bool
	Err       error
}

// Push adds candidates that Radarr does not have yet. Candidates are
// processed concurrently; per-movie failures are reported in the results
// and do not stop the others. Results keep the order of candidates.
func (c *Client) Push(ctx context.Context, candidates []Candidate, opts PushOptions) ([]PushResult, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	profileID, err := c.ResolveQualityProfile(ctx, opts.QualityProfile)
	if err != nil {
		return nil, err
	}
	rootFolder, err := c.ResolveRootFolder(ctx, opts.RootFolder)
	if err != nil {
		return nil, err
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	results := make([]PushResult, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, cand := range candidates {
		g.Go(func() error {
			results[i] = c.pushOne(gctx, cand, profileID, rootFolder, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	added := 0
	var missing []int64
	for _, r := range results {
		switch {
		case r.Status == StatusAdded:
			added++
		case r.Status == StatusExists && !r.HasFile:
			missing = append(missing, r.RadarrID)
		}
	}
	if opts.SearchMissing && !opts.DryRun && len(missing) > 0 {
		if err := c.SearchMovies(ctx, missing...); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to search existing movies")
		}
	}
	c.logger.Info().
		Int("candidates", len(candidates)).
		Int("added", added).
		Bool("dry_run", opts.DryRun).
		Msg("Radarr push finished")

	return results, nil
}

func (c *Client) pushOne(ctx context.Context, cand Candidate, profileID int64, rootFolder string, opts PushOptions) PushResult {
	result := PushResult{Candidate: cand}

	existing, err := c.FindByTMDBID(ctx, cand.TMDBID)
	if err != nil {
		result.Status = StatusFailed
		result.Err = err
		return result
	}
	if existing != nil {
		result.Status = StatusExists
		result.RadarrID = existing.ID
		result.HasFile = existing.HasFile
		c.logger.Debug().Str("title", cand.Title).Int64("radarr_id", existing.ID).Msg("Already in Radarr")
		return result
	}

	if opts.DryRun {
		result.Status = StatusWouldAdd
		return result
	}

	movie, err := c.api.AddMovieContext(ctx, &radarr.AddMovieInput{
		Title:            cand.Title,
		Year:             cand.Year,
		TmdbID:           cand.TMDBID,
		QualityProfileID: profileID,
		RootFolderPath:   rootFolder,
		Monitored:        opts.Monitored,
		AddOptions:       &radarr.AddMovieOptions{SearchForMovie: opts.Search},
	})
	if err != nil {
		result.Status = StatusFailed
		result.Err = fmt.Errorf("failed to add %s: %w", cand.Title, err)
		c.logger.Warn().Err(err).Str("title", cand.Title).Msg("Failed to add movie to Radarr")
		return result
	}

	result.Status = StatusAdded
	result.RadarrID = movie.ID
	c.logger.Info().Str("title", cand.Title).Int64("radarr_id", movie.ID).Msg("Added movie to Radarr")
	return result
}
