package radarr

import (
	"context"

	"golift.io/starr/radarr"
)

// RadarrAPI is the part of the starr Radarr client used for the hand-off
type RadarrAPI interface {
	GetMovieContext(ctx context.Context, params *radarr.GetMovie) ([]*radarr.Movie, error)
	AddMovieContext(ctx context.Context, movie *radarr.AddMovieInput) (*radarr.Movie, error)

	GetQualityProfilesContext(ctx context.Context) ([]*radarr.QualityProfile, error)
	GetRootFoldersContext(ctx context.Context) ([]*radarr.RootFolder, error)

	SendCommandContext(ctx context.Context, cmd *radarr.CommandRequest) (*radarr.CommandResponse, error)

	Ping() error
}

// Pusher hands watchlisted movies over to Radarr
type Pusher interface {
	Push(ctx context.Context, candidates []Candidate, opts PushOptions) ([]PushResult, error)
}

var _ Pusher = (*Client)(nil)
