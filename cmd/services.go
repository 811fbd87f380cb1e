package cmd

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/s0up4200/cloudmovies/auth"
	"github.com/s0up4200/cloudmovies/filter"
	"github.com/s0up4200/cloudmovies/keychain"
	"github.com/s0up4200/cloudmovies/session"
	"github.com/s0up4200/cloudmovies/settings"
	"github.com/s0up4200/cloudmovies/tmdb"
	"github.com/s0up4200/cloudmovies/watchlist"
)

// services holds everything a command may need, built from cfg
type services struct {
	db        *sql.DB
	settings  *settings.Store
	keys      *keychain.Store
	tmdb      *tmdb.Client
	bus       *session.Bus
	auth      *auth.Authenticator
	filters   *filter.Manager
	watchlist *watchlist.Service
	recents   *watchlist.RecentSearches
}

func newTMDBClient() (*tmdb.Client, error) {
	client, err := tmdb.NewClient(cfg.TMDB.URL, cfg.TMDB.APIKey, logger,
		tmdb.WithTimeout(cfg.TMDB.Timeout),
		tmdb.WithLanguage(cfg.TMDB.Language),
		tmdb.WithRegion(cfg.TMDB.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create TMDB client: %w", err)
	}
	return client, nil
}

// openServices wires the stores, the TMDB client and the authenticator
func openServices() (*services, error) {
	s := &services{}
	var err error

	s.settings, err = settings.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}

	s.keys, err = keychain.Open(cfg.Storage.DataDir, s.settings.InstallID())
	if err != nil {
		return nil, err
	}

	s.tmdb, err = newTMDBClient()
	if err != nil {
		return nil, err
	}

	s.db, err = watchlist.OpenDB(cfg.Storage.Database)
	if err != nil {
		return nil, err
	}

	s.filters = filter.NewManager()
	if err := s.filters.RegisterPresets(cfg.Filter.Presets); err != nil {
		s.db.Close()
		return nil, fmt.Errorf("invalid filter preset: %w", err)
	}

	s.bus = session.NewBus(session.DefaultBusSize, logger)
	s.auth = auth.NewAuthenticator(s.tmdb, s.keys, s.bus, logger)

	s.watchlist = watchlist.NewService(watchlist.NewRepository(s.db), logger,
		watchlist.WithRemote(s.tmdb, s.auth),
		watchlist.WithFilters(s.filters),
	)
	if cfg.UI.RecentSearches > 0 {
		s.recents = watchlist.NewRecentSearches(s.db, cfg.UI.RecentSearches)
	}

	logger.Debug().
		Str("data_dir", cfg.Storage.DataDir).
		Str("database", cfg.Storage.Database).
		Strs("presets", s.filters.Presets()).
		Msg("Services ready")

	return s, nil
}

// Close closes the bus and the database
func (s *services) Close() error {
	var errs []error
	if s.bus != nil {
		s.bus.Close()
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	return errors.Join(errs...)
}
