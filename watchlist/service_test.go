package watchlist

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/cloudmovies/auth"
	"github.com/s0up4200/cloudmovies/filter"
	"github.com/s0up4200/cloudmovies/tmdb"
)

type mirrorCall struct {
	accountID int64
	sessionID string
	mediaType tmdb.MediaType
	mediaID   int64
	on        bool
}

// mockRemote implements tmdb.WatchlistAPI
type mockRemote struct {
	calls []mirrorCall
	err   error
}

func (m *mockRemote) SetWatchlist(ctx context.Context, accountID int64, sessionID string, mediaType tmdb.MediaType, mediaID int64, on bool) error {
	m.calls = append(m.calls, mirrorCall{accountID, sessionID, mediaType, mediaID, on})
	return m.err
}

type staticSession auth.Identity

func (s staticSession) Current() auth.Identity {
	return auth.Identity(s)
}

func newTestService(t *testing.T, opts ...ServiceOption) *Service {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), DBFileName))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewService(NewRepository(db), zerolog.Nop(), opts...)
}

var (
	dune   = Entry{MediaType: tmdb.MediaTypeMovie, MediaID: 438631, Title: "Dune", Year: 2021, Rating: 7.8}
	alien  = Entry{MediaType: tmdb.MediaTypeMovie, MediaID: 348, Title: "Alien", Year: 1979, Rating: 8.1}
	office = Entry{MediaType: tmdb.MediaTypeTV, MediaID: 2316, Title: "The Office", Year: 2005, Rating: 8.6}
)

func TestOpenDB_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DBFileName)

	db, err := OpenDB(path)
	require.NoError(t, err)
	_, err = NewRepository(db).Insert(context.Background(), Entry{MediaType: tmdb.MediaTypeMovie, MediaID: 1, Title: "x", AddedAt: time.Now()})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// second open finds no pending migrations
	db, err = OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	entries, err := NewRepository(db).List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestService_AddListRemove(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	require.NoError(t, s.Add(ctx, dune))
	require.NoError(t, s.Add(ctx, alien))
	require.NoError(t, s.Add(ctx, office))

	movies, err := s.List(ctx, tmdb.MediaTypeMovie)
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "Alien", movies[0].Title, "newest first")
	assert.False(t, movies[0].AddedAt.IsZero())

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	ids, err := s.IDs(ctx, tmdb.MediaTypeTV)
	require.NoError(t, err)
	assert.Equal(t, []int64{2316}, ids)

	ok, err := s.Contains(ctx, tmdb.MediaTypeMovie, 438631)
	require.NoError(t, err)
	assert.True(t, ok)

	// same id, other media type
	ok, err = s.Contains(ctx, tmdb.MediaTypeTV, 438631)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Remove(ctx, tmdb.MediaTypeMovie, 438631))
	ok, err = s.Contains(ctx, tmdb.MediaTypeMovie, 438631)
	require.NoError(t, err)
	assert.False(t, ok)

	err = s.Remove(ctx, tmdb.MediaTypeMovie, 438631)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_AddTwiceKeepsAddedAt(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	first := dune
	first.AddedAt = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, s.Add(ctx, first))

	updated := dune
	updated.Rating = 9.1
	require.NoError(t, s.Add(ctx, updated))

	entries, err := s.List(ctx, tmdb.MediaTypeMovie)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 9.1, entries[0].Rating)
	assert.True(t, first.AddedAt.Equal(entries[0].AddedAt))
}

func TestService_AddInvalid(t *testing.T) {
	s := newTestService(t)

	tests := []Entry{
		{MediaType: tmdb.MediaTypeMovie, Title: "no id"},
		{MediaType: tmdb.MediaTypeMovie, MediaID: 1, Title: "  "},
		{MediaType: "podcast", MediaID: 1, Title: "x"},
	}
	for _, e := range tests {
		assert.ErrorIs(t, s.Add(context.Background(), e), ErrInvalidEntry)
	}
}

func TestService_Mirror(t *testing.T) {
	ctx := context.Background()

	t.Run("signed in", func(t *testing.T) {
		remote := &mockRemote{}
		s := newTestService(t, WithRemote(remote, staticSession{SessionID: "sess", AccountID: 42}))

		require.NoError(t, s.Add(ctx, office))
		require.NoError(t, s.Add(ctx, office))
		require.NoError(t, s.Remove(ctx, tmdb.MediaTypeTV, 2316))

		assert.Equal(t, []mirrorCall{
			{42, "sess", tmdb.MediaTypeTV, 2316, true},
			{42, "sess", tmdb.MediaTypeTV, 2316, false},
		}, remote.calls)
	})

	t.Run("guest stays local", func(t *testing.T) {
		remote := &mockRemote{}
		s := newTestService(t, WithRemote(remote, staticSession{SessionID: "guest", Guest: true}))

		require.NoError(t, s.Add(ctx, dune))
		assert.Empty(t, remote.calls)
	})

	t.Run("remote failure is not fatal", func(t *testing.T) {
		remote := &mockRemote{err: errors.New("offline")}
		s := newTestService(t, WithRemote(remote, staticSession{SessionID: "sess", AccountID: 42}))

		require.NoError(t, s.Add(ctx, dune))
		ok, err := s.Contains(ctx, tmdb.MediaTypeMovie, dune.MediaID)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestService_Filter(t *testing.T) {
	ctx := context.Background()
	presets := filter.NewManager()
	require.NoError(t, presets.RegisterPresets(map[string]string{"classics": `Year < 1990`}))

	s := newTestService(t, WithFilters(presets))
	require.NoError(t, s.Add(ctx, dune))
	require.NoError(t, s.Add(ctx, alien))
	require.NoError(t, s.Add(ctx, office))

	got, err := s.Filter(ctx, `Rating > 8`, "")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.Filter(ctx, `Rating > 8`, tmdb.MediaTypeTV)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "The Office", got[0].Title)

	got, err = s.FilterPreset(ctx, "classics", "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alien", got[0].Title)

	_, err = s.FilterPreset(ctx, "nope", "")
	assert.ErrorIs(t, err, filter.ErrUnknownPreset)

	_, err = s.Filter(ctx, `Rating >`, "")
	var ce *filter.CompilationError
	assert.True(t, errors.As(err, &ce))
}

func TestFromTMDB(t *testing.T) {
	m := FromMovie(tmdb.Movie{ID: 1, Title: "Heat", ReleaseDate: "1995-12-15", VoteAverage: 7.9})
	assert.Equal(t, tmdb.MediaTypeMovie, m.MediaType)
	assert.Equal(t, 1995, m.Year)

	tv := FromTV(tmdb.TVShow{ID: 2, Name: "Lost", FirstAirDate: "2004-09-22"})
	assert.Equal(t, tmdb.MediaTypeTV, tv.MediaType)
	assert.Equal(t, "Lost", tv.Title)
	assert.True(t, tv.Media().MediaType == "tv")
}

func TestRecentSearches(t *testing.T) {
	ctx := context.Background()
	db, err := OpenDB(filepath.Join(t.TempDir(), DBFileName))
	require.NoError(t, err)
	defer db.Close()

	r := NewRecentSearches(db, 2)
	require.NoError(t, r.Record(ctx, tmdb.MediaTypeMovie, "alien"))
	require.NoError(t, r.Record(ctx, tmdb.MediaTypeMovie, "dune"))
	require.NoError(t, r.Record(ctx, tmdb.MediaTypeMovie, "heat"))
	require.NoError(t, r.Record(ctx, tmdb.MediaTypeMovie, "  "))
	require.NoError(t, r.Record(ctx, tmdb.MediaTypeTV, "lost"))

	got, err := r.List(ctx, tmdb.MediaTypeMovie)
	require.NoError(t, err)
	assert.Equal(t, []string{"heat", "dune"}, got)

	// searching again moves the query to the front
	require.NoError(t, r.Record(ctx, tmdb.MediaTypeMovie, "dune"))
	got, err = r.List(ctx, tmdb.MediaTypeMovie)
	require.NoError(t, err)
	assert.Equal(t, []string{"dune", "heat"}, got)

	got, err = r.List(ctx, tmdb.MediaTypeTV)
	require.NoError(t, err)
	assert.Equal(t, []string{"lost"}, got)
}
