package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/s0up4200/cloudmovies/tmdb"
	"github.com/s0up4200/cloudmovies/watchlist"
)

// detailModel shows the full TMDB record of one title on top of the tabs
type detailModel struct {
	*shared
	entry   watchlist.Entry
	loading bool
	err     error
	movie   *tmdb.MovieDetails
	tv      *tmdb.TVDetails
}

func newDetailModel(sh *shared, e watchlist.Entry) *detailModel {
	return &detailModel{shared: sh, entry: e}
}

func (m *detailModel) load() tea.Cmd {
	m.loading = true
	browse, ctx, e := m.deps.Browse, m.ctx, m.entry
	return func() tea.Msg {
		msg := detailMsg{mediaType: e.MediaType, id: e.MediaID}
		if e.MediaType.IsMovie() {
			msg.movie, msg.err = browse.MovieDetails(ctx, e.MediaID)
		} else {
			msg.tv, msg.err = browse.TVDetails(ctx, e.MediaID)
		}
		return msg
	}
}

func (m *detailModel) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(detailMsg); ok {
		if msg.mediaType != m.entry.MediaType || msg.id != m.entry.MediaID {
			return nil
		}
		m.loading = false
		m.err = msg.err
		m.movie, m.tv = msg.movie, msg.tv
	}
	return nil
}

func genreNames(genres []tmdb.Genre) string {
	names := make([]string, len(genres))
	for i, g := range genres {
		names[i] = g.Name
	}
	return strings.Join(names, ", ")
}

func (m *detailModel) facts() (tagline string, lines []string) {
	switch {
	case m.movie != nil:
		d := m.movie
		tagline = d.Tagline
		if d.ReleaseDate != "" {
			lines = append(lines, "Released  "+d.ReleaseDate)
		}
		if d.Runtime > 0 {
			lines = append(lines, fmt.Sprintf("Runtime   %dh %02dm", d.Runtime/60, d.Runtime%60))
		}
		if len(d.Genres) > 0 {
			lines = append(lines, "Genres    "+genreNames(d.Genres))
		}
		if d.Status != "" {
			lines = append(lines, "Status    "+d.Status)
		}
		if d.ImdbID != "" {
			lines = append(lines, "IMDb      https://www.imdb.com/title/"+d.ImdbID)
		}
	case m.tv != nil:
		d := m.tv
		tagline = d.Tagline
		if d.FirstAirDate != "" {
			lines = append(lines, "First aired  "+d.FirstAirDate)
		}
		if d.NumberOfSeasons > 0 {
			lines = append(lines, fmt.Sprintf("Seasons      %d (%d episodes)", d.NumberOfSeasons, d.NumberOfEpisodes))
		}
		if len(d.Genres) > 0 {
			lines = append(lines, "Genres       "+genreNames(d.Genres))
		}
		if d.Status != "" {
			lines = append(lines, "Status       "+d.Status)
		}
	}
	return tagline, lines
}

func (m *detailModel) View() string {
	var b strings.Builder

	title := m.entry.Title
	if m.entry.Year > 0 {
		title += fmt.Sprintf(" (%d)", m.entry.Year)
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n")

	if m.entry.Rating > 0 {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("★ %.1f  ", m.entry.Rating)))
	}
	b.WriteString(m.styles.Muted.Render(strings.TrimSuffix(m.entry.MediaType.Label(), "s")))
	b.WriteString("\n\n")

	tagline, lines := m.facts()
	if tagline != "" {
		b.WriteString(m.styles.Subtitle.Render(tagline))
		b.WriteString("\n\n")
	}
	if m.entry.Overview != "" {
		b.WriteString(m.entry.Overview)
		b.WriteString("\n\n")
	}

	switch {
	case m.loading:
		b.WriteString(m.styles.Muted.Render("Loading details…"))
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString(m.styles.Error.Render("Could not load details: " + m.err.Error()))
		b.WriteString("\n")
	default:
		for _, l := range lines {
			b.WriteString(l)
			b.WriteString("\n")
		}
	}
	return m.styles.Border.Render(b.String())
}
