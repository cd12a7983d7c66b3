// package formatter renders wrapped summaries and the playlist ledger as terminal text, Markdown, CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ohmpatel46/spotify-wrapped/internal/models"
	"github.com/ohmpatel46/spotify-wrapped/internal/shared"
	"github.com/ohmpatel46/spotify-wrapped/internal/ui"
	"github.com/olekukonko/tablewriter"
)

// Format names an export format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// ParseFormat maps a format name or file extension to a [Format].
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Summary renders summary in the given format.
func Summary(summary *models.WrappedSummary, format Format) ([]byte, error) {
	switch format {
	case FormatText:
		return SummaryText(summary)
	case FormatMarkdown:
		return SummaryMarkdown(summary)
	case FormatCSV:
		return SummaryCSV(summary)
	case FormatJSON:
		return shared.MarshalJSON(summary, true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// SummaryText renders the headline card followed by a side-by-side top-N table.
func SummaryText(summary *models.WrappedSummary) ([]byte, error) {
	if summary == nil {
		return nil, fmt.Errorf("%w: summary is nil", shared.ErrInvalidArgument)
	}

	var buf bytes.Buffer

	card := ui.Styles.Card(
		ui.Styles.Title("Your Wrapped"),
		summary.Headline,
		"",
		fmt.Sprintf("Genres:     %s", genreList(summary.GenreDNA)),
		fmt.Sprintf("Popularity: %.2f (%s)", summary.MainstreamVsNiche.AveragePopularity, summary.MainstreamVsNiche.Label),
		fmt.Sprintf("Vibe:       %s", VibeLabel(summary.TimeOfDayVibe)),
	)
	buf.WriteString(card)
	buf.WriteString("\n")

	tw := tablewriter.NewWriter(&buf)
	tw.SetHeader([]string{"#", "TOP ARTIST", "TOP TRACK"})
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetAutoFormatHeaders(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)

	rows := max(len(summary.TopArtists), len(summary.TopTracks))
	for i := range rows {
		tw.Append([]string{strconv.Itoa(i + 1), nameAt(summary.TopArtists, i), nameAt(summary.TopTracks, i)})
	}
	tw.Render()

	return buf.Bytes(), nil
}

// SummaryMarkdown renders summary as a Markdown document.
func SummaryMarkdown(summary *models.WrappedSummary) ([]byte, error) {
	if summary == nil {
		return nil, fmt.Errorf("%w: summary is nil", shared.ErrInvalidArgument)
	}

	var buf bytes.Buffer

	buf.WriteString("# Your Wrapped\n\n")
	buf.WriteString(fmt.Sprintf("> %s\n\n", summary.Headline))

	buf.WriteString("## Top Artists\n\n")
	writeRanked(&buf, summary.TopArtists)

	buf.WriteString("## Top Tracks\n\n")
	writeRanked(&buf, summary.TopTracks)

	buf.WriteString(fmt.Sprintf("**Genre DNA**: %s\n", genreList(summary.GenreDNA)))
	buf.WriteString(fmt.Sprintf("**Mainstream vs Niche**: %s (average popularity %.2f)\n",
		summary.MainstreamVsNiche.Label, summary.MainstreamVsNiche.AveragePopularity))
	buf.WriteString(fmt.Sprintf("**Time of Day**: %s\n", VibeLabel(summary.TimeOfDayVibe)))

	return buf.Bytes(), nil
}

// SummaryCSV converts the ranked lists to CSV with columns: Kind, Rank, ID, Name
func SummaryCSV(summary *models.WrappedSummary) ([]byte, error) {
	if summary == nil {
		return nil, fmt.Errorf("%w: summary is nil", shared.ErrInvalidArgument)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Kind", "Rank", "ID", "Name"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, list := range []struct {
		kind  string
		items []models.RankedItem
	}{{"artist", summary.TopArtists}, {"track", summary.TopTracks}} {
		for i, item := range list.items {
			if err := writer.Write([]string{list.kind, strconv.Itoa(i + 1), item.ID, item.Name}); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// LedgerTable renders ledger entries, newest first as given.
func LedgerTable(entries []*models.LedgerEntry) []byte {
	var buf bytes.Buffer

	if len(entries) == 0 {
		buf.WriteString("No playlists recorded yet.\n")
		return buf.Bytes()
	}

	tw := tablewriter.NewWriter(&buf)
	tw.SetHeader([]string{"#", "PLAYLIST", "RANGE", "TRACKS", "STATUS", "VISIBILITY", "CREATED"})
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)

	for _, e := range entries {
		tw.Append([]string{
			strconv.Itoa(e.Sequence),
			e.PlaylistID,
			e.TimeRange,
			strconv.Itoa(e.TrackCount),
			string(e.Status),
			Visibility(e.Public),
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	tw.Render()

	return buf.Bytes()
}

// VibeLabel returns a display label for a time-of-day vibe.
func VibeLabel(vibe models.TimeVibe) string {
	switch vibe {
	case models.VibeMorning:
		return "Morning"
	case models.VibeAfternoon:
		return "Afternoon"
	case models.VibeEvening:
		return "Evening"
	case models.VibeLateNight:
		return "Late Night"
	case models.VibeInsufficientData, "":
		return "Not enough listening history"
	default:
		return string(vibe)
	}
}

// Visibility returns "public" or "private".
func Visibility(public bool) string {
	if public {
		return "public"
	}
	return "private"
}

// WriteSummaryExport writes summary to path, inferring the format from the extension when format is empty.
func WriteSummaryExport(summary *models.WrappedSummary, path string, format Format) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: output path is empty", shared.ErrMissingArgument)
	}

	if format == "" {
		f, err := ParseFormat(filepath.Ext(path))
		if err != nil {
			return "", err
		}
		format = f
	}

	data, err := Summary(summary, format)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}

func writeRanked(buf *bytes.Buffer, items []models.RankedItem) {
	if len(items) == 0 {
		buf.WriteString("_None_\n\n")
		return
	}
	for i, item := range items {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, item.Name))
	}
	buf.WriteString("\n")
}

func nameAt(items []models.RankedItem, i int) string {
	if i < len(items) {
		return items[i].Name
	}
	return ""
}

func genreList(genres []string) string {
	if len(genres) == 0 {
		return "none"
	}
	return strings.Join(genres, ", ")
}
