package formatter

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ohmpatel46/spotify-wrapped/internal/models"
	"github.com/ohmpatel46/spotify-wrapped/internal/shared"
	th "github.com/ohmpatel46/spotify-wrapped/internal/testing"
)

func sampleSummary() *models.WrappedSummary {
	return &models.WrappedSummary{
		Headline: "Top artist M83 and top track Midnight City give a balanced vibe, especially in the evening.",
		TopArtists: []models.RankedItem{
			{ID: "artist_01", Name: "M83"},
			{ID: "artist_02", Name: "Fleetwood Mac"},
		},
		TopTracks: []models.RankedItem{
			{ID: "track_01", Name: "Midnight City"},
			{ID: "track_02", Name: "Dreams"},
			{ID: "track_03", Name: "Electric Feel"},
		},
		GenreDNA:          []string{"indie pop", "synthpop"},
		MainstreamVsNiche: models.MainstreamNiche{AveragePopularity: 66.11, Label: models.LabelBalanced},
		TimeOfDayVibe:     models.VibeEvening,
	}
}

func TestExporters(t *testing.T) {
	t.Run("SummaryText", func(t *testing.T) {
		data, err := SummaryText(sampleSummary())
		if err != nil {
			t.Fatalf("SummaryText failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"Your Wrapped",
			"Midnight City give a balanced vibe",
			"indie pop, synthpop",
			"66.11 (Balanced)",
			"Evening",
			"TOP ARTIST",
			"Fleetwood Mac",
			"Electric Feel",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("text output missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("SummaryMarkdown", func(t *testing.T) {
		data, err := SummaryMarkdown(sampleSummary())
		if err != nil {
			t.Fatalf("SummaryMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Your Wrapped",
			"## Top Artists",
			"1. M83",
			"## Top Tracks",
			"3. Electric Feel",
			"**Genre DNA**: indie pop, synthpop",
			"**Mainstream vs Niche**: Balanced (average popularity 66.11)",
			"**Time of Day**: Evening",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("SummaryMarkdown with empty lists", func(t *testing.T) {
		data, err := SummaryMarkdown(&models.WrappedSummary{
			MainstreamVsNiche: models.MainstreamNiche{Label: models.LabelDeepCuts},
			TimeOfDayVibe:     models.VibeInsufficientData,
		})
		if err != nil {
			t.Fatalf("SummaryMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "_None_") {
			t.Errorf("expected placeholder for empty lists, got:\n%s", output)
		}
		if !strings.Contains(output, "Not enough listening history") {
			t.Errorf("expected insufficient data label, got:\n%s", output)
		}
	})

	t.Run("SummaryCSV", func(t *testing.T) {
		data, err := SummaryCSV(sampleSummary())
		if err != nil {
			t.Fatalf("SummaryCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if lines[0] != "Kind,Rank,ID,Name" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if len(lines) != 6 {
			t.Fatalf("expected 6 lines, got %d", len(lines))
		}
		if lines[1] != "artist,1,artist_01,M83" || lines[5] != "track,3,track_03,Electric Feel" {
			t.Errorf("unexpected rows %v", lines)
		}
	})

	t.Run("Nil summary", func(t *testing.T) {
		for _, format := range []Format{FormatText, FormatMarkdown, FormatCSV} {
			if _, err := Summary(nil, format); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("%s: expected ErrInvalidArgument, got %v", format, err)
			}
		}
	})

	t.Run("JSON", func(t *testing.T) {
		data, err := Summary(sampleSummary(), FormatJSON)
		if err != nil {
			t.Fatalf("Summary failed: %v", err)
		}
		if !strings.Contains(string(data), `"time_of_day_vibe": "evening"`) {
			t.Errorf("unexpected JSON %s", data)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tc := []struct {
		in   string
		want Format
	}{
		{"", FormatText},
		{".txt", FormatText},
		{"md", FormatMarkdown},
		{".MD", FormatMarkdown},
		{"csv", FormatCSV},
		{".json", FormatJSON},
	}

	for _, tt := range tc {
		got, err := ParseFormat(tt.in)
		if err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := ParseFormat("yaml"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestLedgerTable(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		if got := string(LedgerTable(nil)); got != "No playlists recorded yet.\n" {
			t.Errorf("unexpected output %q", got)
		}
	})

	t.Run("Rows", func(t *testing.T) {
		entries := []*models.LedgerEntry{
			{
				Sequence:   2,
				PlaylistID: "mock_playlist_bbbb0002",
				TimeRange:  "long_term",
				TrackCount: 0,
				Status:     models.LedgerAddFailed,
				Public:     true,
				CreatedAt:  time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC),
			},
			{
				Sequence:   1,
				PlaylistID: "mock_playlist_aaaa0001",
				TimeRange:  "short_term",
				TrackCount: 20,
				Status:     models.LedgerPopulated,
				CreatedAt:  time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
			},
		}

		output := string(LedgerTable(entries))
		for _, want := range []string{"PLAYLIST", "mock_playlist_bbbb0002", "add_failed", "public", "mock_playlist_aaaa0001", "populated", "private", "20"} {
			if !strings.Contains(output, want) {
				t.Errorf("ledger table missing %q, got:\n%s", want, output)
			}
		}
		if strings.Index(output, "bbbb0002") > strings.Index(output, "aaaa0001") {
			t.Error("expected input order to be preserved")
		}
	})
}

func TestWriteSummaryExport(t *testing.T) {
	dir := t.TempDir()

	t.Run("Infers format from extension", func(t *testing.T) {
		path := filepath.Join(dir, "exports", "wrapped.md")

		got, err := WriteSummaryExport(sampleSummary(), path, "")
		if err != nil {
			t.Fatalf("WriteSummaryExport failed: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}

		content := th.MustReadFile(t, path)
		if !strings.HasPrefix(content, "# Your Wrapped") {
			t.Errorf("expected markdown content, got %q", content)
		}
	})

	t.Run("Explicit format wins", func(t *testing.T) {
		path := filepath.Join(dir, "wrapped.out")
		if _, err := WriteSummaryExport(sampleSummary(), path, FormatCSV); err != nil {
			t.Fatalf("WriteSummaryExport failed: %v", err)
		}
		if content := th.MustReadFile(t, path); !strings.HasPrefix(content, "Kind,Rank") {
			t.Errorf("expected CSV content, got %q", content)
		}
	})

	t.Run("Unknown extension", func(t *testing.T) {
		if _, err := WriteSummaryExport(sampleSummary(), filepath.Join(dir, "wrapped.yaml"), ""); err == nil {
			t.Error("expected error for unknown extension")
		}
	})

	t.Run("Empty path", func(t *testing.T) {
		if _, err := WriteSummaryExport(sampleSummary(), "", FormatText); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Unwritable path", func(t *testing.T) {
		blocker := filepath.Join(dir, "blocker")
		if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := WriteSummaryExport(sampleSummary(), filepath.Join(blocker, "wrapped.txt"), ""); err == nil {
			t.Error("expected error when parent is a file")
		}
	})
}
