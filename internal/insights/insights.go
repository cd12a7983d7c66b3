// package insights turns raw provider records into wrapped cards
package insights

import (
	"math"
	"strings"
	"time"

	"github.com/ohmpatel46/spotify-wrapped/internal/models"
)

// TopN is the size of every ranked card.
const TopN = 5

// Popularity thresholds for [MainstreamVsNiche].
const (
	MainstreamThreshold = 70.0
	BalancedThreshold   = 40.0
)

// MinHistoryEntries is the raw entry count below which [TimeOfDayVibe] gives up.
const MinHistoryEntries = 5

// Ranker is implemented by records that project onto a [models.RankedItem].
type Ranker interface {
	Ranked() models.RankedItem
}

// TopNameID keeps, in input order, the first limit items whose id and name are both non-empty.
//
// A negative limit is treated as zero.
func TopNameID[T Ranker](items []T, limit int) []models.RankedItem {
	limit = max(limit, 0)
	result := make([]models.RankedItem, 0, min(limit, len(items)))
	for _, item := range items {
		if len(result) >= limit {
			break
		}
		r := item.Ranked()
		if r.ID != "" && r.Name != "" {
			result = append(result, r)
		}
	}
	return result
}

// GenreDNA ranks genres across all artists by descending count. Ties keep first-seen order.
func GenreDNA(artists []models.Artist, limit int) []string {
	var t tally
	for _, artist := range artists {
		for _, genre := range artist.Genres {
			t.add(genre)
		}
	}
	return t.top(limit)
}

// MainstreamVsNiche averages the popularity of tracks that carry one and labels the result.
//
// With no popularity data the average is 0.0 and the label is Deep Cuts.
func MainstreamVsNiche(tracks []models.Track) models.MainstreamNiche {
	sum, n := 0, 0
	for _, track := range tracks {
		if track.Popularity == nil {
			continue
		}
		sum += *track.Popularity
		n++
	}

	avg := 0.0
	if n > 0 {
		avg = round2(float64(sum) / float64(n))
	}

	return models.MainstreamNiche{AveragePopularity: avg, Label: popularityLabel(avg)}
}

func popularityLabel(avg float64) string {
	switch {
	case avg >= MainstreamThreshold:
		return models.LabelMainstream
	case avg >= BalancedThreshold:
		return models.LabelBalanced
	default:
		return models.LabelDeepCuts
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// TimeOfDayVibe returns the bucket holding most plays.
//
// Fewer than [MinHistoryEntries] raw entries, or no parseable timestamp at all, yields insufficient_data.
// Entries with missing or unparseable timestamps are skipped. Ties go to the bucket seen first.
func TimeOfDayVibe(entries []models.PlayHistory) models.TimeVibe {
	if len(entries) < MinHistoryEntries {
		return models.VibeInsufficientData
	}

	var t tally
	for _, entry := range entries {
		playedAt, ok := ParsePlayedAt(entry.PlayedAt)
		if !ok {
			continue
		}
		t.add(string(bucketFor(playedAt.Hour())))
	}

	winner := t.top(1)
	if len(winner) == 0 {
		return models.VibeInsufficientData
	}
	return models.TimeVibe(winner[0])
}

func bucketFor(hour int) models.TimeVibe {
	switch {
	case hour >= 5 && hour <= 11:
		return models.VibeMorning
	case hour >= 12 && hour <= 17:
		return models.VibeAfternoon
	case hour >= 18 && hour <= 22:
		return models.VibeEvening
	default:
		return models.VibeLateNight
	}
}

var playedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParsePlayedAt parses an ISO-8601 timestamp. The returned time keeps the offset written in the string,
// so Hour reports the wall-clock hour of the listener rather than of this process.
func ParsePlayedAt(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range playedAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Headline composes the one-sentence summary. Empty names fall back to "Unknown artist" and "Unknown track".
func Headline(topArtist, topTrack, label string, vibe models.TimeVibe) string {
	if topArtist == "" {
		topArtist = "Unknown artist"
	}
	if topTrack == "" {
		topTrack = "Unknown track"
	}

	suffix := ""
	if vibe != models.VibeInsufficientData {
		suffix = ", especially in the " + strings.ReplaceAll(string(vibe), "_", " ")
	}

	return "Top artist " + topArtist + " and top track " + topTrack + " give a " + strings.ToLower(label) + " vibe" + suffix + "."
}

// Summarize assembles every card from the raw payloads. Nil payloads count as empty.
func Summarize(tracks *models.Page[models.Track], artists *models.Page[models.Artist], recent *models.RecentlyPlayed) *models.WrappedSummary {
	var trackItems []models.Track
	if tracks != nil {
		trackItems = tracks.Items
	}
	var artistItems []models.Artist
	if artists != nil {
		artistItems = artists.Items
	}
	var history []models.PlayHistory
	if recent != nil {
		history = recent.Items
	}

	topTracks := TopNameID(trackItems, TopN)
	topArtists := TopNameID(artistItems, TopN)
	verdict := MainstreamVsNiche(trackItems)
	vibe := TimeOfDayVibe(history)

	var artistName, trackName string
	if len(topArtists) > 0 {
		artistName = topArtists[0].Name
	}
	if len(topTracks) > 0 {
		trackName = topTracks[0].Name
	}

	return &models.WrappedSummary{
		Headline:          Headline(artistName, trackName, verdict.Label, vibe),
		TopArtists:        topArtists,
		TopTracks:         topTracks,
		GenreDNA:          GenreDNA(artistItems, TopN),
		MainstreamVsNiche: verdict,
		TimeOfDayVibe:     vibe,
	}
}
