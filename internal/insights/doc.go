// Package insights holds the pure aggregation behind a wrapped summary.
//
// Nothing here performs I/O; identical inputs always give identical outputs.
//
//   - [TopNameID] : first five records with both id and name, in input order
//   - [GenreDNA] : genre frequency ranking, ties broken by first occurrence
//   - [MainstreamVsNiche] : mean popularity of tracks that report one, labelled Mainstream (>=70), Balanced (>=40) or Deep Cuts
//   - [TimeOfDayVibe] : morning 5-11, afternoon 12-17, evening 18-22, late night otherwise
//   - [Headline] : "Top artist {artist} and top track {track} give a {label} vibe{suffix}."
//
// [Summarize] wires them together over raw provider payloads.
package insights
