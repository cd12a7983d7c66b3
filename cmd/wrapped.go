package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/ohmpatel46/spotify-wrapped/internal/formatter"
	"github.com/ohmpatel46/spotify-wrapped/internal/shared"
	"github.com/ohmpatel46/spotify-wrapped/internal/tasks"
	"github.com/ohmpatel46/spotify-wrapped/internal/ui"
	"github.com/urfave/cli/v3"
)

// Summary generates a wrapped summary and prints or exports it.
func (r *Runner) Summary(ctx context.Context, cmd *cli.Command) error {
	timeRange := cmd.String("time-range")
	outPath := cmd.String("output")

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		format = formatter.FormatJSON
	}

	engine, err := r.engine(ctx, false)
	if err != nil {
		return err
	}

	r.logger.Debug("generating summary", "time_range", timeRange, "format", format)

	quiet := cmd.Bool("quiet") || (outPath == "" && format != formatter.FormatText)
	progress, done := r.progress(quiet)
	summary, err := engine.Summarize(ctx, progress, timeRange)
	done()
	if err != nil {
		return err
	}

	if outPath != "" {
		explicit := formatter.Format("")
		if cmd.IsSet("format") || cmd.Bool("json") {
			explicit = format
		}
		path, err := formatter.WriteSummaryExport(summary, outPath, explicit)
		if err != nil {
			return err
		}
		r.logger.Info("summary exported", "path", path)
		return r.writePlain("%s Summary written to %s\n", ui.Styles.OK("✓"), path)
	}

	if format == formatter.FormatJSON {
		return r.writeJSON(summary, cmd.Bool("pretty"))
	}

	data, err := formatter.Summary(summary, format)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// Playlist creates a wrapped playlist from the user's top tracks.
func (r *Runner) Playlist(ctx context.Context, cmd *cli.Command) error {
	timeRange := cmd.String("time-range")
	public := cmd.Bool("public")
	useJSON := cmd.Bool("json")

	engine, err := r.engine(ctx, !cmd.Bool("no-ledger"))
	if err != nil {
		return err
	}
	defer r.Close()

	r.logger.Info("creating wrapped playlist", "time_range", timeRange, "public", public)

	progress, done := r.progress(useJSON || cmd.Bool("quiet"))
	result, err := engine.CreatePlaylist(ctx, progress, timeRange, public)
	done()
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	if err := r.writePlain("%s Created %s playlist %s\n", ui.Styles.OK("✓"), formatter.Visibility(public), result.PlaylistID); err != nil {
		return err
	}
	if result.PlaylistURL != "" {
		return r.writePlain("  %s\n", result.PlaylistURL)
	}
	return nil
}

// History lists recorded playlist creations, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")

	ledger, err := r.openLedger(ctx)
	if err != nil {
		return fmt.Errorf("failed to open playlist ledger: %w", err)
	}
	defer r.Close()

	entries, err := ledger.List(ctx, limit)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	count, err := ledger.Count(ctx)
	if err != nil {
		return err
	}

	if err := r.writeBytes(formatter.LedgerTable(entries)); err != nil {
		return err
	}
	return r.writePlain("%s\n", ui.Styles.Help(fmt.Sprintf("Showing %d of %d playlists", len(entries), count)))
}

// Lookup resolves track or artist ids in rate-limited batches.
func (r *Runner) Lookup(kind tasks.LookupKind) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		ids := splitIDs(cmd.Args().Slice())
		if len(ids) == 0 {
			return fmt.Errorf("%w: at least one id is required", shared.ErrMissingArgument)
		}

		engine, err := r.engine(ctx, false)
		if err != nil {
			return err
		}

		useJSON := cmd.Bool("json")
		progress, done := r.progress(useJSON || cmd.Bool("quiet"))
		result, err := engine.Lookup(ctx, progress, kind, ids, tasks.LookupOpts{
			BatchSize:  cmd.Int("batch-size"),
			NumWorkers: cmd.Int("workers"),
			RateLimit:  cmd.Float("rate"),
		})
		done()
		if err != nil {
			return err
		}

		if useJSON {
			return r.writeJSON(result, cmd.Bool("pretty"))
		}

		var b strings.Builder
		for i, id := range result.IDs {
			name := ""
			switch kind {
			case tasks.LookupTracks:
				if t := result.Tracks[i]; t != nil {
					name = t.Name
				}
			case tasks.LookupArtists:
				if a := result.Artists[i]; a != nil {
					name = a.Name
				}
			}

			if name == "" {
				fmt.Fprintf(&b, "%s %s %s\n", ui.Styles.Err("✗"), id, ui.Styles.Help("not found"))
			} else {
				fmt.Fprintf(&b, "%s %s %s\n", ui.Styles.OK("✓"), id, name)
			}
		}

		fmt.Fprintf(&b, "\nFound %d of %d", result.Found, len(result.IDs))
		if len(result.Failed) > 0 {
			fmt.Fprintf(&b, " (%d failed batches)", len(result.Failed))
		}
		b.WriteString("\n")
		return r.writeBytes([]byte(b.String()))
	}
}

// splitIDs flattens arguments that may themselves be comma-separated lists.
func splitIDs(args []string) []string {
	var ids []string
	for _, arg := range args {
		for _, id := range strings.Split(arg, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
