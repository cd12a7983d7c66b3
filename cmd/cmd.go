// submodule cmd contains command definitions
package main

import (
	"github.com/ohmpatel46/spotify-wrapped/internal/tasks"
	"github.com/urfave/cli/v3"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
	}
}

func timeRangeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "time-range",
		Aliases: []string{"t"},
		Usage:   "Listening window (short_term, medium_term, long_term)",
		Value:   tasks.DefaultTimeRange,
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Hide progress output",
		},
	}
}

func listenFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "host",
			Usage: "Interface to listen on (defaults to config)",
		},
		&cli.IntFlag{
			Name:  "port",
			Usage: "Port to listen on (defaults to config)",
		},
	}
}

// summaryCommand generates wrapped summary cards
func summaryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "Generate wrapped summary cards",
		Flags: append([]cli.Flag{
			timeRangeFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (text, markdown, csv, json)",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the summary to a file; format is inferred from the extension unless --format is set",
			},
		}, outputFlags()...),
		Action: r.Summary,
	}
}

// playlistCommand creates a playlist from top tracks
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Create a playlist from top tracks",
		Flags: append([]cli.Flag{
			timeRangeFlag(),
			&cli.BoolFlag{
				Name:  "public",
				Usage: "Make the playlist public",
			},
			&cli.BoolFlag{
				Name:  "no-ledger",
				Usage: "Do not record the playlist in the local ledger",
			},
		}, outputFlags()...),
		Action: r.Playlist,
	}
}

// historyCommand lists recorded playlist creations
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List playlists created by this tool",
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of entries (0 for all)",
				Value:   10,
			},
		}, outputFlags()...),
		Action: r.History,
	}
}

func lookupFlags() []cli.Flag {
	return append([]cli.Flag{
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Ids per request (max 50)",
			Value: tasks.MaxBatchSize,
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Concurrent workers (max 10)",
			Value: 3,
		},
		&cli.FloatFlag{
			Name:  "rate",
			Usage: "Requests per second",
			Value: 5,
		},
	}, outputFlags()...)
}

// lookupCommand resolves catalog ids in batches
func lookupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lookup",
		Usage: "Look up tracks or artists by id",
		Commands: []*cli.Command{
			{
				Name:      "tracks",
				Usage:     "Look up tracks by id",
				ArgsUsage: "<id>[,<id>...] ...",
				Flags:     lookupFlags(),
				Action:    r.Lookup(tasks.LookupTracks),
			},
			{
				Name:      "artists",
				Usage:     "Look up artists by id",
				ArgsUsage: "<id>[,<id>...] ...",
				Flags:     lookupFlags(),
				Action:    r.Lookup(tasks.LookupArtists),
			},
		},
	}
}

// serveCommand runs the HTTP tool server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve wrapped_summary and create_wrapped_playlist over HTTP",
		Flags: append(listenFlags(), &cli.BoolFlag{
			Name:  "no-ledger",
			Usage: "Do not record playlists in the local ledger",
		}),
		Action: r.Serve,
	}
}

// fixturesCommand runs the fake provider API
func fixturesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "fixtures",
		Usage:  "Serve the fixture-backed provider API",
		Flags:  listenFlags(),
		Action: r.Fixtures,
	}
}

// toolsCommand prints the tool catalog
func toolsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tools",
		Usage:  "Print tool definitions and argument schemas",
		Action: r.Tools,
	}
}

// setupCommand creates the config file and prepares the database
func setupCommand(r *Runner) *cli.Command {
	configFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		}
	}

	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write an example config.toml",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}
