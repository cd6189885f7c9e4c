// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output log path (overrides output.dir and output.filename)",
	}
}

// syncFlags are shared by the root command and sync, so a bare invocation syncs.
func syncFlags() []cli.Flag {
	return []cli.Flag{
		configFlag(),
		&cli.StringFlag{
			Name:  "playlist-id",
			Usage: "Playlist to sync (overrides playlist.id)",
		},
		&cli.StringFlag{
			Name:  "playlist-name",
			Usage: "Display name written to every row (overrides playlist.name)",
		},
		outputFlag(),
		&cli.StringFlag{
			Name:  "history",
			Usage: "Run history database path (overrides history.path)",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Fetch and enrich new items without writing them",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output the result as JSON",
		},
		&cli.BoolFlag{
			Name:  "tui",
			Usage: "Show progress in an interactive terminal UI",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
	}
}

// syncCommand appends new playlist items to the output log
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "sync",
		Usage:  "Append new playlist videos and their tags to the output log",
		Flags:  syncFlags(),
		Action: r.Sync,
	}
}

// logCommand inspects the output log
func logCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "log",
		Usage: "Inspect the output log",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the recorded videos",
				Flags: []cli.Flag{
					configFlag(),
					outputFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, markdown, csv or json",
						Value:   "text",
					},
				},
				Action: r.LogShow,
			},
			{
				Name:  "ids",
				Usage: "Print the recorded video IDs, one per line",
				Flags: []cli.Flag{
					configFlag(),
					outputFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LogIDs,
			},
		},
	}
}

// historyCommand lists journaled sync runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List previous sync runs (requires history.path)",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "history",
				Usage: "Run history database path (overrides history.path)",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of runs to show",
				Value:   10,
			},
			&cli.BoolFlag{
				Name:  "latest",
				Usage: "Show only the latest run for the configured playlist",
			},
			&cli.StringFlag{
				Name:  "playlist-id",
				Usage: "Playlist used with --latest (overrides playlist.id)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.History,
	}
}

// setupCommand initializes configuration and the run history database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create configuration and run history database",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config.toml template",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Create the run history database and apply migrations",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "history",
						Usage: "Run history database path (overrides history.path)",
					},
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
