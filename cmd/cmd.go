// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

// setupCommand writes the config file and prepares the database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file, initialize the database and run migrations",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "rollback",
				Usage: "Roll back the most recent migration instead",
			},
		},
		Action: r.Setup,
	}
}

// pipelineCommand handles full and partial ETL runs
func pipelineCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "pipeline",
		Usage: "Extract, transform and load Spotify and YouTube data",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run extraction, transformation and loading",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "dump",
						Usage: "Also write the raw extraction to this file",
					},
				}, jsonFlags()...),
				Action: r.PipelineRun,
			},
			{
				Name:  "extract",
				Usage: "Extract raw records into a dump file without loading them",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
						Value:   "raw_dataset.json",
					},
				},
				Action: r.PipelineExtract,
			},
		},
	}
}

// transformCommand transforms a raw dump file
func transformCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "transform",
		Usage: "Normalize, correlate and aggregate a raw dump file",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Raw dump written by 'pipeline extract'",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "load",
				Usage: "Load the transformed collections into the database",
			},
		}, jsonFlags()...),
		Action: r.Transform,
	}
}

// correlateCommand rebuilds correlations from stored records
func correlateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "correlate",
		Usage: "Correlate stored tracks with stored videos",
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Number of correlations to display",
				Value: 10,
			},
		}, jsonFlags()...),
		Action: r.Correlate,
	}
}

// regionsCommand rebuilds regional statistics from stored videos
func regionsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "regions",
		Usage:  "Aggregate stored videos by region",
		Flags:  jsonFlags(),
		Action: r.Regions,
	}
}

// exportCommand writes report files
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export stored correlations and regional statistics",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Report format: csv, markdown or json",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Output directory (default: tubecorr_export_{timestamp})",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum correlations to export, best first (0 exports all)",
			},
		},
		Action: r.Export,
	}
}

// statsCommand shows stored counts and recent runs
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show stored record counts and recent pipeline runs",
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:  "runs",
				Usage: "Number of recent runs to list",
				Value: 5,
			},
		}, jsonFlags()...),
		Action: r.Stats,
	}
}

// serveCommand starts the read API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve stored results as a JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default: server.host:server.port from config)",
			},
		},
		Action: r.Serve,
	}
}
