// submodule cmd contains command definitions
package main

import (
	"fmt"
	"strings"

	"github.com/desertthunder/spotdash/internal/formatter"
	"github.com/desertthunder/spotdash/internal/services"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "Path to a .env file with CLIENT_ID, CLIENT_SECRET and REDIRECT_URI",
			Value: ".env",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (debug, info, warn, error)",
		},
	}
}

// dashboardFlags select what the dashboard fetches, overriding the [dashboard] config section.
func dashboardFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "time-range",
			Aliases: []string{"t"},
			Usage:   fmt.Sprintf("Top tracks time range (%s)", strings.Join(services.TimeRanges, ", ")),
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "Number of top tracks to analyze (1-50)",
		},
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create the configuration file and initialize the token database",
		Action: r.Setup,
	}
}

func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Authorize spotdash to read your top tracks",
		Action: r.Auth,
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Delete the stored Spotify token",
		Action: r.Logout,
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the web dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to listen on (overrides [server] host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides [server] port)",
			},
		},
		Action: r.Serve,
	}
}

func reportCommand(r *Runner) *cli.Command {
	formats := lo.Map(formatter.Formats, func(f formatter.Format, _ int) string { return string(f) })

	return &cli.Command{
		Name:  "report",
		Usage: "Print or export the dashboard",
		Flags: append(dashboardFlags(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   fmt.Sprintf("Output format (%s)", strings.Join(formats, ", ")),
				Value:   string(formatter.FormatText),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the report to this file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Write the report to spotdash_{time_range}.{ext}",
			},
		),
		Action: r.Report,
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Browse the dashboard in an interactive terminal UI",
		Flags:  dashboardFlags(),
		Action: r.TUI,
	}
}
