package main

import (
	"context"

	"github.com/desertthunder/spotdash/internal/formatter"
	"github.com/desertthunder/spotdash/internal/ui"
	"github.com/urfave/cli/v3"
)

// Report builds the dashboard once and prints or exports it.
func (r *Runner) Report(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	builder, err := r.newBuilder(ctx, cmd)
	if err != nil {
		return err
	}

	view, err := builder.Build(ctx, nil)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output != "" || cmd.Bool("save") {
		path, err := formatter.WriteExport(view, format, output)
		if err != nil {
			return err
		}
		r.logger.Info("report saved", "path", path, "format", format)
		return r.writePlain("✓ Report saved to %s\n", path)
	}

	if format == formatter.FormatText {
		return r.writePlain("%s", ui.RenderReport(view))
	}

	data, err := formatter.Export(view, format)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}
