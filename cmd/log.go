package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/plsync/internal/formatter"
	"github.com/desertthunder/plsync/internal/repositories"
	"github.com/desertthunder/plsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// LogShow prints the recorded items in the requested format.
func (r *Runner) LogShow(ctx context.Context, cmd *cli.Command) error {
	config := r.settings(cmd)
	format := strings.ToLower(cmd.String("format"))

	items, err := repositories.NewItemLog(config.OutputPath(), r.logger).Records()
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case "text", "txt", "":
		data = formatter.ExportToText(items)
	case "markdown", "md":
		data = formatter.ExportToMarkdown(config.Playlist.Name, items)
	case "csv":
		if data, err = formatter.ExportToCSV(items); err != nil {
			return err
		}
	case "json":
		return r.writeJSON(items, true)
	default:
		return fmt.Errorf("%w: unknown format %q (want text, markdown, csv or json)", shared.ErrInvalidArgument, format)
	}

	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// LogIDs prints the IDs recorded in the output log in lexical order.
func (r *Runner) LogIDs(ctx context.Context, cmd *cli.Command) error {
	config := r.settings(cmd)

	ids, err := repositories.NewItemLog(config.OutputPath(), r.logger).ExistingIDs()
	if err != nil {
		return err
	}

	sorted := ids.Sorted()
	if cmd.Bool("json") {
		return r.writeJSON(sorted, false)
	}

	for _, id := range sorted {
		if err := r.writePlain("%s\n", id); err != nil {
			return err
		}
	}
	return nil
}
