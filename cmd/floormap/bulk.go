package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"

	"github.com/joeblew999/plat-floormap/internal/bulk"
	"github.com/joeblew999/plat-floormap/internal/logging"
	"github.com/joeblew999/plat-floormap/internal/mapview"
	"github.com/joeblew999/plat-floormap/pkg/mapclient"
)

// newBulkCmd adds items from a file (or stdin with "-") to one map, using the
// same parsing and submission as the bulk entry panel.
func newBulkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk <file>",
		Short: "Add items to a map from a comma-separated file",
		Long: "Catalog lines: " + bulk.SchemaCatalog.Header() + "\n" +
			"Placed lines:  " + bulk.SchemaPlaced.Header(),
		Args: cobra.ExactArgs(1),
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			mapID, _ := cmd.Flags().GetInt("map")
			placed, _ := cmd.Flags().GetBool("placed")

			if err := runBulk(cmd.Context(), opts, args[0], mapID, placed, cmd.OutOrStdout()); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}),
	}
	cmd.Flags().IntP("map", "m", 0, "Map ID to add the items to")
	cmd.Flags().Bool("placed", false, "Lines carry coordinates (placed format)")
	_ = cmd.MarkFlagRequired("map")
	return cmd
}

func runBulk(ctx context.Context, opts *Options, path string, mapID int, placed bool, out io.Writer) error {
	text, err := readInput(path)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	log, closer := logging.New(logging.Config{Level: opts.LogLevel, File: opts.LogFile})
	defer closer.Close()

	client := mapclient.New(opts.APIURL,
		mapclient.WithLogger(log),
		mapclient.WithTimeout(time.Duration(opts.RequestTimeout)*time.Second),
	)
	ctrl := mapview.New(client, mapview.Options{Logger: log, Privileged: true})
	if err := ctrl.SelectMap(ctx, mapID); err != nil {
		return fmt.Errorf("select map %d: %w", mapID, err)
	}

	if placed {
		report, err := ctrl.BulkPlaced(ctx, text)
		if len(report.Outcomes) > 0 {
			fmt.Fprintln(out, report.Summary())
		}
		return err
	}
	added, err := ctrl.BulkCatalog(ctx, text)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Added %d items\n", added)
	return nil
}

func readInput(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
