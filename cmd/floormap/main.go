package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-floormap/internal/logging"
	"github.com/joeblew999/plat-floormap/internal/server"
)

// Options defines all CLI flags and env vars for the floormap server.
// Flags: --host, --port, --api-url, --log-level, --log-file, --session-minutes,
// --request-timeout, --read-only, --templates-dir
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_API_URL, ...
type Options struct {
	Host           string `doc:"Host to bind to" default:"0.0.0.0"`
	Port           int    `doc:"Port to listen on" short:"p" default:"8086"`
	APIURL         string `name:"api-url" doc:"Inventory API base URL" default:"http://127.0.0.1:5000"`
	LogLevel       string `doc:"Log level (trace, debug, info, warn, error)" default:"info"`
	LogFile        string `doc:"Also log to this file, rotated by size"`
	SessionMinutes int    `doc:"Idle minutes before a map view session is dropped" default:"60"`
	RequestTimeout int    `doc:"Deadline in seconds for inventory API calls" default:"15"`
	ReadOnly       bool   `doc:"Disable adding, editing and deleting items"`
	TemplatesDir   string `doc:"Load fragment templates from this directory instead of the binary"`
}

func newServer(opts *Options, log zerolog.Logger) (*server.Server, error) {
	return server.New(server.Config{
		Host:           opts.Host,
		Port:           fmt.Sprintf("%d", opts.Port),
		APIURL:         opts.APIURL,
		ReadOnly:       opts.ReadOnly,
		SessionTTL:     time.Duration(opts.SessionMinutes) * time.Minute,
		RequestTimeout: time.Duration(opts.RequestTimeout) * time.Second,
		TemplatesDir:   opts.TemplatesDir,
		Logger:         log,
	})
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		log, closer := logging.New(logging.Config{Level: opts.LogLevel, File: opts.LogFile})

		srv, err := newServer(opts, log)
		if err != nil {
			log.Fatal().Err(err).Msg("server setup failed")
		}

		httpSrv := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", opts.Host, opts.Port),
			Handler:           srv,
			ReadHeaderTimeout: 10 * time.Second,
		}

		hooks.OnStart(func() {
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			fmt.Println()
			fmt.Printf("floormap server starting...\n")
			fmt.Printf("  Server:    %s\n", baseURL)
			fmt.Printf("  Inventory: %s\n", opts.APIURL)
			if opts.ReadOnly {
				fmt.Printf("  Mode:      read-only\n")
			}
			fmt.Println()
			fmt.Printf("  Map:     %s/\n", baseURL)
			fmt.Printf("  Docs:    %s/docs\n", baseURL)
			fmt.Printf("  OpenAPI: %s/openapi.json\n", baseURL)
			fmt.Printf("  Metrics: %s/metrics\n", baseURL)
			fmt.Println()

			log.Info().Str("addr", httpSrv.Addr).Str("api_url", opts.APIURL).Bool("read_only", opts.ReadOnly).Msg("listening")
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("server error")
			}
		})

		hooks.OnStop(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpSrv.Shutdown(ctx); err != nil {
				log.Error().Err(err).Msg("shutdown")
			}
			_ = closer.Close()
		})
	})

	cli.Root().Use = "floormap"
	cli.Root().Short = "Floor-plan map view for an inventory API"
	cli.Root().Version = "0.1.0"

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv, err := newServer(opts, zerolog.Nop())
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
				os.Exit(1)
			}
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	cli.Root().AddCommand(newBulkCmd())

	cli.Run()
}
