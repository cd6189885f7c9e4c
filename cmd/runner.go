package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsync/internal/services"
	"github.com/desertthunder/plsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	envFile string
	catalog services.Catalog
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config   // Fixed configuration; when nil each command loads settings from --config
	EnvFile string           // Dotenv file loaded before settings; defaults to .env
	Catalog services.Catalog // Catalog override; when nil a YouTube client is built from the config
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.EnvFile == "" {
		opts.EnvFile = ".env"
	}

	return &Runner{
		config:  opts.Config,
		envFile: opts.EnvFile,
		catalog: opts.Catalog,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		syncCommand, logCommand, historyCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// settings resolves the configuration for a command: file and environment, then command-line overrides.
func (r *Runner) settings(cmd *cli.Command) *shared.Config {
	var config shared.Config
	if r.config != nil {
		config = *r.config
	} else {
		config = *shared.LoadSettings(cmd.String("config"), r.envFile, r.logger)
	}

	shared.SetLogLevel(r.logger, shared.ParseLogLevel(config.Log.Level))
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if v := cmd.String("playlist-id"); v != "" {
		config.Playlist.ID = v
	}
	if v := cmd.String("playlist-name"); v != "" {
		config.Playlist.Name = v
	}
	if v := cmd.String("output"); v != "" {
		config.Output.Dir = filepath.Dir(v)
		config.Output.Filename = filepath.Base(v)
	}
	if v := cmd.String("history"); v != "" {
		config.History.Path = v
	}
	return &config
}

// catalogFor returns the injected catalog or builds a YouTube client from config.
func (r *Runner) catalogFor(ctx context.Context, config *shared.Config) (services.Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}

	yt := config.Credentials.YouTube
	return services.NewYouTubeService(ctx, services.YouTubeOpts{
		APIKey:            yt.APIKey,
		Endpoint:          yt.Endpoint,
		RequestsPerSecond: yt.RequestsPerSecond,
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
