package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tubecorr/internal/repositories"
	"github.com/desertthunder/tubecorr/internal/services"
	"github.com/desertthunder/tubecorr/internal/shared"
	"github.com/desertthunder/tubecorr/internal/tasks"
)

const defaultConfigPath = "config.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	tracks     services.TrackSource
	videos     services.VideoSource
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Config is loaded from the --config flag before any command runs. Nil sources are built
// from the configured credentials when a command needs them.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Tracks     services.TrackSource
	Videos     services.VideoSource
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		tracks:     opts.Tracks,
		videos:     opts.Videos,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// App builds the root command.
func (r *Runner) App() *cli.Command {
	return &cli.Command{
		Name:    "tubecorr",
		Usage:   "Correlate Spotify tracks with YouTube videos",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before:   r.before,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, pipelineCommand, transformCommand, correlateCommand, regionsCommand, exportCommand, statsCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// before applies the global flags and loads the configuration unless one was injected.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	if r.configPath == "" || cmd.IsSet("config") {
		r.configPath = cmd.String("config")
	}
	if r.config != nil {
		return ctx, nil
	}

	config, err := shared.LoadConfig(r.configPath)
	switch {
	case err == nil:
		r.config = config
	case errors.Is(err, shared.ErrMissingConfig):
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		r.config = shared.DefaultConfig()
		r.config.ApplyEnv(os.Getenv)
	default:
		return ctx, err
	}
	return ctx, nil
}

// openStore opens the configured database with migrations applied.
func (r *Runner) openStore() (*sql.DB, *repositories.Store, *repositories.RunRepository, error) {
	if err := r.config.Validate(); err != nil {
		return nil, nil, nil, err
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, repositories.NewStore(db), repositories.NewRunRepository(db), nil
}

// sources returns the injected sources or builds them from the configured credentials. A side
// without credentials stays nil and is skipped by the pipeline.
func (r *Runner) sources() (services.TrackSource, services.VideoSource) {
	rps := r.config.Pipeline.RequestsPerSecond
	opts := []services.Option{services.WithHTTPClient(r.httpClient)}

	if r.tracks == nil {
		if svc, err := services.NewSpotifyService(r.config.Credentials.Spotify, rps, opts...); err == nil {
			r.tracks = svc
		} else {
			r.logger.Warn("spotify extraction disabled", "err", err)
		}
	}
	if r.videos == nil {
		if svc, err := services.NewYouTubeService(r.config.Credentials.YouTube, rps, opts...); err == nil {
			r.videos = svc
		} else {
			r.logger.Warn("youtube extraction disabled", "err", err)
		}
	}
	return r.tracks, r.videos
}

func (r *Runner) pipeline(store tasks.Store, runs tasks.RunRecorder) *tasks.Pipeline {
	tracks, videos := r.sources()
	return tasks.NewPipeline(tasks.PipelineOpts{
		Config: r.config.Pipeline,
		Tracks: tracks,
		Videos: videos,
		Store:  store,
		Runs:   runs,
		Logger: r.logger,
	})
}

// watch prints progress updates until the returned stop function is called.
func (r *Runner) watch() (chan tasks.ProgressUpdate, func()) {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("[%s] %s\n", update.Phase, update.Message)
		}
	}()

	return progress, func() {
		close(progress)
		<-done
	}
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

	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
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

func (r *Runner) writePlainln(format string, args ...any) error {
	return r.writePlain("\n"+format+"\n", args...)
}
