package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotdash/internal/dashboard"
	"github.com/desertthunder/spotdash/internal/repositories"
	"github.com/desertthunder/spotdash/internal/services"
	"github.com/desertthunder/spotdash/internal/shared"
	"github.com/urfave/cli/v3"
)

// ServiceFactory creates a Spotify client from the application credentials.
type ServiceFactory func(creds shared.Credentials) (services.OAuthService, error)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	lookup     shared.LookupFunc
	newService ServiceFactory
	tokens     services.TokenStore
	db         *sql.DB
	browser    func(url string) error
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Lookup     shared.LookupFunc // Defaults to [os.LookupEnv]
	NewService ServiceFactory
	Tokens     services.TokenStore // Defaults to the SQLite token repository
	Browser    func(url string) error
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Lookup == nil {
		opts.Lookup = os.LookupEnv
	}
	if opts.Browser == nil {
		opts.Browser = shared.OpenBrowser
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		lookup:     opts.Lookup,
		newService: opts.NewService,
		tokens:     opts.Tokens,
		browser:    opts.Browser,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	if r.newService == nil {
		r.newService = r.spotifyService
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, logoutCommand, serveCommand, reportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Configure loads the .env file, the configuration file and the log level from the global flags.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if err := shared.LoadDotEnv(cmd.String("env-file")); err != nil {
		return ctx, err
	}

	r.configPath = cmd.String("config")
	config, err := shared.LoadConfigOrDefault(r.configPath)
	if err != nil {
		return ctx, err
	}
	r.config = config

	level := config.Log.Level
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	if level != "" {
		if err := shared.ParseLogLevel(r.logger, level); err != nil {
			return ctx, err
		}
	}

	r.logger.Debug("configured", "config", r.configPath, "level", level)
	return ctx, nil
}

// Close releases the database connection, if one was opened.
func (r *Runner) Close(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) spotifyService(creds shared.Credentials) (services.OAuthService, error) {
	opts := []services.Option{services.WithTimeout(r.config.Spotify.Timeout.Duration)}
	if r.config.Spotify.APIURL != "" {
		opts = append(opts, services.WithBaseURL(r.config.Spotify.APIURL))
	}
	return services.NewSpotifyService(creds, opts...)
}

// service reads the credentials and creates a client. Credentials are checked before anything else.
func (r *Runner) service() (shared.Credentials, services.OAuthService, error) {
	creds, err := shared.LoadCredentials(r.lookup)
	if err != nil {
		return creds, nil, err
	}

	svc, err := r.newService(creds)
	if err != nil {
		return creds, nil, fmt.Errorf("failed to create Spotify service: %w", err)
	}
	return creds, svc, nil
}

// tokenStore opens the SQLite token repository on first use.
func (r *Runner) tokenStore() (services.TokenStore, error) {
	if r.tokens != nil {
		return r.tokens, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	r.db = db
	r.tokens = repositories.NewTokenRepository(db)
	return r.tokens, nil
}

// newBuilder authenticates with the stored token and returns a dashboard builder.
//
// Flags named time-range and limit override the configured dashboard options.
func (r *Runner) newBuilder(ctx context.Context, cmd *cli.Command) (*dashboard.Builder, error) {
	_, svc, err := r.service()
	if err != nil {
		return nil, err
	}

	opts, err := dashboard.OptionsFromConfig(r.config.Dashboard).WithOverrides(overrides(cmd))
	if err != nil {
		return nil, err
	}

	tokens, err := r.tokenStore()
	if err != nil {
		return nil, err
	}

	if err := services.OpenSession(ctx, svc, tokens, r.logger); err != nil {
		if shared.IsAuthError(err) {
			return nil, fmt.Errorf("%w (run `spotdash auth` first)", err)
		}
		return nil, err
	}

	return dashboard.NewBuilder(svc, opts, shared.WithLogger(r.logger, "component", "dashboard")), nil
}

func overrides(cmd *cli.Command) url.Values {
	query := url.Values{}
	if cmd == nil {
		return query
	}
	if tr := cmd.String("time-range"); tr != "" {
		query.Set("time_range", tr)
	}
	if limit := cmd.Int("limit"); limit != 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return query
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
