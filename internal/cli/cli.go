package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/specialistvlad/mediagrid/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Commands a Request can carry.
const (
	CommandRun      = "run"
	CommandValidate = "validate"
	CommandKinds    = "kinds"
)

// Request is a parsed command line.
type Request struct {
	Command string
	Config  *app.Config
}

// EnvPrefix is prepended to every flag name to form its environment override.
const EnvPrefix = "MEDIAGRID"

const usageTemplate = `
mediagrid - runs media-processing workflow graphs.

Usage:
  mediagrid [flags] GRAPH_PATH...
  mediagrid validate [flags] GRAPH_PATH...
  mediagrid kinds

Arguments:
  GRAPH_PATH
    A .hcl/.yaml graph file or a directory searched recursively for them.

Every flag can also be set through the environment, e.g. --save-dir as
MEDIAGRID_SAVE_DIR.

Flags:
{{.LocalFlags.FlagUsages}}`

// Parse processes command-line arguments. It returns the parsed Request, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Request, bool, error) {
	slog.Debug("CLI parser started.")
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var req *Request
	capture := func(command string) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, positional []string) error {
			r, err := buildRequest(v, cmd, command, positional)
			if err != nil {
				return err
			}
			req = r
			return nil
		}
	}

	root := &cobra.Command{
		Use:           "mediagrid [flags] GRAPH_PATH...",
		Short:         "Runs media-processing workflow graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Args: cobra.ArbitraryArgs,
		RunE: capture(CommandRun),
	}
	root.SetArgs(args)
	root.SetOut(output)
	root.SetErr(output)
	root.SetUsageTemplate(usageTemplate)
	root.SetHelpTemplate("{{.UsageString}}")

	flags := root.PersistentFlags()
	flags.StringSliceP("graph", "g", nil, "Graph file or directory. Positional arguments are appended.")
	flags.String("scratch-dir", filepath.Join(os.TempDir(), "mediagrid"), "Base directory for intermediate files and default saves.")
	flags.String("save-dir", "", "Default directory for saved results. Empty means the scratch directory.")
	flags.Bool("keep-scratch", false, "Keep the run's work directory after a successful run.")
	flags.Int("workers", 4, "Number of concurrent workers for the executor.")
	flags.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flags.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.Int("healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	flags.String("notify-url", "", "Socket.IO server that receives run events. Empty is disabled.")
	flags.String("ffmpeg", "ffmpeg", "Path to the ffmpeg binary.")
	flags.String("ffprobe", "ffprobe", "Path to the ffprobe binary.")
	flags.String("profile", "balanced", "Video encoder profile. Options: 'fast', 'balanced', 'quality'.")
	flags.Duration("grace-period", 5*time.Second, "How long a cancelled ffmpeg process gets between SIGTERM and SIGKILL.")
	flags.String("env-file", "", "Dotenv file loaded before flags are resolved.")

	root.AddCommand(
		&cobra.Command{
			Use:   "validate [flags] GRAPH_PATH...",
			Short: "Validates graphs without running them",
			RunE:  capture(CommandValidate),
		},
		&cobra.Command{
			Use:   "kinds",
			Short: "Lists the registered task kinds and their handles",
			Args:  cobra.NoArgs,
			RunE:  capture(CommandKinds),
		},
	)

	if err := root.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, false, exitErr
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if req == nil {
		// Help was requested or usage was printed.
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "command", req.Command)
	return req, false, nil
}

func buildRequest(v *viper.Viper, cmd *cobra.Command, command string, positional []string) (*Request, error) {
	flags := cmd.Flags()
	if err := loadEnvFile(flags); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	cfg := app.Config{
		GraphPaths:      append(v.GetStringSlice("graph"), positional...),
		ScratchDir:      v.GetString("scratch-dir"),
		SaveDir:         v.GetString("save-dir"),
		KeepScratch:     v.GetBool("keep-scratch"),
		Workers:         v.GetInt("workers"),
		LogFormat:       strings.ToLower(v.GetString("log-format")),
		LogLevel:        strings.ToLower(v.GetString("log-level")),
		HealthcheckPort: v.GetInt("healthcheck-port"),
		NotifyURL:       v.GetString("notify-url"),
		FFmpegPath:      v.GetString("ffmpeg"),
		FFprobePath:     v.GetString("ffprobe"),
		Profile:         strings.ToLower(v.GetString("profile")),
		GracePeriod:     v.GetDuration("grace-period"),
	}

	if command == CommandKinds {
		// Listing kinds needs no graph; only the logger settings matter.
		return &Request{Command: command, Config: &cfg}, nil
	}

	if len(cfg.GraphPaths) == 0 {
		slog.Debug("No graph path provided, printing usage and exiting.")
		return nil, cmd.Usage()
	}
	slog.Debug("Graph paths determined.", "paths", cfg.GraphPaths)

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	return &Request{Command: command, Config: config}, nil
}

// loadEnvFile loads --env-file into the process environment. Variables that
// are already set win over the file.
func loadEnvFile(flags *pflag.FlagSet) error {
	path, err := flags.GetString("env-file")
	if err != nil || path == "" {
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return &ExitError{Code: 2, Message: fmt.Sprintf("failed to load env file %s: %v", path, err)}
	}
	slog.Debug("Environment file loaded.", "path", path)
	return nil
}
