package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/redcap/internal/cliconfig"
	"github.com/bft-labs/redcap/internal/watch"
	"github.com/bft-labs/redcap/pkg/log"
	"github.com/bft-labs/redcap/pkg/redcap"
)

const longHelp = `Send a request to the REDCap API and print the JSON response.

<content> is REDCap's "content" parameter (metadata, record, project, ...).
The API token and format fields are added automatically; extra fields are
passed with -p. Credentials come from the config file, REDCAP_API_URL and
REDCAP_API_TOKEN, or flags, in increasing order of precedence.`

var exampleUsage = strings.TrimSpace(`
  redcap metadata
  redcap record -p type=flat -p fields=record_id,mrn
  redcap metadata --data-file dictionary.json --watch
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var (
		cfgPath  string
		rawParam []string
		dataFile string
		watchIt  bool
	)

	logger := log.NewConsoleLogger(os.Stderr, zerolog.InfoLevel)

	root := &cobra.Command{
		Use:           "redcap <content>",
		Short:         "Send a request to the REDCap API",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			l, closer, err := cliconfig.Logger(cfg)
			if err != nil {
				return err
			}
			defer closer.Close()
			logger = l

			logger.Debug().Interface("config", cfg.Masked()).Msg("configuration")

			params, err := parseParams(rawParam)
			if err != nil {
				return err
			}
			if watchIt && dataFile == "" {
				return fmt.Errorf("--watch requires --data-file")
			}

			sender := redcap.NewSender(cfg.RedcapConfig(),
				redcap.WithLogger(log.NewZerologAdapterWithLogger(logger)))
			content := args[0]

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if !watchIt {
				return send(ctx, sender, content, params, dataFile, cmd.OutOrStdout())
			}

			if err := send(ctx, sender, content, params, dataFile, cmd.OutOrStdout()); err != nil {
				logger.Error().Err(err).Str("content", content).Msg("send failed")
			}
			w := watch.New(dataFile, func(ctx context.Context) {
				if err := send(ctx, sender, content, params, dataFile, cmd.OutOrStdout()); err != nil {
					logger.Error().Err(err).Str("content", content).Msg("send failed")
					return
				}
				logger.Info().Str("content", content).Str("file", dataFile).Msg("sent update")
			}, log.NewZerologAdapterWithLogger(logger))
			return w.Run(ctx)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.redcap/config.toml)")
	root.Flags().StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "REDCap API URL")
	root.Flags().StringVar(&cfg.APIToken, "api-token", cfg.APIToken, "REDCap API token")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warning, error)")
	root.Flags().StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs to a rotating file instead of stderr")
	root.Flags().DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout (0 waits forever)")

	root.Flags().StringArrayVarP(&rawParam, "param", "p", nil, "extra form field as key=value (repeatable)")
	root.Flags().StringVar(&dataFile, "data-file", "", "send the file contents as the data field")
	root.Flags().BoolVar(&watchIt, "watch", false, "re-send whenever --data-file changes")

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("redcap")
		os.Exit(1)
	}
}

// parseParams turns key=value pairs into a map. Values may contain '='.
func parseParams(raw []string) (map[string]string, error) {
	params := make(map[string]string, len(raw))
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid param %q, want key=value", kv)
		}
		params[k] = v
	}
	return params, nil
}

// send issues one request and writes the indented response to out.
// The data file is re-read on every call.
func send(ctx context.Context, sender *redcap.Sender, content string, params map[string]string, dataFile string, out io.Writer) error {
	if dataFile != "" {
		data, err := os.ReadFile(dataFile)
		if err != nil {
			return fmt.Errorf("read data file: %w", err)
		}
		merged := make(map[string]string, len(params)+1)
		for k, v := range params {
			merged[k] = v
		}
		merged["data"] = string(data)
		params = merged
	}

	resp, err := sender.Send(ctx, content, params)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
