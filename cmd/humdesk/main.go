// Command humdesk is a terminal client for the humanitarian assistant
// backend: streaming chat, document uploads, drive imports and the
// humanitarian datasets.
//
// Usage:
//
//	humdesk chat [--conversation ID]
//	humdesk ask "Which clusters are underfunded in Sudan?"
//	humdesk upload 'reports/**/*.pdf'
//	humdesk humdata funding --country SDN --year 2024
//
// Configuration is read from ~/.humdesk/config.toml. HUMDESK_API_URL and
// command-line flags override it.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fwojciec/humdesk"
	humhttp "github.com/fwojciec/humdesk/http"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	a := &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		home:   home,
		envURL: os.Getenv(envBaseURL),
		tty:    isTerminal(os.Stdout),
	}
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "humdesk: %v\n", err)
		os.Exit(1)
	}
}

// app carries the resolved configuration and backend client shared by all
// subcommands.
type app struct {
	stdout io.Writer
	stderr io.Writer
	home   string
	envURL string
	tty    bool

	flags  flagConfig
	output string

	cfg    config
	logger zerolog.Logger
	client *humhttp.Client
	theme  humdesk.Theme
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "humdesk",
		Short:         "Terminal client for the humanitarian assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.ConfigPath, "config", "", "Path to config file (default ~/.humdesk/config.toml)")
	pf.StringVar(&a.flags.BaseURL, "base-url", "", "Backend URL (overrides "+envBaseURL+")")
	pf.DurationVar(&a.flags.Timeout, "timeout", 0, "Time to wait for response headers")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVarP(&a.output, "output", "o", outputTable, "Output format: table|json")

	root.AddCommand(
		newChatCmd(a),
		newAskCmd(a),
		newConversationsCmd(a),
		newFilesCmd(a),
		newUploadCmd(a),
		newDriveCmd(a),
		newHumdataCmd(a),
	)
	return root
}

func (a *app) setup() error {
	if a.output != outputTable && a.output != outputJSON {
		return fmt.Errorf("unknown output format %q: must be %q or %q", a.output, outputTable, outputJSON)
	}
	cfg, err := resolveConfig(a.home, a.flags, a.envURL)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(a.stderr, cfg.LogLevel)
	a.theme = humdesk.DefaultTheme()

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.Timeout
	a.client = humhttp.New(
		humhttp.WithBaseURL(cfg.BaseURL),
		humhttp.WithHTTPClient(&http.Client{Transport: transport}),
		humhttp.WithLogger(a.logger),
	)
	a.logger.Debug().Str("base_url", a.client.BaseURL()).Msg("client_ready")
	return nil
}

func (a *app) json() bool { return a.output == outputJSON }

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
