package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/diarynotes/internal/notesclient"
	"github.com/2beens/diarynotes/internal/notesclient/ui"
)

const (
	defaultAPIURL  = "http://localhost:5000"
	apiURLEnv      = "DIARY_API_URL"
	defaultTimeout = 15 * time.Second
)

// app carries what every subcommand needs, filled in by the root PersistentPreRunE.
type app struct {
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	apiURL   string
	plain    bool
	timeout  time.Duration
	client   *notesclient.Client
	renderer *ui.Renderer
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:           "notes",
		Short:         "Terminal client for the diary notes backend",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	apiURL := os.Getenv(apiURLEnv)
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	rootCmd.PersistentFlags().StringVar(&a.apiURL, "api-url", apiURL, "diary backend base URL (env "+apiURLEnv+")")
	rootCmd.PersistentFlags().BoolVar(&a.plain, "plain", false, "disable colors and markdown styling")
	rootCmd.PersistentFlags().DurationVar(&a.timeout, "timeout", defaultTimeout, "request timeout")

	rootCmd.AddCommand(
		a.listCmd(),
		a.showCmd(),
		a.addCmd(),
		a.editCmd(),
		a.rmCmd(),
		a.exportCmd(),
		a.healthCmd(),
	)

	return rootCmd
}

func (a *app) init() error {
	if a.plain {
		color.NoColor = true
	}

	a.client = notesclient.NewClient(a.apiURL, &http.Client{
		Timeout:   a.timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})

	renderer, err := ui.NewRenderer(!a.plain)
	if err != nil {
		return err
	}
	a.renderer = renderer
	return nil
}

func (a *app) session(assumeYes bool) *notesclient.Session {
	return notesclient.NewSession(
		a.client,
		&ui.Notifier{Out: a.errOut},
		&ui.Confirmer{In: a.in, Out: a.errOut, AssumeYes: assumeYes},
	)
}

func (a *app) ctx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
