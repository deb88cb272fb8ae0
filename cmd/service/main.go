package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/diarynotes/internal"
	"github.com/2beens/diarynotes/internal/config"
	"github.com/2beens/diarynotes/internal/logging"
)

// set with -ldflags "-X main.version=..."
var version = ""

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		if errors.Is(err, config.ErrMissingConnectionString) {
			log.Fatalf("cannot start without storage: %s", err)
		}
		log.Fatalf("load config: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        cfg.SentryDSN,
		SentryServerName: "diary-backend",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using storage: %s, cache: %s", cfg.Storage, cfg.Cache)

	versionInfo := resolveVersion()
	log.Tracef("running version: %s", versionInfo)

	if cfg.HoneycombEnabled {
		if os.Getenv("HONEYCOMB_API_KEY") == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:      cfg,
			VersionInfo: versionInfo,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	if err := server.GracefulShutdown(); err != nil {
		log.Errorf("graceful shutdown: %s", err)
	}
}

// resolveVersion prefers the linker-provided version, then the last commit hash
// (assumes the binary runs from the project root).
func resolveVersion() string {
	if version != "" {
		return version
	}
	stdout, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
		return "unknown"
	}
	return strings.TrimSpace(string(stdout))
}
