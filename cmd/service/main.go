package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/2beens/gymsheets/internal"
	"github.com/2beens/gymsheets/internal/config"
	"github.com/2beens/gymsheets/internal/logging"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	envName := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *envName)

	cfg, err := config.Load(*envName, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    false,
		Component:        "service",
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sentryDSN,
		SentryServerName: "gymsheets-service",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)
	log.Debugf("using tabular backend [%s] and memo store [%s]", cfg.Backend.Kind, cfg.Memo.Kind)

	versionInfo, err := versionInfo()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	env := readEnv(cfg)

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			EditSecret:              env.editSecret,
			VersionInfo:             versionInfo,
			GoogleCredentialsFile:   env.googleCredentialsFile,
			RedisPassword:           env.redisPassword,
			PostgresPassword:        env.postgresPassword,
			HoneycombTracingEnabled: env.honeycombEnabled,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

type serviceEnv struct {
	editSecret            string
	googleCredentialsFile string
	redisPassword         string
	postgresPassword      string
	honeycombEnabled      bool
}

// readEnv collects the secrets kept out of the TOML config and complains
// about the ones the configured backends need.
func readEnv(cfg *config.Config) serviceEnv {
	env := serviceEnv{
		editSecret:            os.Getenv("GYMSHEETS_EDIT_SECRET"),
		googleCredentialsFile: os.Getenv("GYMSHEETS_GOOGLE_CREDENTIALS"),
		redisPassword:         os.Getenv("GYMSHEETS_REDIS_PASS"),
		postgresPassword:      os.Getenv("GYMSHEETS_POSTGRES_PASS"),
		honeycombEnabled:      os.Getenv("HONEYCOMB_ENABLED") == "true",
	}

	if env.editSecret == "" {
		log.Errorf("edit secret not set, dashboard runs and edit events are unprotected. use GYMSHEETS_EDIT_SECRET")
	}
	if cfg.Backend.Kind == config.BackendGSheets && env.googleCredentialsFile == "" {
		log.Fatalf("google credentials not set. use GYMSHEETS_GOOGLE_CREDENTIALS")
	}
	if cfg.Memo.Kind == config.MemoRedis && env.redisPassword == "" {
		log.Warnf("redis password not set. use GYMSHEETS_REDIS_PASS")
	}
	if cfg.Memo.Kind == config.MemoPostgres && env.postgresPassword == "" {
		log.Warnf("postgres password not set. use GYMSHEETS_POSTGRES_PASS")
	}

	if os.Getenv("OTEL_SERVICE_NAME") == "" {
		log.Warnln("OTEL_SERVICE_NAME env var not set")
	}
	if !env.honeycombEnabled {
		log.Debugln("honeycomb tracing disabled")
	} else if os.Getenv("HONEYCOMB_API_KEY") == "" {
		log.Warnln("HONEYCOMB_API_KEY env var not set")
	}

	return env
}

// versionInfo prefers the vcs revision stamped into the binary, then falls
// back to asking git, assuming the binary runs from the project root.
func versionInfo() (string, error) {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				return setting.Value, nil
			}
		}
	}

	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(stdout)), nil
}
