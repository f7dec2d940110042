package logging

import (
	"io"
	"os"
	"strings"

	"github.com/2beens/gymsheets/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	// LogFileName is rotated by lumberjack; empty means console only.
	LogFileName string
	LogToStdout bool
	// Console is where console output goes, os.Stdout when nil.
	// The CLI points it at stderr to keep stdout for command output.
	Console       io.Writer
	LogLevel      string
	LogFormatJSON bool
	// Component is added to every entry, e.g. "service" or "cli".
	Component        string
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

func Setup(params LoggerSetupParams) {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logrus.SetLevel(GetLevel(params.LogLevel))

	if params.Component != "" {
		logrus.AddHook(&componentHook{component: params.Component})
	}
	if params.SentryEnabled {
		setupSentry(params)
	}

	out, desc := output(params)
	logrus.SetOutput(out)
	logrus.Debugf("writing logs to %s", desc)
}

func setupSentry(params LoggerSetupParams) {
	err := sentry.Init(sentry.ClientOptions{
		Environment:      params.Environment,
		Dsn:              params.SentryDSN,
		TracesSampleRate: 1.0,
		ServerName:       params.SentryServerName,
	})
	if err != nil {
		logrus.Errorf("sentry.Init: %s", err)
		return
	}

	logrus.AddHook(NewSentryHook([]logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	}))
	logrus.Infoln("sentry set up successfully")
}

func output(params LoggerSetupParams) (io.Writer, string) {
	console := params.Console
	if console == nil {
		console = os.Stdout
	}
	if params.LogFileName == "" {
		return console, "console"
	}

	fileName := params.LogFileName
	if !strings.HasSuffix(fileName, ".log") {
		fileName += ".log"
	}
	rotated := &lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    20, // megabytes
		MaxBackups: 10,
		Compress:   true,
	}

	if params.LogToStdout {
		return pkg.NewCombinedWriter(console, rotated), fileName + " and console"
	}
	return rotated, fileName
}

// GetLevel parses a logrus level name; unknown names fall back to info.
func GetLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

type componentHook struct {
	component string
}

func (h *componentHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *componentHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["component"]; !ok {
		entry.Data["component"] = h.component
	}
	return nil
}
