package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pathpilot/backend/internal/config"
	"github.com/pathpilot/backend/internal/corpus"
	"github.com/pathpilot/backend/internal/engine"
	"github.com/pathpilot/backend/internal/provider"
)

// app bundles everything a command needs once the corpus is indexed
type app struct {
	cfg    *config.Config
	logger *logrus.Entry
	engine *engine.Engine
	closer io.Closer
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.LogConfig, out io.Writer) (*logrus.Entry, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)
	logger.SetReportCaller(cfg.ReportCaller)

	if strings.EqualFold(cfg.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger.WithField("service", "pathpilot"), nil
}

// bootstrap loads config and corpus, builds the embedding provider and
// indexes the corpus. Callers must Close the returned app.
func bootstrap(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}

	careers, err := corpus.LoadDir(cfg.Data.Dir, logger)
	if err != nil {
		return nil, err
	}

	p, err := provider.New(ctx, cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding provider: %w", err)
	}
	closer, _ := p.(io.Closer)

	eng, err := engine.New(ctx, careers, p, logger)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, fmt.Errorf("failed to index corpus: %w", err)
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		engine: eng,
		closer: closer,
	}, nil
}

func (a *app) Close() {
	if a.closer == nil {
		return
	}
	if err := a.closer.Close(); err != nil {
		a.logger.WithError(err).Warn("Failed to close embedding provider")
	}
}
