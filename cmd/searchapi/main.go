package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchapi/internal/config"
	"github.com/kailas-cloud/searchapi/internal/db/elastic"
	"github.com/kailas-cloud/searchapi/internal/domain/search/query"
	logpkg "github.com/kailas-cloud/searchapi/internal/logger"
	"github.com/kailas-cloud/searchapi/internal/metrics"
	searchrepo "github.com/kailas-cloud/searchapi/internal/repository/search"
	chiTransport "github.com/kailas-cloud/searchapi/internal/transport/chi"
	"github.com/kailas-cloud/searchapi/internal/transport/kbase"
	accessuc "github.com/kailas-cloud/searchapi/internal/usecase/access"
	"github.com/kailas-cloud/searchapi/internal/usecase/compiler"
	enrichuc "github.com/kailas-cloud/searchapi/internal/usecase/enrich"
	healthuc "github.com/kailas-cloud/searchapi/internal/usecase/health"
	legacyuc "github.com/kailas-cloud/searchapi/internal/usecase/legacy"
	"github.com/kailas-cloud/searchapi/internal/usecase/normalize"
	searchuc "github.com/kailas-cloud/searchapi/internal/usecase/search"
	"github.com/kailas-cloud/searchapi/internal/version"
)

func main() {
	env := pflag.String("env", config.GetEnv(), "configuration environment (local, dev, docker, prod)")
	port := pflag.Int("port", 0, "HTTP port, overrides the configured one")
	showVersion := pflag.Bool("version", false, "print version and exit")
	pflag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := config.Load(*env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	logger, err := logpkg.NewLogger(*env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting search API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", *env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("elasticsearch_url", cfg.Elasticsearch.URL),
		zap.String("index_prefix", cfg.Elasticsearch.IndexPrefix),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterUpstreamMetrics()
	metrics.RegisterRPCMetrics()

	engine, err := elastic.NewClient(elastic.Config{
		URL:     cfg.Elasticsearch.URL,
		Timeout: seconds(cfg.Elasticsearch.RequestTimeoutSec),
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("Failed to create search engine client", zap.Error(err))
	}

	ctx := context.Background()
	if err := engine.WaitForReady(ctx, seconds(cfg.Elasticsearch.ReadinessTimeoutSec)); err != nil {
		logger.Fatal("Search engine not ready", zap.Error(err))
	}
	logger.Info("Connected to search engine")

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      buildServer(&cfg, engine, logger).Router(),
		ReadTimeout:  seconds(cfg.HTTP.ReadTimeoutSec),
		WriteTimeout: seconds(cfg.HTTP.WriteTimeoutSec),
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), seconds(cfg.HTTP.ShutdownSec))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildServer is the composition root: clients, repositories, use cases, transport.
func buildServer(cfg *config.Config, engine *elastic.Client, logger *zap.Logger) *chiTransport.Server {
	es := cfg.Elasticsearch
	naming := query.Naming{Prefix: es.IndexPrefix, Delimiter: es.PrefixDelimiter}

	repo := searchrepo.New(engine, searchrepo.Options{
		Naming:         naming,
		Body:           query.BodyOptions{Timeout: es.SearchTimeout, TerminateAfter: es.TerminateAfter},
		IndexExclusion: es.IndexExclusion,
	})

	workspace := kbase.NewWorkspace(kbase.Config{URL: cfg.Workspace.URL, Timeout: seconds(cfg.Workspace.TimeoutSec)})
	profiles := kbase.NewUserProfile(kbase.Config{URL: cfg.UserProfile.URL, Timeout: seconds(cfg.UserProfile.TimeoutSec)})

	resolver := accessuc.New(workspace)
	compCfg := compiler.Config{
		Naming:         naming,
		DefaultAlias:   es.DefaultAlias,
		Types:          cfg.TypeAliases(),
		SubObjectTypes: cfg.SubObjectTypes,
	}
	normCfg := normalize.Config{Naming: naming, SuffixDelimiter: es.SuffixDelimiter}

	enricher := enrichuc.New(workspace, profiles, repo, enrichuc.Config{
		Naming:         naming,
		NarrativeIndex: es.NarrativeIndex,
		Concurrency:    cfg.Enrichment.WorkspaceConcurrency,
		StrictProfiles: cfg.UserProfile.Strict,
	})

	legacy := legacyuc.New(resolver, repo, enricher,
		compiler.NewLegacy(compCfg), normalize.NewLegacy(normCfg), cfg.Service.GitURL)
	search := searchuc.New(repo, resolver,
		compiler.NewModern(compCfg), normalize.NewModern(normCfg), cfg.Exposed())
	health := healthuc.New(repo, workspace)

	return chiTransport.NewServer(legacy, search, health, logger,
		chiTransport.Options{CORSOrigins: cfg.HTTP.CORSOrigins})
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
