// kbresearch runs the knowledge-base research pipeline: collect findings
// from the tracked repository and web sources, synthesize them through the
// configured model agents, and append the result to the knowledge base.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"browseroskb/pkg/config"
	"browseroskb/pkg/connector"
	"browseroskb/pkg/connector/middleware"
	"browseroskb/pkg/connector/middleware/metrics"
	"browseroskb/pkg/logx"
	"browseroskb/pkg/research"
	"browseroskb/pkg/utils"
)

func main() {
	flagSet := flag.NewFlagSet("kbresearch", flag.ExitOnError)
	configPath := flagSet.String("config", "", "Config file path (default: ./config.yml)")
	dryRun := flagSet.Bool("dry-run", false, "Synthesize but do not write anything")
	forceUpdate := flagSet.Bool("force-update", false, "Re-query and re-write even when fresh")
	verbose := flagSet.Bool("verbose", false, "Enable debug logging")
	clearCache := flagSet.Bool("clear-cache", false, "Drop the response cache before running")

	flagSet.Usage = printUsage
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		logx.SetDebug(true)
	}

	if err := run(*configPath, *dryRun, *forceUpdate, *clearCache); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, dryRun, forceUpdate, clearCache bool) error {
	cfg, err := config.NewLoader(configPath).Load()
	if err != nil {
		return err
	}

	// The loader maps FORCE_UPDATE (true/1/yes) onto research.force_update.
	forceUpdate = forceUpdate || cfg.GetBool("research.force_update", false)

	dataDir := cfg.GetString("research.data_dir", filepath.Join("BrowserOS", "Research"))
	opts := research.Options{
		KBPath:      cfg.GetString("research.kb_path", filepath.Join(dataDir, "BrowserOS_Workflows_KnowledgeBase.md")),
		SourcesPath: cfg.GetString("research.sources_path", filepath.Join(dataDir, "sources.json")),
		RawDir:      cfg.GetString("research.raw_dir", filepath.Join(dataDir, "raw")),
		RepoDir:     cfg.GetString("research.repo_dir", filepath.Join(dataDir, "raw", "browseros-ai-BrowserOS")),
		DryRun:      dryRun,
		ForceUpdate: forceUpdate,
	}

	cache, err := research.OpenCache(filepath.Join(dataDir, "cache.db"))
	if err != nil {
		logx.Warnf("response cache unavailable, continuing without it: %v", err)
		cache = nil
	}
	defer func() { _ = cache.Close() }()

	if clearCache {
		if err := cache.Clear(); err != nil {
			return err
		}
		if err := utils.CleanDirectoryContents(opts.RawDir); err != nil {
			return err
		}
		logx.Infof("response cache and source archive cleared")
	}

	recorder, registry := recorderFor(cfg)
	if registry != nil {
		serveMetrics(cfg, registry)
	}

	counter, err := utils.NewTokenCounter()
	if err != nil {
		logx.Warnf("token counter unavailable: %v", err)
	}
	resolver := connector.NewResolver(cfg, nil, middleware.Stack(recorder, counter))

	return research.NewResearcher(cfg, resolver, cache, opts).Run(context.Background())
}

// recorderFor returns the Prometheus recorder when monitoring is enabled,
// otherwise the no-op recorder.
func recorderFor(cfg *config.Config) (metrics.Recorder, *prometheus.Registry) {
	if !cfg.GetBool("monitoring.enabled", false) {
		return metrics.Nop(), nil
	}
	registry := prometheus.NewRegistry()
	return metrics.NewPrometheusRecorderWith(registry), registry
}

// serveMetrics exposes the registry on monitoring.port for the duration of
// the run.
func serveMetrics(cfg *config.Config, registry *prometheus.Registry) {
	port := cfg.GetInt("monitoring.port", 9090)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	go func() {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		logx.Infof("serving metrics on http://%s/metrics", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logx.Warnf("metrics server stopped: %v", err)
		}
	}()
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "kbresearch - AI-assisted knowledge-base research pipeline\n\n")
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  %s [flags]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Flags:\n")
	fmt.Fprintf(os.Stderr, "  --config string\n        Config file path (default: ./config.yml)\n")
	fmt.Fprintf(os.Stderr, "  --dry-run\n        Synthesize but do not write anything\n")
	fmt.Fprintf(os.Stderr, "  --force-update\n        Re-query and re-write even when fresh\n")
	fmt.Fprintf(os.Stderr, "  --clear-cache\n        Drop the response cache before running\n")
	fmt.Fprintf(os.Stderr, "  --verbose\n        Enable debug logging\n")
}
