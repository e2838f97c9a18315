package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/sitevec"
	"github.com/fwojciec/sitevec/config"
	sitevechttp "github.com/fwojciec/sitevec/http"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Config    config.Config
	Logger    *slog.Logger
	Crawler   sitevechttp.Crawler
	Ingestion sitevec.IngestionService
	Runs      sitevec.RunService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log every fetch, stage and upload"`

	Crawl  CrawlCmd  `cmd:"" help:"Crawl a site into the vector store"`
	Serve  ServeCmd  `cmd:"" help:"Serve the crawl endpoint over HTTP"`
	Runs   RunsCmd   `cmd:"" help:"List recorded crawl runs"`
	Target TargetCmd `cmd:"" help:"Show the configured vector store"`
}

// CrawlFlags tune how a crawl is carried out. Their defaults come from
// the configuration file and environment.
type CrawlFlags struct {
	Extractor     string        `enum:"body,trafilatura,readability" default:"${extractor}" help:"Content extraction strategy (${enum})"`
	Format        string        `enum:"text,markdown" default:"${format}" help:"Staged file format (${enum})"`
	Browser       bool          `default:"${browser}" negatable:"" help:"Render pages in a headless browser"`
	RPS           float64       `name:"rps" default:"${rps}" help:"Requests per second per host, 0 disables"`
	Sitemap       bool          `default:"${sitemap}" negatable:"" help:"Seed the frontier from the sitemap"`
	RespectRobots bool          `default:"${respect_robots}" negatable:"" help:"Skip links disallowed by robots.txt"`
	Dedupe        bool          `default:"${dedupe}" negatable:"" help:"Skip pages whose text was already staged"`
	MaxPages      int           `default:"${max_pages}" help:"Stop after this many pages, 0 for no limit"`
	BatchLimit    int           `default:"${batch_limit}" help:"Files per upload batch"`
	Timeout       time.Duration `default:"${fetch_timeout}" help:"Per-page fetch timeout"`
	Tokens        bool          `default:"${count_tokens}" negatable:"" help:"Count tokens of staged text"`
}

// Apply copies the flags onto cfg.
func (f CrawlFlags) Apply(cfg *config.Config) {
	cfg.Extractor = f.Extractor
	cfg.Format = f.Format
	cfg.Browser = f.Browser
	cfg.RequestsPerSecond = f.RPS
	cfg.Sitemap = f.Sitemap
	cfg.RespectRobots = f.RespectRobots
	cfg.Dedupe = f.Dedupe
	cfg.MaxPages = f.MaxPages
	cfg.BatchLimit = f.BatchLimit
	cfg.FetchTimeout = f.Timeout
	cfg.CountTokens = f.Tokens
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL string `arg:"" help:"Seed URL"`

	CrawlFlags `embed:""`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:"${addr}" help:"Listen address"`

	CrawlFlags `embed:""`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	ID    string `arg:"" optional:"" help:"Show a single run with its uploads"`
	State string `help:"Only runs in this state (crawling, done, failed)"`
	Limit int    `short:"n" default:"20" help:"Maximum number of runs"`
}

// TargetCmd is the "target" subcommand.
type TargetCmd struct{}
