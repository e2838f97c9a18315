package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitevec"
	"github.com/fwojciec/sitevec/config"
	"github.com/fwojciec/sitevec/crawl"
	sitevecfs "github.com/fwojciec/sitevec/fs"
	"github.com/fwojciec/sitevec/gemini"
	"github.com/fwojciec/sitevec/goquery"
	"github.com/fwojciec/sitevec/htmltomarkdown"
	sitevechttp "github.com/fwojciec/sitevec/http"
	"github.com/fwojciec/sitevec/openai"
	"github.com/fwojciec/sitevec/readability"
	"github.com/fwojciec/sitevec/robotstxt"
	"github.com/fwojciec/sitevec/rod"
	sitevecslog "github.com/fwojciec/sitevec/slog"
	"github.com/fwojciec/sitevec/sqlite"
	"github.com/fwojciec/sitevec/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// ConfigPath is the YAML configuration file. Empty means the XDG
	// default, which may be absent.
	ConfigPath string

	// Env resolves environment variables. Defaults to the process
	// environment layered over ./.env.
	Env config.Env

	// SQLite database holding the run ledger.
	DB *sqlite.DB

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{ConfigPath: os.Getenv("SITEVEC_CONFIG")}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.DB = nil
	}
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	env := m.Env
	if env == nil {
		var err error
		if env, err = config.DotEnv(".env"); err != nil {
			return err
		}
	}
	cfg, err := config.Load(m.ConfigPath, env)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: check %s or set SITEVEC_CONFIG\n", config.DefaultPath())
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitevec"),
		kong.Description("Crawl a website and ingest its pages into an OpenAI vector store."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		configVars(cfg),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitevec --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	switch cmd {
	case "crawl":
		cli.Crawl.Apply(&cfg)
	case "serve":
		cli.Serve.Apply(&cfg)
		cfg.Addr = cli.Serve.Addr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	deps.Config = cfg

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	defer m.Close()

	var ingestion sitevec.IngestionService = openai.NewClient(cfg.APIKey,
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithUploadConcurrency(cfg.UploadConcurrency),
		openai.WithPollInterval(cfg.PollInterval),
	)
	if cli.Verbose {
		ingestion = sitevecslog.NewLoggingIngestionService(ingestion, deps.Logger)
	}
	deps.Ingestion = ingestion

	if cmd == "target" {
		return kongCtx.Run(deps)
	}

	if err := m.openDB(cfg.DBPath); err != nil {
		fmt.Fprintf(stderr, "Hint: Set %s to use a different database path\n", config.EnvDBPath)
		return fmt.Errorf("failed to open database at %q: %w", cfg.DBPath, err)
	}
	deps.Runs = sqlite.NewRunService(m.DB)

	if cmd == "crawl" || cmd == "serve" {
		crawler, err := m.newCrawler(cfg, deps, cli.Verbose)
		if err != nil {
			return err
		}
		deps.Crawler = crawler
	}

	return kongCtx.Run(deps)
}

func (m *Main) openDB(path string) error {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
	}
	m.DB = sqlite.NewDB(path)
	return m.DB.Open()
}

// newCrawler assembles a crawler from the resolved configuration.
func (m *Main) newCrawler(cfg config.Config, deps *Dependencies, verbose bool) (*crawl.Crawler, error) {
	var fetcher sitevec.Fetcher
	if cfg.Browser {
		f, err := rod.NewFetcher(rod.WithFetchTimeout(cfg.FetchTimeout))
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed for --browser")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = f
	} else {
		opts := []sitevechttp.Option{sitevechttp.WithTimeout(cfg.FetchTimeout)}
		if cfg.UserAgent != "" {
			opts = append(opts, sitevechttp.WithUserAgent(cfg.UserAgent))
		}
		fetcher = sitevechttp.NewFetcher(opts...)
	}
	m.closers = append(m.closers, fetcher)
	if verbose {
		fetcher = sitevecslog.NewLoggingFetcher(fetcher, deps.Logger)
	}

	var converter sitevec.Converter = goquery.NewTextConverter()
	if cfg.Format == config.FormatMarkdown {
		converter = htmltomarkdown.NewConverter()
	}

	c := &crawl.Crawler{
		Fetcher:       fetcher,
		Extractor:     newExtractor(cfg.Extractor),
		Converter:     converter,
		Links:         goquery.NewLinkExtractor(),
		Ingestion:     deps.Ingestion,
		TargetID:      cfg.VectorStoreID,
		BatchLimit:    cfg.BatchLimit,
		MaxPages:      cfg.MaxPages,
		DedupeContent: cfg.Dedupe,
		Runs:          deps.Runs,
		Staging: func() sitevec.StagingStore {
			var store sitevec.StagingStore = sitevecfs.NewStagingStore(cfg.StagingRoot, converter.Ext())
			if verbose {
				store = sitevecslog.NewLoggingStagingStore(store, deps.Logger)
			}
			return store
		},
	}

	if cfg.RequestsPerSecond > 0 {
		c.RateLimiter = crawl.NewDomainLimiter(cfg.RequestsPerSecond)
	}
	if cfg.RespectRobots {
		c.Robots = robotstxt.NewPolicy(nil, "")
	}
	if cfg.Sitemap {
		var sitemaps sitevec.SitemapService = sitevechttp.NewSitemapService(nil)
		if verbose {
			sitemaps = sitevecslog.NewLoggingSitemapService(sitemaps, deps.Logger)
		}
		c.Sitemaps = sitemaps
	}
	if cfg.CountTokens {
		tc, err := gemini.NewTokenCounter("")
		if err != nil {
			return nil, fmt.Errorf("failed to create token counter: %w", err)
		}
		c.TokenCounter = tc
	}
	return c, nil
}

func newExtractor(name string) sitevec.Extractor {
	switch name {
	case config.ExtractorTrafilatura:
		return trafilatura.NewExtractor()
	case config.ExtractorReadability:
		return readability.NewExtractor()
	default:
		return goquery.NewBodyExtractor()
	}
}

// configVars exposes the resolved configuration as flag defaults.
func configVars(cfg config.Config) kong.Vars {
	return kong.Vars{
		"extractor":      cfg.Extractor,
		"format":         cfg.Format,
		"browser":        strconv.FormatBool(cfg.Browser),
		"rps":            strconv.FormatFloat(cfg.RequestsPerSecond, 'g', -1, 64),
		"sitemap":        strconv.FormatBool(cfg.Sitemap),
		"respect_robots": strconv.FormatBool(cfg.RespectRobots),
		"dedupe":         strconv.FormatBool(cfg.Dedupe),
		"max_pages":      strconv.Itoa(cfg.MaxPages),
		"batch_limit":    strconv.Itoa(cfg.BatchLimit),
		"fetch_timeout":  cfg.FetchTimeout.String(),
		"count_tokens":   strconv.FormatBool(cfg.CountTokens),
		"addr":           cfg.Addr,
	}
}
