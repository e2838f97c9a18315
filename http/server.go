package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/sitevec"
	"github.com/fwojciec/sitevec/crawl"
)

// ShutdownTimeout is the time given for outstanding requests to finish
// before shutdown.
const ShutdownTimeout = 5 * time.Second

// maxRequestSize caps the size of a crawl request body.
const maxRequestSize = 1 << 20

// Crawler runs a crawl from a seed URL.
type Crawler interface {
	Crawl(ctx context.Context, seedURL string, progress crawl.ProgressFunc) (*crawl.Result, error)
}

// Server exposes crawling over HTTP.
type Server struct {
	ln     net.Listener
	server *http.Server
	router *http.ServeMux

	// Addr is the bind address, e.g. ":8080".
	Addr string

	Crawler Crawler
	Runs    sitevec.RunService // optional
	Logger  *slog.Logger
}

// NewServer returns a new Server with its routes registered.
func NewServer() *Server {
	s := &Server{
		router: http.NewServeMux(),
		Logger: slog.New(slog.DiscardHandler),
	}
	s.server = &http.Server{Handler: s.router}

	s.router.HandleFunc("POST /crawl", s.handleCrawl)
	s.router.HandleFunc("GET /runs", s.handleRunIndex)
	s.router.HandleFunc("GET /runs/{id}", s.handleRunView)
	return s
}

// Handler returns the server's request router.
func (s *Server) Handler() http.Handler { return s.router }

// URL returns the local base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Open begins listening on Addr and serving requests in the background.
func (s *Server) Open() (err error) {
	if s.Crawler == nil {
		return sitevec.Errorf(sitevec.EINVALID, "crawler required")
	}
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("serve", "err", err)
		}
	}()
	return nil
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

type crawlRequest struct {
	URL string `json:"url"`
}

type crawlResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	ErrorMessage string `json:"error_message"`
}

// handleCrawl runs a crawl to completion and reports its outcome. The body
// is either {"url": "..."} or a bare JSON string.
func (s *Server) handleCrawl(w http.ResponseWriter, r *http.Request) {
	seedURL, err := decodeCrawlRequest(io.LimitReader(r.Body, maxRequestSize))
	if err != nil {
		s.Error(w, r, err)
		return
	}

	start := time.Now()
	result, err := s.Crawler.Crawl(r.Context(), seedURL, func(e crawl.ProgressEvent) {
		if e.Type == crawl.ProgressFailed {
			s.Logger.Warn("page failed", "url", e.URL, "err", e.Error)
		}
	})
	if err != nil {
		attrs := []any{"url", seedURL, "err", err}
		if result != nil {
			attrs = append(attrs, "staging_dir", result.StagingDir)
		}
		s.Logger.Error("crawl failed", attrs...)
		s.Error(w, r, err)
		return
	}

	s.Logger.Info("crawl complete",
		"url", seedURL,
		"visited", result.Visited,
		"staged", result.Staged,
		"failed", result.Failed,
		"batches", result.Batches,
		"duration", time.Since(start),
	)
	writeJSON(w, http.StatusOK, crawlResponse{Message: "Crawl complete"})
}

func decodeCrawlRequest(r io.Reader) (string, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return "", sitevec.Errorf(sitevec.EINVALID, "invalid JSON body")
	}

	var seedURL string
	if err := json.Unmarshal(raw, &seedURL); err != nil {
		var req crawlRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return "", sitevec.Errorf(sitevec.EINVALID, "body must be a URL string or an object with a url field")
		}
		seedURL = req.URL
	}
	if strings.TrimSpace(seedURL) == "" {
		return "", sitevec.Errorf(sitevec.EINVALID, "url required")
	}
	return seedURL, nil
}

func (s *Server) handleRunIndex(w http.ResponseWriter, r *http.Request) {
	if s.Runs == nil {
		s.Error(w, r, sitevec.Errorf(sitevec.ENOTFOUND, "run ledger disabled"))
		return
	}

	var filter sitevec.RunFilter
	q := r.URL.Query()
	if v := q.Get("state"); v != "" {
		filter.State = &v
	}
	if v := q.Get("target"); v != "" {
		filter.TargetID = &v
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.Error(w, r, sitevec.Errorf(sitevec.EINVALID, "invalid limit %q", v))
			return
		}
		filter.Limit = n
	}

	runs, err := s.Runs.FindRuns(r.Context(), filter)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleRunView(w http.ResponseWriter, r *http.Request) {
	if s.Runs == nil {
		s.Error(w, r, sitevec.Errorf(sitevec.ENOTFOUND, "run ledger disabled"))
		return
	}

	run, err := s.Runs.FindRunByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	uploads, err := s.Runs.FindUploads(r.Context(), run.ID)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		*sitevec.Run
		Uploads []*sitevec.Upload `json:"uploads"`
	}{run, uploads})
}

// Error writes err as a JSON error response.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusCode(err)
	if code == http.StatusInternalServerError {
		s.Logger.Error("http error", "method", r.Method, "path", r.URL.Path, "err", err)
	}

	msg := sitevec.ErrorMessage(err)
	var uploadErr *sitevec.UploadError
	var targetErr *sitevec.TargetError
	if errors.As(err, &uploadErr) || errors.As(err, &targetErr) {
		msg = err.Error()
	}
	writeJSON(w, code, errorResponse{ErrorMessage: msg})
}

// StatusCode maps an error to the HTTP status reported to clients.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var uploadErr *sitevec.UploadError
	if errors.As(err, &uploadErr) {
		return http.StatusBadGateway
	}

	var targetErr *sitevec.TargetError
	if errors.As(err, &targetErr) {
		var remoteErr *sitevec.RemoteError
		if errors.As(err, &remoteErr) && remoteErr.StatusCode >= 400 && remoteErr.StatusCode <= 599 {
			return remoteErr.StatusCode
		}
		return http.StatusBadGateway
	}

	switch sitevec.ErrorCode(err) {
	case sitevec.EINVALID:
		return http.StatusBadRequest
	case sitevec.ENOTFOUND:
		return http.StatusNotFound
	case sitevec.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
