package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/example/go-pinyin/internal/config"
	"github.com/example/go-pinyin/internal/pinyin"
	"github.com/example/go-pinyin/internal/text"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// Encoder is the conversion surface served over HTTP. *pinyin.Converter
// implements it.
type Encoder interface {
	Render(in pinyin.Input, join, nosplit bool) pinyin.Result
	EncodeHanzi(in pinyin.Input) pinyin.Codes
	EncodePinyin(in pinyin.Input) pinyin.Codes
	EncodePronunciation(in pinyin.Input) pinyin.Codes
}

// VocabLister exposes the code tables. *pinyin.Codebook implements it.
type VocabLister interface {
	PinyinVocab() []string
	HanziVocab() []string
}

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxTextBytes   int
	workers        int
	requestTimeout time.Duration
	normalize      bool
	logger         *slog.Logger
}

func defaultOptions() options {
	return options{
		maxTextBytes:   4096,
		workers:        4,
		requestTimeout: 10 * time.Second,
		normalize:      true,
		logger:         slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxTextBytes sets the maximum total text size in bytes of one request.
func WithMaxTextBytes(n int) Option {
	return func(o *options) { o.maxTextBytes = n }
}

// WithWorkers sets the maximum number of requests converted concurrently.
// n <= 0 disables the limit.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithRequestTimeout bounds how long a request may wait for a worker slot.
// A non-positive d waits until the request itself is cancelled.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithNormalize enables width and NFC folding of request text.
func WithNormalize(on bool) Option {
	return func(o *options) { o.normalize = on }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

// handler holds the dependencies needed to serve HTTP requests.
type handler struct {
	enc   Encoder
	vocab VocabLister
	opts  options
	sem   chan struct{} // semaphore for worker pool
	log   *slog.Logger
}

// NewHandler returns an http.Handler that serves /health, /render,
// /encode/{hanzi,pinyin,pronunciation} and /vocab/{pinyin,hanzi}.
func NewHandler(enc Encoder, vocab VocabLister, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		enc:   enc,
		vocab: vocab,
		opts:  opts,
		log:   opts.logger,
	}
	if opts.workers > 0 {
		h.sem = make(chan struct{}, opts.workers)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("POST /render", h.handleRender)
	mux.HandleFunc("POST /encode/hanzi", h.handleEncodeHanzi)
	mux.HandleFunc("POST /encode/pinyin", h.handleEncodePinyin)
	mux.HandleFunc("POST /encode/pronunciation", h.handleEncodePronunciation)
	mux.HandleFunc("GET /vocab/pinyin", h.handleVocab(func(v VocabLister) []string { return v.PinyinVocab() }))
	mux.HandleFunc("GET /vocab/hanzi", h.handleVocab(func(v VocabLister) []string { return v.HanziVocab() }))

	return RequestID(Logger(opts.logger)(mux))
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildVersion(),
	})
}

// textRequest carries either one text or a list of texts.
type textRequest struct {
	Text    *string  `json:"text"`
	Texts   []string `json:"texts"`
	Join    *bool    `json:"join"`
	NoSplit bool     `json:"nosplit"`
}

// pinyinRequest carries one syllable, a list of syllables or a list of
// syllable lists.
type pinyinRequest struct {
	Syllable  *string    `json:"syllable"`
	Syllables []string   `json:"syllables"`
	Batches   [][]string `json:"batches"`
}

type renderResponse struct {
	Result pinyin.Result `json:"result"`
}

type codesResponse struct {
	Codes pinyin.Codes `json:"codes"`
}

var errNoInput = errors.New(`one of "text" or "texts" is required`)

// input validates req and turns it into a converter input.
func (h *handler) input(req textRequest) (pinyin.Input, int, error) {
	fold := func(s string) string {
		if h.opts.normalize {
			return text.Fold(s)
		}
		return s
	}

	switch {
	case req.Text != nil && req.Texts != nil:
		return nil, 0, errors.New(`"text" and "texts" are mutually exclusive`)
	case req.Text != nil:
		if *req.Text == "" {
			return nil, 0, text.ErrEmptyText
		}
		return pinyin.Single(fold(*req.Text)), len(*req.Text), nil
	case req.Texts != nil:
		size := 0
		flat := make(pinyin.Flat, len(req.Texts))
		for i, s := range req.Texts {
			size += len(s)
			flat[i] = fold(s)
		}
		return flat, size, nil
	default:
		return nil, 0, errNoInput
	}
}

func (h *handler) pinyinInput(req pinyinRequest) (pinyin.Input, int, error) {
	set := 0
	for _, ok := range []bool{req.Syllable != nil, req.Syllables != nil, req.Batches != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, 0, errors.New(`exactly one of "syllable", "syllables" or "batches" is required`)
	}

	switch {
	case req.Syllable != nil:
		return pinyin.Single(*req.Syllable), len(*req.Syllable), nil
	case req.Syllables != nil:
		size := 0
		for _, s := range req.Syllables {
			size += len(s)
		}
		return pinyin.Flat(req.Syllables), size, nil
	default:
		size := 0
		for _, b := range req.Batches {
			for _, s := range b {
				size += len(s)
			}
		}
		return pinyin.Nested(req.Batches), size, nil
	}
}

func (h *handler) handleRender(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !h.decode(w, r, &req) {
		return
	}
	in, size, err := h.input(req)
	if !h.admit(w, r, size, err) {
		return
	}
	defer h.release()

	join := true
	if req.Join != nil {
		join = *req.Join
	}

	start := time.Now()
	res := h.enc.Render(in, join, req.NoSplit)
	h.logDone(r, "render", size, start)

	writeJSON(w, http.StatusOK, renderResponse{Result: res})
}

func (h *handler) handleEncodeHanzi(w http.ResponseWriter, r *http.Request) {
	h.serveTextCodes(w, r, "encode_hanzi", h.enc.EncodeHanzi)
}

func (h *handler) handleEncodePronunciation(w http.ResponseWriter, r *http.Request) {
	h.serveTextCodes(w, r, "encode_pronunciation", h.enc.EncodePronunciation)
}

func (h *handler) serveTextCodes(w http.ResponseWriter, r *http.Request, op string, fn func(pinyin.Input) pinyin.Codes) {
	var req textRequest
	if !h.decode(w, r, &req) {
		return
	}
	in, size, err := h.input(req)
	if !h.admit(w, r, size, err) {
		return
	}
	defer h.release()

	start := time.Now()
	codes := fn(in)
	h.logDone(r, op, size, start)

	writeJSON(w, http.StatusOK, codesResponse{Codes: codes})
}

func (h *handler) handleEncodePinyin(w http.ResponseWriter, r *http.Request) {
	var req pinyinRequest
	if !h.decode(w, r, &req) {
		return
	}
	in, size, err := h.pinyinInput(req)
	if !h.admit(w, r, size, err) {
		return
	}
	defer h.release()

	start := time.Now()
	codes := h.enc.EncodePinyin(in)
	h.logDone(r, "encode_pinyin", size, start)

	writeJSON(w, http.StatusOK, codesResponse{Codes: codes})
}

func (h *handler) handleVocab(get func(VocabLister) []string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		vocab := get(h.vocab)
		if vocab == nil {
			vocab = []string{}
		}
		writeJSON(w, http.StatusOK, map[string][]string{"vocab": vocab})
	}
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		writeError(w, http.StatusBadRequest, "request body is required")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// admit checks the decoded input and acquires a worker slot. When it
// returns true the caller must call release.
func (h *handler) admit(w http.ResponseWriter, r *http.Request, size int, err error) bool {
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}

	if h.opts.maxTextBytes > 0 && size > h.opts.maxTextBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("text exceeds maximum size of %d bytes", h.opts.maxTextBytes))
		return false
	}

	if h.sem == nil {
		return true
	}

	// Acquire a worker slot, honouring cancellation and the wait deadline.
	// A non-positive timeout waits until the client goes away.
	ctx := r.Context()
	if h.opts.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.requestTimeout)
		defer cancel()
	}

	select {
	case h.sem <- struct{}{}:
		return true
	case <-ctx.Done():
		h.log.WarnContext(r.Context(), "no worker available",
			slog.String("path", r.URL.Path),
			slog.String("error", ctx.Err().Error()),
		)
		writeError(w, http.StatusServiceUnavailable, "no worker available")
		return false
	}
}

func (h *handler) release() {
	if h.sem != nil {
		<-h.sem
	}
}

func (h *handler) logDone(r *http.Request, op string, size int, start time.Time) {
	h.log.InfoContext(r.Context(), "conversion complete",
		slog.String("op", op),
		slog.Int("text_len", size),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		slog.String("request_id", RequestIDFromContext(r.Context())),
	)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Server
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful shutdown.
type Server struct {
	cfg             config.Config
	conv            *pinyin.Converter
	shutdownTimeout time.Duration
}

func New(cfg config.Config, conv *pinyin.Converter) *Server {
	return &Server{
		cfg:             cfg,
		conv:            conv,
		shutdownTimeout: 30 * time.Second,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

// Handler builds the HTTP handler from the server configuration.
func (s *Server) Handler() (http.Handler, error) {
	if s.conv == nil {
		return nil, errors.New("server has no converter")
	}

	return NewHandler(s.conv, s.conv.Codebook(),
		WithWorkers(s.cfg.Server.Workers),
		WithMaxTextBytes(s.cfg.Server.MaxTextBytes),
		WithRequestTimeout(time.Duration(s.cfg.Server.RequestTimeout)*time.Second),
		WithNormalize(s.cfg.Convert.Normalize),
		WithLogger(slog.Default()),
	), nil
}

func (s *Server) Start(ctx context.Context) error {
	h, err := s.Handler()
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	slog.Info("listening", slog.String("addr", s.cfg.Server.ListenAddr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}

func ProbeHTTP(addr string) error {
	if strings.HasPrefix(addr, ":") {
		addr = "127.0.0.1" + addr
	}
	resp, err := http.Get("http://" + addr + "/health") //nolint:noctx
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %s", resp.Status)
	}
	return nil
}
