package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kaelzhang/module-walker/pkg/buildinfo"
	"github.com/kaelzhang/module-walker/pkg/config"
	"github.com/kaelzhang/module-walker/pkg/errors"
	"github.com/kaelzhang/module-walker/pkg/observability/promhooks"
	"github.com/kaelzhang/module-walker/pkg/render"
	"github.com/kaelzhang/module-walker/pkg/walker"
)

const shutdownTimeout = 10 * time.Second

func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags walkFlags
		addr  string
		jail  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve walks over HTTP",
		Long: `Serve exposes POST /walk, GET /healthz and GET /metrics. The command's flags
and config file set the base walk options; requests may override the
boolean policies, extensions and concurrency but not transform stages.

Entries name files on the server's filesystem and are read with the server's
permissions. Use --root to reject entries outside one directory; relative
entries then resolve against it. Dependencies reached from an entry are
followed wherever they resolve.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			if jail != "" {
				if jail, err = filepath.Abs(jail); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidOptions, err, "invalid --root")
				}
			}
			logger := loggerFromContext(cmd.Context())
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			opts.Hooks = promhooks.New(reg)

			s := newServer(opts, reg, logger)
			s.jail = jail
			srv := &http.Server{
				Addr:              addr,
				Handler:           s.routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				logger.Info("listening", "addr", addr)
				if err := srv.ListenAndServe(); !stderrors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				logger.Info("shutting down")
				return srv.Shutdown(sctx)
			})
			return g.Wait()
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&jail, "root", "", "only accept entries inside this directory")
	return cmd
}

// server handles walk requests against a base configuration.
type server struct {
	base   walker.Options
	reg    *prometheus.Registry
	logger *log.Logger

	// jail, when set, is an absolute directory every entry must lie in.
	jail string
}

func newServer(base walker.Options, reg *prometheus.Registry, logger *log.Logger) *server {
	return &server{base: base, reg: reg, logger: logger}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.health)
	r.Post("/walk", s.walk)
	r.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{Registry: s.reg}))
	return r
}

// requestLogger attaches a logger tagged with the request id to the request
// context.
func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := s.logger.With("request", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(withLogger(r.Context(), l)))
	})
}

// walkRequest is the body of POST /walk. Relative entries resolve against Root.
type walkRequest struct {
	Entries []string       `json:"entries"`
	Root    string         `json:"root,omitempty"`
	Options *config.Config `json:"options,omitempty"`
}

type errorResponse struct {
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Path      string   `json:"path,omitempty"`
	Specifier string   `json:"specifier,omitempty"`
	Location  string   `json:"location,omitempty"`
	Trail     []string `json:"trail,omitempty"`
}

func (s *server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *server) walk(w http.ResponseWriter, r *http.Request) {
	var req walkRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidOptions, err, "invalid request body"))
		return
	}
	if len(req.Entries) == 0 {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidOptions, "entries is required"))
		return
	}

	logger := loggerFromContext(r.Context())
	opts := s.base
	opts.Logger = logger
	if req.Options != nil {
		if len(req.Options.Stages) > 0 {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidOptions, "stages cannot be set per request"))
			return
		}
		if err := req.Options.Validate(); err != nil {
			s.fail(w, r, err)
			return
		}
		req.Options.Apply(&opts)
	}

	root := req.Root
	if root != "" && !filepath.IsAbs(root) {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidOptions, "root must be absolute"))
		return
	}
	if root == "" {
		root = s.jail
	}
	entries := make([]string, len(req.Entries))
	for i, e := range req.Entries {
		if root != "" && !filepath.IsAbs(e) {
			e = filepath.Join(root, e)
		}
		if s.jail != "" && !within(s.jail, e) {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidOptions, "entry %q is outside %s", req.Entries[i], s.jail))
			return
		}
		entries[i] = e
	}

	res, err := walker.Walk(r.Context(), opts, entries...)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	logger.Debug("walk served", "walk", res.ID, "nodes", res.Graph.Len())
	writeJSON(w, http.StatusOK, render.NewDocument(res, render.Options{Root: root}))
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{Code: string(errors.GetCode(err)), Message: errors.UserMessage(err)}
	if e, ok := errors.As(err); ok {
		resp.Path = e.Path
		resp.Specifier = e.Specifier
		resp.Location = e.Location
		resp.Trail = e.Trail
	}
	if resp.Code == "" {
		resp.Code = string(errors.ErrCodeInternal)
	}
	loggerFromContext(r.Context()).Warn("walk failed", "status", status, "error", err)
	writeJSON(w, status, resp)
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidOptions, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidPackage:
		return http.StatusBadRequest
	case errors.ErrCodeModuleNotFound, errors.ErrCodeFileRead, errors.ErrCodeParse,
		errors.ErrCodeBadDependencyUsage, errors.ErrCodeDisallowedAbsolute,
		errors.ErrCodeCyclicDependency, errors.ErrCodeTransformStageError:
		return http.StatusUnprocessableEntity
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// within reports whether path is dir or lies below it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
