package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/browser"
	"go.uber.org/zap"

	"github.com/phyten/todovet/internal/engine"
	engineopts "github.com/phyten/todovet/internal/engine/opts"
	"github.com/phyten/todovet/internal/progress"
	"github.com/phyten/todovet/internal/web"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(ctx context.Context, args []string, d deps) int {
	cf, code, ok := parseCommand("serve", args, d)
	if !ok {
		return code
	}
	s, err := newSession(ctx, cf, d)
	if err != nil {
		fmt.Fprintln(d.stderr, err)
		return exitError
	}
	defer s.Close()

	ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(cf.port)))
	if err != nil {
		fmt.Fprintln(d.stderr, err)
		return exitError
	}
	url := "http://" + ln.Addr().String() + "/"
	fmt.Fprintf(d.stderr, "todovet serve listening on %s (basepath=%s)\n", url, s.opts.BasePath)
	if cf.open {
		if err := browser.OpenURL(url); err != nil {
			s.log.Warn("failed to open browser", zap.String("url", url), zap.Error(err))
		}
	}
	if err := serveUntilDone(ctx, &http.Server{Handler: newRouter(s), ReadHeaderTimeout: 10 * time.Second}, ln); err != nil {
		fmt.Fprintln(d.stderr, err)
		return exitError
	}
	return exitOK
}

// serveUntilDone serves on ln until ctx is cancelled, then shuts down
// gracefully.
func serveUntilDone(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newRouter(s *session) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.log))

	web.Register(r, web.PageInfo{
		BasePath: s.opts.BasePath,
		Tracker:  s.settings.IssueTracker,
		Origin:   s.settings.Origin,
		Version:  versionString(),
		RepoURL:  s.repoURL,
	})
	r.Get("/health", healthHandler)
	r.Get("/api/check", apiCheckHandler(s))
	r.Get("/api/check/stream", apiCheckStreamHandler(s))
	return r
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()))
		})
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": versionString()})
}

// requestOptions applies the query string to the server's options. The base
// path and tracker stay fixed.
func (s *session) requestOptions(r *http.Request) (engine.Options, error) {
	opts, err := engineopts.ApplyWebQueryToOptions(s.opts, r.URL.Query())
	if err != nil {
		return opts, err
	}
	if err := engineopts.NormalizeAndValidate(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

func apiCheckHandler(s *session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := s.requestOptions(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}
		res, err := engine.Run(r.Context(), opts)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, web.NewResponse(res))
	}
}

// apiCheckStreamHandler streams "progress" events while checking and ends
// with a "result" or an "error" event.
func apiCheckStreamHandler(s *session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := s.requestOptions(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeJSONError(w, http.StatusInternalServerError, errors.New("streaming unsupported"))
			return
		}
		w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		var mu sync.Mutex
		send := func(event string, payload any) {
			data, err := json.Marshal(payload)
			if err != nil {
				s.log.Error("failed to encode event", zap.String("event", event), zap.Error(err))
				return
			}
			mu.Lock()
			defer mu.Unlock()
			_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
			flusher.Flush()
		}
		mu.Lock()
		_, _ = fmt.Fprint(w, ": stream opened\n\n")
		flusher.Flush()
		mu.Unlock()

		opts.ProgressObserver = progress.ObserverFunc(func(snap progress.Snapshot) {
			send("progress", snap)
		})
		res, err := engine.Run(r.Context(), opts)
		if err != nil {
			if r.Context().Err() == nil {
				send("error", map[string]string{"error": err.Error()})
			}
			return
		}
		send("result", web.NewResponse(res))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
