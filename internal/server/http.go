// Package server implements the live-preview HTTP server: it renders
// one source document, serves it as a page or raw fragment, and pushes
// a reload event to subscribers whenever the file changes on disk.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/solen/mdkit/internal/render"
	"github.com/solen/mdkit/pkg/markdown"
)

// Server serves the rendered preview of a single source file.
type Server struct {
	cfg  *viper.Viper
	log  *log.Logger
	conv *markdown.Converter
	path string

	mu       sync.RWMutex
	fragment string

	subMu sync.Mutex
	subs  map[chan struct{}]struct{}
}

func New(cfg *viper.Viper, logger *log.Logger, conv *markdown.Converter, path string) *Server {
	return &Server{
		cfg:  cfg,
		log:  logger,
		conv: conv,
		path: path,
		subs: make(map[chan struct{}]struct{}),
	}
}

// Render reads the source file, transforms it, and notifies event
// subscribers. It is called once at startup and again on every watched
// change.
func (s *Server) Render() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read %s: %w", s.path, err)
	}
	fragment := s.conv.Transform(string(data))

	s.mu.Lock()
	s.fragment = fragment
	s.mu.Unlock()

	s.notify()
	return nil
}

// Fragment returns the last rendered fragment.
func (s *Server) Fragment() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fragment
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", s.handlePage)
	mux.HandleFunc("/fragment", s.handleFragment)
	mux.HandleFunc("/events", s.handleEvents)
	return mux
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := render.ComposePage(filepath.Base(s.path), s.stylesheet(), s.Fragment())
	_, _ = w.Write([]byte(page + reloadScript))
}

func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(s.Fragment()))
}

// handleEvents streams one SSE "reload" event per successful re-render
// until the client goes away.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.subscribe()
	defer s.unsubscribe(ch)

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for n := 0; ; n++ {
		select {
		case <-r.Context().Done():
			return
		case <-ch:
			fmt.Fprintf(w, "event: reload\ndata: %d\n\n", n)
			flusher.Flush()
		}
	}
}

func (s *Server) stylesheet() string {
	path := s.cfg.GetString("style_path")
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Printf("stylesheet %s: %v", path, err)
		return ""
	}
	return string(data)
}

func (s *Server) subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()
	return ch
}

func (s *Server) unsubscribe(ch chan struct{}) {
	s.subMu.Lock()
	delete(s.subs, ch)
	s.subMu.Unlock()
}

func (s *Server) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default: // subscriber already has a pending reload
		}
	}
}

// Run renders once, starts the file watcher, and serves HTTP until the
// context is canceled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Render(); err != nil {
		return err
	}
	go func() {
		if err := s.Watch(ctx); err != nil {
			s.log.Printf("watch: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:    s.cfg.GetString("serve.addr"),
		Handler: s.Router(),
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Printf("preview of %s on http://%s/", s.path, srv.Addr)

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

// reloadScript reconnects the page to /events and reloads on each
// render. Appended after the composed document so the page itself stays
// a faithful rendering of the fragment.
const reloadScript = `<script>
new EventSource("/events").addEventListener("reload", () => location.reload());
</script>
`
