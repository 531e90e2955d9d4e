package router

import (
	"log"
	"net/http"
	"strings"
	"time"
)

// --- ANSI color codes ---
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

type HandlerFunc func(http.ResponseWriter, *http.Request)

// Router is a minimal HTTP router with wildcard segments and colored
// request logging. Routes register as METHOD + path, where "*" matches a
// single path segment.
type Router struct {
	mux    *http.ServeMux
	routes map[string]HandlerFunc // key = METHOD:PATH
	paths  map[string]bool
}

func New() *Router {
	r := &Router{
		mux:    http.NewServeMux(),
		routes: make(map[string]HandlerFunc),
		paths:  make(map[string]bool),
	}

	r.mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		r.dispatch(lrw, req)

		duration := time.Since(start)
		log.Printf("%s[%s]%s %s%s%s %s %s%d%s %s(%v)%s",
			colorCyan, start.Format("2006-01-02 15:04:05"), colorReset,
			methodColor(req.Method), req.Method, colorReset,
			req.URL.Path,
			statusColor(lrw.statusCode), lrw.statusCode, colorReset,
			colorBlue, duration, colorReset,
		)
	})

	return r
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	if h, ok := r.routes[req.Method+":"+req.URL.Path]; ok {
		h(w, req)
		return
	}

	// Wildcard routes, longest pattern first so specific routes win.
	var best string
	for path := range r.paths {
		if !strings.Contains(path, "*") {
			continue
		}
		if matchWildcard(req.URL.Path, path) && len(path) > len(best) {
			if _, ok := r.routes[req.Method+":"+path]; ok {
				best = path
			}
		}
	}
	if best != "" {
		r.routes[req.Method+":"+best](w, req)
		return
	}

	if r.paths[req.URL.Path] {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	http.Error(w, "Not Found", http.StatusNotFound)
}

// matchWildcard matches a request path against a registered pattern where
// each "*" consumes one path segment, except a trailing "*" which consumes
// the rest of the path.
func matchWildcard(path, pattern string) bool {
	ps := strings.Split(strings.Trim(path, "/"), "/")
	ts := strings.Split(strings.Trim(pattern, "/"), "/")

	if len(ts) > 0 && ts[len(ts)-1] == "*" && len(ps) >= len(ts) {
		ps = ps[:len(ts)]
	}
	if len(ps) != len(ts) {
		return false
	}
	for i := range ts {
		if ts[i] != "*" && ts[i] != ps[i] {
			return false
		}
	}
	return true
}

func (r *Router) handle(method, path string, h HandlerFunc) {
	r.routes[method+":"+path] = h
	r.paths[path] = true
}

func (r *Router) GET(path string, h HandlerFunc)  { r.handle(http.MethodGet, path, h) }
func (r *Router) POST(path string, h HandlerFunc) { r.handle(http.MethodPost, path, h) }

// Start runs the HTTP server on the given address.
func (r *Router) Start(addr string) {
	log.Printf("%s🚀 Server listening on %s%s", colorGreen, addr, colorReset)
	if err := http.ListenAndServe(addr, r.mux); err != nil {
		log.Fatalf("%sserver error: %v%s", colorRed, err, colorReset)
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusColor(code int) string {
	switch {
	case code >= 500:
		return colorRed
	case code >= 400:
		return colorYellow
	default:
		return colorGreen
	}
}

func methodColor(method string) string {
	switch method {
	case http.MethodPost:
		return colorYellow
	case http.MethodGet:
		return colorGreen
	default:
		return colorBlue
	}
}
