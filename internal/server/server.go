// Package server exposes GUID generation and parsing over HTTP.
package server

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Lzww0608/hguid"
	"github.com/Lzww0608/hguid/store"
)

// Recorder persists issued GUIDs. *store.Registry satisfies it.
type Recorder interface {
	Record(ctx context.Context, tag string, ids ...hguid.GUID) error
}

// Options configures the HTTP handler.
type Options struct {
	Generator *hguid.Generator
	Recorder  Recorder // optional
	Tag       string
	MaxBatch  int
	Logger    *slog.Logger
}

type handler struct {
	gen      *hguid.Generator
	rec      Recorder
	tag      string
	maxBatch int
	log      *slog.Logger
}

// generateResponse is the body of GET /v1/guids.
type generateResponse struct {
	GUIDs []hguid.GUID `json:"guids"`
}

// fieldsResponse describes one parsed GUID.
type fieldsResponse struct {
	GUID    hguid.GUID `json:"guid"`
	Braced  string     `json:"braced"`
	Data1   uint32     `json:"data1"`
	Data2   uint16     `json:"data2"`
	Data3   uint16     `json:"data3"`
	Data4   string     `json:"data4"`
	Version int        `json:"version"`
	Hybrid  bool       `json:"hybrid"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewRouter builds the chi router:
//
//	GET /healthz
//	GET /v1/guids?count=n
//	GET /v1/guids/empty
//	GET /v1/guids/{text}
func NewRouter(opts Options) *chi.Mux {
	h := &handler{
		gen:      opts.Generator,
		rec:      opts.Recorder,
		tag:      opts.Tag,
		maxBatch: opts.MaxBatch,
		log:      opts.Logger,
	}
	if h.gen == nil {
		h.gen = hguid.NewGenerator()
	}
	if h.maxBatch <= 0 {
		h.maxBatch = 1000
	}
	if h.log == nil {
		h.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1/guids", func(r chi.Router) {
		r.Get("/", h.generate)
		r.Get("/empty", h.empty)
		r.Get("/{text}", h.parse)
	})
	return r
}

func (h *handler) generate(w http.ResponseWriter, r *http.Request) {
	count := 1
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > h.maxBatch {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: "count must be between 1 and " + strconv.Itoa(h.maxBatch),
			})
			return
		}
		count = n
	}

	ids := h.gen.NewBatch(count)
	if h.rec != nil {
		if err := h.rec.Record(r.Context(), h.tag, ids...); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, store.ErrDuplicate) {
				status = http.StatusConflict
			}
			h.log.Error("record guids", "err", err, "count", count)
			writeJSON(w, status, errorResponse{Error: "failed to record guids"})
			return
		}
	}
	writeJSON(w, http.StatusOK, generateResponse{GUIDs: ids})
}

func (h *handler) empty(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, describe(hguid.Empty()))
}

func (h *handler) parse(w http.ResponseWriter, r *http.Request) {
	// chi matches on the raw path, so escaped braces arrive still encoded
	text, err := url.PathUnescape(chi.URLParam(r, "text"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	id, err := hguid.Parse(text)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, describe(id))
}

func describe(id hguid.GUID) fieldsResponse {
	f := id.Fields()
	return fieldsResponse{
		GUID:    id,
		Braced:  id.Braced(),
		Data1:   f.Data1,
		Data2:   f.Data2,
		Data3:   f.Data3,
		Data4:   hex.EncodeToString(f.Data4[:]),
		Version: int(id.Version()),
		Hybrid:  id.IsHybrid(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// requestLogger logs one line per request at debug level.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
