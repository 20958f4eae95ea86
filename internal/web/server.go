// Package web serves the browser UI: the parameter form, the loading page,
// the rendered report and the document download.
package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/painresearch/internal/export"
	"github.com/hyperifyio/painresearch/internal/render"
	"github.com/hyperifyio/painresearch/internal/research"
	"github.com/hyperifyio/painresearch/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// ExportFailedNotice is shown when a document could not be produced.
const ExportFailedNotice = "Не удалось создать файл. Попробуйте еще раз."

// Options configure a Server.
type Options struct {
	Progress session.Progress
	// PDFFont enables the PDF download when non-empty.
	PDFFont string
	// Model is shown in the page header.
	Model string
}

// Server owns the routes and templates. All state lives in the controller's
// session.
type Server struct {
	ctl  *session.Controller
	opts Options
	tmpl *template.Template
	now  func() time.Time
}

// New parses the embedded templates.
func New(ctl *session.Controller, opts Options) (*Server, error) {
	if len(opts.Progress.Messages) == 0 {
		opts.Progress = session.DefaultProgress()
	}
	tmpl, err := template.New("web").Funcs(template.FuncMap{
		"upper": strings.ToUpper,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{ctl: ctl, opts: opts, tmpl: tmpl, now: time.Now}, nil
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/research", s.handleSubmit)
	r.Post("/reset", s.handleReset)
	r.Get("/export", s.handleExport)
	r.Get("/api/state", s.handleState)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

type depthOption struct {
	Value    string
	Title    string
	Selected bool
}

type pageData struct {
	session.Snapshot
	Topic          string
	Model          string
	Message        string
	RefreshSeconds int
	Depths         []depthOption
	Report         render.Report
	PDF            bool
	Notice         string
}

func (s *Server) page(snap session.Snapshot, notice string) pageData {
	d := pageData{
		Snapshot: snap,
		Topic:    snap.Params.Topic,
		Model:    s.opts.Model,
		PDF:      s.opts.PDFFont != "",
		Notice:   notice,
	}
	refresh := int(s.opts.Progress.Interval / time.Second)
	if refresh < 1 {
		refresh = 1
	}
	d.RefreshSeconds = refresh
	if snap.Phase == session.PhaseLoading {
		d.Message = s.opts.Progress.At(s.now().Sub(snap.StartedAt))
	}
	selected := snap.Params.Depth
	if selected == "" {
		selected = research.DepthBasic
	}
	for _, dep := range research.Depths() {
		d.Depths = append(d.Depths, depthOption{Value: string(dep), Title: dep.Title(), Selected: dep == selected})
	}
	if snap.Result != nil {
		d.Report = render.Build(snap.Result, snap.Params.Topic)
	}
	return d
}

func (s *Server) render(w http.ResponseWriter, status int, d pageData) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "page", d); err != nil {
		log.Error().Err(err).Msg("render page")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, s.page(s.ctl.Session.Snapshot(), ""))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	p := research.Params{
		Topic:     r.PostFormValue("topic"),
		Subthemes: r.PostFormValue("subthemes"),
		Audience:  r.PostFormValue("audience"),
		Depth:     research.ParseDepth(r.PostFormValue("depth")),
	}
	if !s.ctl.Start(p) {
		log.Debug().Str("topic", p.Topic).Msg("submit ignored")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.ctl.Session.Reset()
	log.Info().Msg("session reset")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	params, res, ok := s.ctl.Session.BeginExport()
	if !ok {
		http.Error(w, "export unavailable", http.StatusConflict)
		return
	}
	defer s.ctl.Session.EndExport()

	exp := &export.Exporter{Format: format, FontPath: s.opts.PDFFont}
	var buf bytes.Buffer
	if err := exp.Export(&buf, res, params.Topic); err != nil {
		log.Error().Err(err).Str("format", string(format)).Msg("export failed")
		// The result stays on screen; only a notice is added.
		snap := s.ctl.Session.Snapshot()
		snap.Exporting = false
		s.render(w, http.StatusInternalServerError, s.page(snap, ExportFailedNotice))
		return
	}
	name := export.FileName(params.Topic, format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

type stateResponse struct {
	session.Snapshot
	Message string `json:"message,omitempty"`
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	snap := s.ctl.Session.Snapshot()
	out := stateResponse{Snapshot: snap}
	if snap.Phase == session.PhaseLoading {
		out.Message = s.opts.Progress.At(s.now().Sub(snap.StartedAt))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// accessLog writes one zerolog line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("http")
	})
}
