// Package preview expone por HTTP local la vista previa abierta, para verla en un navegador.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"legal-document-manager/pkg/ports"
)

var page = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>body{font-family:Arial,sans-serif;max-width:48rem;margin:2rem auto;line-height:1.5}</style>
</head>
<body>
<h1>{{.Title}}</h1>
<article>{{.Content}}</article>
<script>
(function(){
  var last = 0;
  ["mousemove","mousedown","keydown","scroll","touchstart"].forEach(function(kind){
    window.addEventListener(kind, function(){
      var now = Date.now();
      if (now - last < 5000) { return; }
      last = now;
      fetch("/session/activity", {method: "POST", headers: {"Content-Type": "application/json"}, body: JSON.stringify({kind: kind})});
    }, {passive: true});
  });
})();
</script>
</body>
</html>`))

// Server sirve la vista previa de PreviewService.
type Server struct {
	preview   ports.PreviewService
	documents ports.DocumentService
	logger    zerolog.Logger
	router    *mux.Router
	activity  func(kind string) bool
}

// NewServer crea el servidor. documents puede ser nil si no se quiere abrir vistas por id.
func NewServer(preview ports.PreviewService, documents ports.DocumentService, logger zerolog.Logger) *Server {
	s := &Server{
		preview:   preview,
		documents: documents,
		logger:    logger.With().Str("component", "preview-http").Logger(),
		router:    mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.logRequests)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/preview", s.handleGetPreview).Methods(http.MethodGet)
	s.router.HandleFunc("/preview.json", s.handleGetPreviewJSON).Methods(http.MethodGet)
	s.router.HandleFunc("/preview", s.handleClosePreview).Methods(http.MethodDelete)
	s.router.HandleFunc("/documents/{id:[0-9]+}/preview", s.handleOpenPreview).Methods(http.MethodPost)
	s.router.HandleFunc("/session/activity", s.handleActivity).Methods(http.MethodPost)
}

// OnActivity registra quién recibe la actividad que reporta la página de vista previa.
// record devuelve false si el tipo de actividad no se reconoce.
func (s *Server) OnActivity(record func(kind string) bool) {
	s.activity = record
}

// ServeHTTP implementa http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe atiende en addr hasta que ctx se cancela.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("preview server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Dur("elapsed", time.Since(start)).Msg("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetPreview(w http.ResponseWriter, _ *http.Request) {
	p, ok := s.preview.Preview()
	if !ok {
		http.Error(w, "no preview open", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// El contenido es el HTML del documento ya renderizado; se inserta sin escapar.
	err := page.Execute(w, struct {
		Title   string
		Content template.HTML
	}{p.Title, template.HTML(p.Content)})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to render preview page")
	}
}

func (s *Server) handleGetPreviewJSON(w http.ResponseWriter, _ *http.Request) {
	p, ok := s.preview.Preview()
	if !ok {
		respondError(w, http.StatusNotFound, "no preview open")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleClosePreview(w http.ResponseWriter, _ *http.Request) {
	s.preview.ClosePreview()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOpenPreview(w http.ResponseWriter, r *http.Request) {
	if s.documents == nil {
		respondError(w, http.StatusNotImplemented, "documents are not available")
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid document ID")
		return
	}
	doc, ok := s.documents.DocumentByID(id)
	if !ok {
		respondError(w, http.StatusNotFound, "document not found")
		return
	}
	respondJSON(w, http.StatusOK, s.preview.OpenPreview(doc))
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	if s.activity == nil {
		respondError(w, http.StatusNotFound, "session tracking is disabled")
		return
	}
	var body struct {
		Kind string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !s.activity(body.Kind) {
		respondError(w, http.StatusBadRequest, "unknown activity kind")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
