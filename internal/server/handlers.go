package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/topiccloud/pkg/buildinfo"
	"github.com/matzehuels/topiccloud/pkg/errors"
	"github.com/matzehuels/topiccloud/pkg/render/sink"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	c, ok := s.current()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "word cloud not ready")
		return
	}
	render(w, r, Page(PageData{
		Title:   s.cfg.Title,
		Cloud:   c.svg,
		Details: c.panel.Details(),
		Version: buildinfo.Short(),
	}))
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	c, ok := s.current()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "word cloud not ready")
		return
	}
	// The standalone document has no panel to update, so it carries no script.
	svg := sink.RenderSVG(c.scene, sink.WithMargin(s.opts.Margin), sink.WithEmbeddedFont(),
		sink.WithSelected(c.panel.Selected()), sink.WithTitle(s.cfg.Title))
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	c, ok := s.current()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "word cloud not ready")
		return
	}
	writeJSON(w, http.StatusOK, c.scene)
}

func (s *Server) handleTopic(w http.ResponseWriter, r *http.Request) {
	c, ok := s.current()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "word cloud not ready")
		return
	}
	i, err := indexParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.UserMessage(err))
		return
	}
	word, err := c.scene.Word(i)
	if err != nil {
		writeError(w, http.StatusNotFound, errors.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, word)
}

// handleSelect dispatches a click and answers with the panel fragment.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	c, ok := s.current()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "word cloud not ready")
		return
	}
	i, err := indexParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.UserMessage(err))
		return
	}
	if err := c.dispatcher.Click(r.Context(), i); err != nil {
		writeError(w, http.StatusNotFound, errors.UserMessage(err))
		return
	}
	render(w, r, Panel(c.panel.Details()))
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	c, err := s.reload(r.Context())
	if err != nil {
		if errors.Is(err, errors.ErrCodeSuperseded) {
			writeError(w, http.StatusConflict, "reload superseded by a newer reload")
			return
		}
		s.logger.Error("reload failed", "error", err)
		writeError(w, http.StatusInternalServerError, errors.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       c.scene.ID,
		"words":    c.scene.Len(),
		"viewport": c.scene.Viewport,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, ready := s.current()
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"ready":      ready,
		"generation": s.target.Generation(),
		"clients":    s.hub.Len(),
		"version":    buildinfo.Version,
	})
}

func indexParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidIndex, "index must be an integer, got %q", raw)
	}
	return i, nil
}

func render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		http.Error(w, "failed to render", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
