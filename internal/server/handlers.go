package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/matzehuels/rauzy/pkg/buildinfo"
	"github.com/matzehuels/rauzy/pkg/cover"
	"github.com/matzehuels/rauzy/pkg/errors"
	rio "github.com/matzehuels/rauzy/pkg/io"
	"github.com/matzehuels/rauzy/pkg/pipeline"
	"github.com/matzehuels/rauzy/pkg/render"
	"github.com/matzehuels/rauzy/pkg/store"
)

var contentTypes = map[render.Format]string{
	render.FormatDOT: "text/vnd.graphviz; charset=utf-8",
	render.FormatSVG: "image/svg+xml",
	render.FormatPNG: "image/png",
}

// decode reads a JSON request body into v. Unknown fields are rejected.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if mbe := new(http.MaxBytesError); stderrors.As(err, &mbe) {
			writeError(w, r, http.StatusRequestEntityTooLarge, errors.ErrCodeLimitExceeded, "request body too large")
			return false
		}
		writeError(w, r, http.StatusBadRequest, errors.ErrCodeInvalidInput, "malformed request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleInduce(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.InduceOptions
	if !s.decode(w, r, &opts) {
		return
	}
	res, err := s.runner.Induce(r.Context(), opts)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type diagramRequest struct {
	pipeline.ExploreOptions
	Format     string `json:"format,omitempty"` // json (default), dot, svg or png
	Detailed   bool   `json:"detailed,omitempty"`
	Monochrome bool   `json:"monochrome,omitempty"`
}

type componentView struct {
	Keys           []string        `json:"keys"`
	Representative string          `json:"representative"`
	Cover          cover.Signature `json:"cover"`
	Recurrent      bool            `json:"recurrent"`
}

type diagramResponse struct {
	pipeline.Meta
	Minimal componentView   `json:"minimal"`
	Diagram json.RawMessage `json:"diagram"`
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	var req diagramRequest
	if !s.decode(w, r, &req) {
		return
	}
	format := render.Format(req.Format)
	if req.Format != "" && req.Format != "json" {
		var err error
		if format, err = render.ParseFormat(req.Format); err != nil {
			writeEngineError(w, r, err)
			return
		}
	}

	res, err := s.runner.Explore(r.Context(), req.ExploreOptions)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	if ct, ok := contentTypes[format]; ok {
		out, err := s.runner.Render(r.Context(), res.Diagram, pipeline.RenderOptions{
			Formats:    []string{string(format)},
			Detailed:   req.Detailed,
			Monochrome: req.Monochrome,
			Title:      res.Minimal.Cover.Stratum,
		})
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("X-Run-Id", res.RunID)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(out[string(format)])
		return
	}

	data, err := rio.MarshalDiagram(res.Diagram)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, diagramResponse{
		Meta: res.Meta,
		Minimal: componentView{
			Keys:           res.Minimal.Keys,
			Representative: res.Minimal.Representative.String(),
			Cover:          res.Minimal.Cover,
			Recurrent:      res.Minimal.Recurrent,
		},
		Diagram: data,
	})
}

func (s *Server) handleCover(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.CoverOptions
	if !s.decode(w, r, &opts) {
		return
	}
	res, err := s.runner.Cover(r.Context(), opts)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCylinders(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.DecomposeOptions
	if !s.decode(w, r, &opts) {
		return
	}
	res, err := s.runner.Decompose(r.Context(), opts)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.SpeedOptions
	if !s.decode(w, r, &opts) {
		return
	}
	res, err := s.runner.Speed(r.Context(), opts)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleClasses(w http.ResponseWriter, r *http.Request) {
	if s.runner.Store == nil {
		writeError(w, r, http.StatusNotImplemented, errors.ErrCodeUnsupported, "no class catalog configured")
		return
	}
	q := r.URL.Query()
	if key := q.Get("key"); key != "" {
		c, err := s.runner.Store.LoadClass(r.Context(), key)
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
		return
	}
	size := 0
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, http.StatusBadRequest, errors.ErrCodeInvalidInput, "size must be a non-negative integer")
			return
		}
		size = n
	}
	classes, err := s.runner.Store.ListClasses(r.Context(), size)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	if classes == nil {
		classes = []store.Class{}
	}
	writeJSON(w, http.StatusOK, struct {
		Classes []store.Class `json:"classes"`
	}{classes})
}
