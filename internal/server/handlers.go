package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/flowplan/pkg/buildinfo"
	apperr "github.com/matzehuels/flowplan/pkg/errors"
	"github.com/matzehuels/flowplan/pkg/httputil"
	"github.com/matzehuels/flowplan/pkg/pipeline"
)

// RunIDHeader carries the pipeline run ID on every planning response.
const RunIDHeader = "X-Flowplan-Run"

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

// VersionInfo is the body of GET /version.
type VersionInfo = buildinfo.Info

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, buildinfo.Current())
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decodeOptions(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Formats = nil

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set(RunIDHeader, res.RunID)
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}

	opts, err := s.decodeOptions(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Formats = []string{format}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set(RunIDHeader, res.RunID)
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// decodeOptions reads pipeline options from the body and applies the
// server's limits.
func (s *Server) decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	var opts pipeline.Options
	if err := httputil.DecodeJSON(w, r, &opts, s.cfg.MaxBody); err != nil {
		return opts, err
	}
	if opts.Input != "" {
		return opts, apperr.New(apperr.ErrCodeInvalidInput, "input paths are not accepted, send text or graph")
	}
	if opts.Workers <= 0 || opts.Workers > s.cfg.MaxWorkers {
		opts.Workers = s.cfg.MaxWorkers
	}
	maxSecs := int(s.cfg.RequestTimeout / time.Second)
	if maxSecs < 1 {
		maxSecs = 1
	}
	if opts.Timeout <= 0 || opts.Timeout > maxSecs {
		opts.Timeout = maxSecs
	}
	opts.Logger = s.logger.With("request", middleware.GetReqID(r.Context()))
	return opts, nil
}

// fail writes err and logs it. Client cancellations are logged at debug.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := httputil.WriteError(w, err)
	logger := s.logger.With("request", middleware.GetReqID(r.Context()), "status", status)
	switch {
	case r.Context().Err() == context.Canceled:
		logger.Debug("request canceled")
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "error", err)
	default:
		logger.Warn("request rejected", "error", apperr.UserMessage(err))
	}
}
