package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/dusk-indust/agentflow/internal/archive"
	"github.com/dusk-indust/agentflow/internal/export"
	"github.com/dusk-indust/agentflow/internal/orchestrator"
	"github.com/dusk-indust/agentflow/internal/workflow"
)

const recentRuns = 10

type indexView struct {
	Topic    string
	Error    string
	Examples []string
	Runs     []archive.Run
}

type resultView struct {
	Topic           string
	Questions       []string
	Findings        string
	Insights        []string
	Trends          []string
	Recommendations []string
	Report          string
	WordCount       int
	RunID           string
	Filename        string
}

// progressPayload is the data of a "progress" stream event.
type progressPayload struct {
	Pipeline string `json:"pipeline"`
	Stage    string `json:"stage"`
	Index    int    `json:"index"`
	Total    int    `json:"total"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	Line     string `json:"line"`
}

// resultPayload is the data of the final "result" stream event.
type resultPayload struct {
	RunID  string                 `json:"runId,omitempty"`
	Export *export.ResearchExport `json:"export"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(r.Context(), w, http.StatusOK, indexView{})
}

func (s *Server) renderIndex(ctx context.Context, w http.ResponseWriter, status int, v indexView) {
	v.Examples = workflow.ExampleTopics
	runs, err := s.store.ListRuns(ctx, recentRuns)
	if err != nil {
		s.log.Warn("list runs failed", "error", err)
	}
	v.Runs = runs
	s.render(w, status, "index", v)
}

func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	topic := r.FormValue("topic")
	state, err := s.research.Run(r.Context(), topic)
	if errors.Is(err, workflow.ErrEmptyTopic) {
		s.renderIndex(r.Context(), w, http.StatusBadRequest, indexView{Error: "Please enter a research topic."})
		return
	}
	if err != nil {
		s.log.Error("research failed", "topic", topic, "error", err)
		s.renderIndex(r.Context(), w, http.StatusBadGateway, indexView{Topic: topic, Error: "Research failed: " + err.Error()})
		return
	}

	v := stateView(state)
	if id, ok := s.save(r.Context(), state); ok {
		v.RunID = id
	}
	s.render(w, http.StatusOK, "result", v)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	topic := strings.TrimSpace(r.URL.Query().Get("topic"))
	if topic == "" {
		http.Error(w, "topic is required", http.StatusBadRequest)
		return
	}

	sse := NewSSEWriter(w)
	sse.Init()

	// The pipeline calls observers on this goroutine, so writing here is safe.
	observer := func(ev orchestrator.ProgressEvent) {
		payload := progressPayload{
			Pipeline: ev.Pipeline,
			Stage:    ev.Stage,
			Index:    ev.Index,
			Total:    ev.Total,
			Status:   string(ev.Status),
			Message:  ev.Message,
			Line:     orchestrator.FormatProgress(ev),
		}
		if err := sse.WriteEvent("progress", payload); err != nil {
			s.log.Debug("stream write failed", "error", err)
		}
	}

	state, err := s.research.Run(r.Context(), topic, orchestrator.WithObserver(observer))
	if err != nil {
		s.log.Error("research failed", "topic", topic, "error", err)
		_ = sse.WriteEvent("error", errorPayload{Error: err.Error()})
		return
	}

	payload := resultPayload{Export: export.NewResearchExport(state, s.now())}
	if id, ok := s.save(r.Context(), state); ok {
		payload.RunID = id
	}
	_ = sse.WriteEvent("result", payload)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	var (
		runs []archive.Run
		err  error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		runs, err = s.store.FindByTopic(r.Context(), q)
	} else {
		runs, err = s.store.ListRuns(r.Context(), limit)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []archive.Run{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(runs); err != nil {
		s.log.Debug("encode runs failed", "error", err)
	}
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.render(w, http.StatusOK, "result", resultView{
		Topic:           run.Topic,
		Insights:        run.Insights,
		Trends:          run.Trends,
		Recommendations: run.Recommendations,
		Report:          run.Report,
		WordCount:       run.WordCount,
		RunID:           run.ID,
		Filename:        export.ReportFilename(run.Topic),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": export.ReportFilename(run.Topic),
	}))
	_, _ = w.Write([]byte(run.Report))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*archive.Run, bool) {
	run, err := s.store.GetRun(r.Context(), r.PathValue("id"))
	if errors.Is(err, archive.ErrNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return run, true
}

// save archives a completed run. Failures are logged, not surfaced: the
// result is still shown, just without a download link.
func (s *Server) save(ctx context.Context, state workflow.ResearchState) (string, bool) {
	run, err := archive.NewRun(state, s.now())
	if err != nil {
		s.log.Warn("run not archived", "topic", state.Topic, "error", err)
		return "", false
	}
	if err := s.store.SaveRun(ctx, run); err != nil {
		s.log.Warn("run not archived", "topic", state.Topic, "error", err)
		return "", false
	}
	return run.ID, true
}

func (s *Server) render(w http.ResponseWriter, status int, page string, data any) {
	var buf bytes.Buffer
	if err := s.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		s.log.Error("render failed", "page", page, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func stateView(state workflow.ResearchState) resultView {
	return resultView{
		Topic:           state.Topic,
		Questions:       state.ResearchData.Questions,
		Findings:        state.ResearchData.Findings,
		Insights:        state.AnalysisData.KeyInsights,
		Trends:          state.AnalysisData.Trends,
		Recommendations: state.AnalysisData.Recommendations,
		Report:          state.ReportData.FullReport,
		WordCount:       state.ReportData.WordCount,
		Filename:        export.ReportFilename(state.Topic),
	}
}
