package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/pathpilot/backend/internal/config"
	"github.com/pathpilot/backend/internal/corpus"
	"github.com/pathpilot/backend/internal/engine"
	"github.com/pathpilot/backend/internal/search"
)

type Server struct {
	Engine *engine.Engine
	Logger *logrus.Entry
	Router *http.ServeMux

	cfg     config.ServerConfig
	limiter *rate.Limiter
}

func NewServer(eng *engine.Engine, cfg config.ServerConfig, logger *logrus.Entry) *Server {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	if cfg.DefaultTopK <= 0 {
		cfg.DefaultTopK = 6
	}
	if cfg.MaxTopK < cfg.DefaultTopK {
		cfg.MaxTopK = cfg.DefaultTopK
	}

	s := &Server{
		Engine: eng,
		Logger: logger.WithField("component", "api"),
		Router: http.NewServeMux(),
		cfg:    cfg,
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.RateBurst, 1))
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.HandleFunc("/api/v1/recommend", s.handleRecommend)
	s.Router.HandleFunc("/api/v1/careers", s.handleCareers)
	s.Router.HandleFunc("/api/v1/categories", s.handleCategories)
	s.Router.HandleFunc("/api/v1/status", s.handleStatus)
}

// Handler returns the router wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.withLogging(s.withRateLimit(s.Router)))
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Infof("Starting API Server on %s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("Shutting down API Server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Responses
type ErrorResponse struct {
	Error string `json:"error"`
}

type RecommendResponse struct {
	Query   string               `json:"query"`
	Total   int                  `json:"total"`
	Offset  int                  `json:"offset"`
	Results []RecommendationView `json:"results"`
}

type RecommendationView struct {
	engine.Recommendation
	Match float64 `json:"match"`
}

type CareersResponse struct {
	Count   int             `json:"count"`
	Careers []corpus.Career `json:"careers"`
}

type CategoriesResponse struct {
	Categories []corpus.CategoryCount `json:"categories"`
}

type StatusResponse struct {
	CorpusSize    int    `json:"corpus_size"`
	Dimension     int    `json:"dimension"`
	Embedder      string `json:"embedder"`
	QueriesServed int64  `json:"queries_served"`
	LastError     string `json:"last_error,omitempty"`
	Uptime        string `json:"uptime"`
}

// Handlers

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	params := r.URL.Query()
	query := params.Get("q")
	if query == "" {
		query = engine.ComposeQuery(params.Get("interest"), params.Get("skills"), params.Get("job"))
	}
	if query == "" {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Query 'q' or one of 'interest', 'skills', 'job' is required"})
		return
	}

	topK, err := intParam(params.Get("top_k"), s.cfg.DefaultTopK)
	if err != nil || topK <= 0 {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "'top_k' must be a positive integer"})
		return
	}
	offset, err := intParam(params.Get("offset"), 0)
	if err != nil || offset < 0 {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "'offset' must be a non-negative integer"})
		return
	}
	limit, err := intParam(params.Get("limit"), s.cfg.DefaultTopK)
	if err != nil || limit <= 0 {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "'limit' must be a positive integer"})
		return
	}

	// offset/limit page through the full ranking, top_k asks for a prefix
	paged := params.Has("offset") || params.Has("limit")
	var recs []engine.Recommendation
	if paged {
		recs, err = s.Engine.RecommendAll(r.Context(), query)
	} else {
		recs, err = s.Engine.Recommend(r.Context(), query, min(topK, s.cfg.MaxTopK))
	}
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	response := RecommendResponse{
		Query: query,
		Total: s.Engine.Stats().CorpusSize,
	}
	if paged {
		start := min(offset, len(recs))
		end := min(start+min(limit, s.cfg.MaxTopK), len(recs))
		recs = recs[start:end]
		response.Offset = start
	}

	response.Results = make([]RecommendationView, len(recs))
	for i, rec := range recs {
		response.Results[i] = RecommendationView{Recommendation: rec, Match: rec.Match()}
	}

	jsonResponse(w, http.StatusOK, response)
}

func (s *Server) handleCareers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	careers := s.Engine.Careers(r.URL.Query().Get("category"))
	if careers == nil {
		careers = corpus.Corpus{}
	}
	jsonResponse(w, http.StatusOK, CareersResponse{
		Count:   len(careers),
		Careers: careers,
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	categories := s.Engine.Categories()
	if categories == nil {
		categories = []corpus.CategoryCount{}
	}
	jsonResponse(w, http.StatusOK, CategoriesResponse{Categories: categories})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats := s.Engine.Stats()

	jsonResponse(w, http.StatusOK, StatusResponse{
		CorpusSize:    stats.CorpusSize,
		Dimension:     stats.Dimension,
		Embedder:      stats.Embedder,
		QueriesServed: stats.QueriesServed,
		LastError:     stats.LastError,
		Uptime:        time.Since(stats.StartTime).Round(time.Second).String(),
	})
}

func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, search.ErrInvalidQuery), errors.Is(err, search.ErrInvalidArgument):
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, search.ErrEmbedding):
		jsonResponse(w, http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	default:
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func intParam(raw string, defaultValue int) (int, error) {
	if raw == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(raw)
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
