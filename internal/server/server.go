// Package server exposes the pipeline over a small JSON HTTP API.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lottery-predictor/internal/logger"
	"lottery-predictor/internal/lottery"
	"lottery-predictor/internal/metrics"
	"lottery-predictor/internal/pipeline"
	"lottery-predictor/internal/predict"
	"lottery-predictor/internal/scraper"
	"lottery-predictor/internal/store"
)

// Server serves the HTTP API.
type Server struct {
	svc     *pipeline.Service
	metrics *metrics.Metrics
	router  *gin.Engine
	httpSrv *http.Server
}

// New builds the router. m may be nil, in which case /metrics is not served.
func New(svc *pipeline.Service, m *metrics.Metrics) *Server {
	s := &Server{svc: svc, metrics: m}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/health", "/metrics"))

	// Add a simple health check route
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "Lottery API is running"})
	})
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	router.GET("/games", s.listGamesHandler)
	games := router.Group("/games/:game", s.gameMiddleware)
	games.GET("/draws", s.drawsHandler)
	games.GET("/frequency", s.frequencyHandler)
	games.GET("/chart.png", s.chartHandler)
	games.POST("/update", s.updateHandler)
	games.POST("/predictions", s.predictionsHandler)

	s.router = router
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until Shutdown is called.
func (s *Server) Run(addr string) error {
	s.httpSrv = &http.Server{Addr: addr, Handler: s.router}
	logger.Infof("API server listening on %s", addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops a running server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

const gameKey = "game"

// gameMiddleware resolves the :game path parameter, answering 404 for unknown games.
func (s *Server) gameMiddleware(c *gin.Context) {
	game, err := s.svc.Config().FindGame(c.Param("game"))
	if err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	c.Set(gameKey, game)
	c.Next()
}

func currentGame(c *gin.Context) lottery.Game {
	return c.MustGet(gameKey).(lottery.Game)
}

func fail(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Error: err.Error()})
}

// statusFor maps pipeline errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, predict.ErrNoCandidates), errors.Is(err, predict.ErrInsufficientCandidates):
		return http.StatusConflict
	case errors.Is(err, scraper.ErrEmptyResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// listGamesHandler returns every configured game
func (s *Server) listGamesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, GamesResponse{Success: true, Games: s.svc.Config().Games})
}

// drawsHandler returns persisted draws, newest first, optionally limited by ?limit=
func (s *Server) drawsHandler(c *gin.Context) {
	game := currentGame(c)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fail(c, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	draws, err := s.svc.Draws(game, limit)
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, DrawsResponse{Success: true, Game: game.Name, Count: len(draws), Draws: draws})
}

// frequencyHandler returns the frequency tables over the historical window
func (s *Server) frequencyHandler(c *gin.Context) {
	game := currentGame(c)

	analysis, err := s.svc.Analyze(game)
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, FrequencyResponse{Success: true, Game: game.Name, Analysis: *analysis})
}

// chartHandler renders the main ball frequency chart as PNG
func (s *Server) chartHandler(c *gin.Context) {
	game := currentGame(c)

	var buf bytes.Buffer
	if err := s.svc.Chart(game, &buf); err != nil {
		fail(c, statusFor(err), err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// updateHandler fetches and merges the latest draws. The body is optional.
func (s *Server) updateHandler(c *gin.Context) {
	game := currentGame(c)

	var req UpdateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, fmt.Errorf("invalid request format: %w", err))
			return
		}
	}

	res, err := s.svc.Update(c.Request.Context(), game, scraper.Options{Start: req.Start, End: req.End})
	if err != nil {
		logger.Errorf("failed to update lottery %s data: %v", game.Name, err)
		fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, UpdateResponse{
		Success: true,
		Game:    game.Name,
		Fetched: res.Fetched,
		Total:   res.Total,
		Added:   res.Added,
	})
}

// predictionsHandler generates predictions and appends them to the game's report
func (s *Server) predictionsHandler(c *gin.Context) {
	game := currentGame(c)

	res, err := s.svc.Predict(c.Request.Context(), game, pipeline.PredictOptions{})
	if err != nil {
		logger.Errorf("prediction failed for %s: %v", game.Name, err)
		fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, PredictionResponse{
		Success:     true,
		Game:        game.Name,
		Predictions: res.Predictions,
		Main:        res.Analysis.Main,
		Supplement:  res.Analysis.Supplement,
	})
}
