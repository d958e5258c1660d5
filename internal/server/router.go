// Package server exposes the climb log over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wchung1209/climbing-log/internal/dates"
	"github.com/wchung1209/climbing-log/internal/grade"
	"github.com/wchung1209/climbing-log/internal/logging"
	"github.com/wchung1209/climbing-log/internal/model"
	"github.com/wchung1209/climbing-log/internal/stats"
	"github.com/wchung1209/climbing-log/internal/store"
)

// Store is the persistence the API reads and writes.
type Store interface {
	stats.ClimbLister
	GetClimb(ctx context.Context, id string) (model.Climb, error)
	InsertClimb(ctx context.Context, climb model.Climb) (model.Climb, error)
	DeleteClimb(ctx context.Context, id string) error
}

// Router wires HTTP handlers.
type Router struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(st Store, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{store: st, logger: logger, now: time.Now}

	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/climbs", r.listClimbs)
		api.POST("/climbs", r.createClimb)
		api.GET("/climbs/:id", r.getClimb)
		api.DELETE("/climbs/:id", r.deleteClimb)
		api.GET("/summary", r.getSummary)
		api.GET("/trend", r.getTrend)
	}

	return router
}

// requestLogger logs each request at a level chosen by its status.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", status),
			zap.Int("size", c.Writer.Size()),
			zap.Duration("duration", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case status >= 500:
			logger.Error("request completed", fields...)
		case status >= 400:
			logger.Warn("request completed", fields...)
		case c.Request.URL.Path == "/healthz":
			logger.Debug("request completed", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}

func (r *Router) listClimbs(c *gin.Context) {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pageSize, err := intQuery(c, "pageSize", stats.DefaultPageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, ok := r.loadReport(c, selectionFromQuery(c), page, pageSize)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":      report.Page.Items,
		"page":       report.Page.Page,
		"totalPages": report.Page.TotalPages,
		"total":      len(report.Filtered),
		"selection":  report.Selection,
	})
}

type climbRequest struct {
	Date        string   `json:"date"`
	Grade       string   `json:"grade"`
	GradeSystem string   `json:"gradeSystem"`
	Attempts    *int     `json:"attempts"`
	IsSent      bool     `json:"isSent"`
	Tags        []string `json:"tags"`
	Notes       string   `json:"notes"`
}

func (req climbRequest) toClimb(now time.Time) model.Climb {
	climb := model.Climb{
		Date:        strings.TrimSpace(req.Date),
		Grade:       strings.TrimSpace(req.Grade),
		GradeSystem: req.GradeSystem,
		Attempts:    1,
		IsSent:      req.IsSent,
		Tags:        req.Tags,
		Notes:       req.Notes,
	}
	if climb.Date == "" {
		climb.Date = dates.Today(now).Key()
	}
	if climb.GradeSystem == "" {
		climb.GradeSystem = grade.SystemCustom
		if grade.IsVScale(climb.Grade) {
			climb.GradeSystem = grade.SystemVScale
		}
	}
	if req.Attempts != nil {
		climb.Attempts = *req.Attempts
	}
	if climb.Tags == nil {
		climb.Tags = []string{}
	}
	return climb
}

func (r *Router) createClimb(c *gin.Context) {
	var req climbRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid body: %v", err)})
		return
	}
	stored, err := r.store.InsertClimb(c.Request.Context(), req.toClimb(r.now()))
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, stored)
}

func (r *Router) getClimb(c *gin.Context) {
	climb, err := r.store.GetClimb(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, climb)
}

func (r *Router) deleteClimb(c *gin.Context) {
	id := c.Param("id")
	if err := r.store.DeleteClimb(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *Router) getSummary(c *gin.Context) {
	report, ok := r.loadReport(c, model.FilterSelection{}, 1, stats.DefaultPageSize)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary":  report.Summary,
		"rejected": len(report.Rejected),
	})
}

func (r *Router) getTrend(c *gin.Context) {
	report, ok := r.loadReport(c, selectionFromQuery(c), 1, stats.DefaultPageSize)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"selection": report.Selection,
		"trend":     report.Trend,
		"noMatches": report.NoMatches(),
	})
}

func (r *Router) loadReport(c *gin.Context, sel model.FilterSelection, page, pageSize int) (stats.Report, bool) {
	report, err := stats.LoadReport(c.Request.Context(), r.store, sel, page, pageSize)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return stats.Report{}, false
	}
	logging.LogRejected(r.logger, report.Rejected)
	return report, true
}

// selectionFromQuery reads ?tag= and repeated or comma-separated ?grade=.
// A literal "+" in a grade must be sent percent-encoded.
func selectionFromQuery(c *gin.Context) model.FilterSelection {
	sel := model.FilterSelection{ActiveTag: strings.TrimSpace(c.Query("tag"))}
	for _, raw := range c.QueryArray("grade") {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" || sel.HasGrade(part) {
				continue
			}
			sel.SelectedGrades = append(sel.SelectedGrades, part)
		}
	}
	return sel
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}
