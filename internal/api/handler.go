package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-disaster-relief/internal/dispatch"
	"github.com/mr1hm/go-disaster-relief/internal/logging"
	"github.com/mr1hm/go-disaster-relief/internal/repository"
	"github.com/mr1hm/go-disaster-relief/internal/zipmap"
)

const (
	defaultSimSeverity = "Extreme"
	defaultSimEvent    = "Simulated Disaster"
	defaultListLimit   = 50
	maxListLimit       = 500
)

type Ingester interface {
	Ingest(ctx context.Context) (int, error)
}

type Simulator interface {
	Simulate(ctx context.Context, zip, severity, event string) (*dispatch.Result, bool, error)
}

type Handler struct {
	ingester  Ingester
	simulator Simulator
	users     repository.UserRepository
	processed repository.ProcessedAlertRepository
	zips      *zipmap.Mapper
	log       *slog.Logger
}

func NewHandler(ingester Ingester, simulator Simulator, users repository.UserRepository, processed repository.ProcessedAlertRepository, zips *zipmap.Mapper) *Handler {
	return &Handler{
		ingester:  ingester,
		simulator: simulator,
		users:     users,
		processed: processed,
		zips:      zips,
		log:       logging.Component("api"),
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	api := r.Group("/api")
	api.GET("/run-ingestion", h.runIngestion)
	api.POST("/run-ingestion", h.runIngestion)
	api.GET("/simulate", h.simulate)
	api.POST("/simulate", h.simulate)
	api.GET("/notifiable-users", h.notifiableUsers)

	api.GET("/users", h.listUsers)
	api.POST("/users", h.createUser)
	api.GET("/users/:id", h.getUser)
	api.PUT("/users/:id/balance", h.setBalance)
	api.POST("/users/:id/reset", h.resetUser)
	api.DELETE("/users/:id", h.deleteUser)

	api.GET("/processed-alerts", h.listProcessed)
	api.GET("/alerts/map", h.alertMap)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail answers with the service-wide failure body. Only client errors change the status.
func fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func (h *Handler) runIngestion(c *gin.Context) {
	n, err := h.ingester.Ingest(c.Request.Context())
	if err != nil {
		h.log.Error("manual ingestion failed", "error", err)
		fail(c, http.StatusOK, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"processedCount": n,
		"timestamp":      time.Now().UTC(),
	})
}

type simulateRequest struct {
	PostalCode string `json:"postalCode" form:"postalCode"`
	Zip        string `json:"zip" form:"zip"`
	Severity   string `json:"severity" form:"severity"`
	EventLabel string `json:"eventLabel" form:"eventLabel"`
}

func bindSimulate(c *gin.Context) (simulateRequest, error) {
	var req simulateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return req, err
	}
	if c.Request.Method == http.MethodPost && c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
			return req, err
		}
	}

	if req.PostalCode == "" {
		req.PostalCode = req.Zip
	}
	req.PostalCode = strings.TrimSpace(req.PostalCode)
	if req.Severity == "" {
		req.Severity = defaultSimSeverity
	}
	if req.EventLabel == "" {
		req.EventLabel = defaultSimEvent
	}
	return req, nil
}

func (h *Handler) simulate(c *gin.Context) {
	req, err := bindSimulate(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if req.PostalCode == "" {
		fail(c, http.StatusBadRequest, errors.New("postalCode is required"))
		return
	}

	res, paid, err := h.simulator.Simulate(c.Request.Context(), req.PostalCode, req.Severity, req.EventLabel)
	if err != nil {
		h.log.Error("simulation failed", "zip", req.PostalCode, "error", err)
		fail(c, http.StatusOK, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"postalCode":  req.PostalCode,
		"severity":    req.Severity,
		"eventLabel":  req.EventLabel,
		"payoutSent":  paid,
		"notified":    res.Notified,
		"rateLimited": res.RateLimited,
		"failed":      res.Failed,
		"paid":        res.Paid,
		"timestamp":   time.Now().UTC(),
	})
}

func (h *Handler) notifiableUsers(c *gin.Context) {
	zip := strings.TrimSpace(c.Query("postalCode"))
	if zip == "" {
		zip = strings.TrimSpace(c.Query("zip"))
	}
	if zip == "" {
		fail(c, http.StatusBadRequest, errors.New("postalCode is required"))
		return
	}

	users, err := h.users.ListNotifiable(c.Request.Context(), zip)
	if err != nil {
		h.log.Error("listing notifiable users failed", "zip", zip, "error", err)
		fail(c, http.StatusOK, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"postalCode": zip,
		"userCount":  len(users),
		"users":      toUserResponses(users),
	})
}

func (h *Handler) listProcessed(c *gin.Context) {
	alerts, err := h.processed.ListProcessed(c.Request.Context(), listFilter(c))
	if err != nil {
		fail(c, http.StatusOK, err)
		return
	}

	out := make([]processedAlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, processedAlertResponse{
			AlertID:     a.AlertID,
			Severity:    a.Severity,
			Event:       a.Event,
			AreaDesc:    a.AreaDesc,
			ProcessedAt: a.ProcessedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(out),
		"alerts":  out,
	})
}

func (h *Handler) alertMap(c *gin.Context) {
	alerts, err := h.processed.ListProcessed(c.Request.Context(), listFilter(c))
	if err != nil {
		fail(c, http.StatusOK, err)
		return
	}

	fc := toGeoJSON(alerts, h.zips)
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

func listFilter(c *gin.Context) repository.Filter {
	filter := repository.Filter{
		Limit: defaultListLimit,
	}
	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= maxListLimit {
			filter.Limit = lim
		}
	}
	if s := c.Query("since"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			filter.Since = &t
		}
	}
	return filter
}

type processedAlertResponse struct {
	AlertID     string    `json:"alertId"`
	Severity    string    `json:"severity"`
	Event       string    `json:"event"`
	AreaDesc    string    `json:"areaDesc"`
	ProcessedAt time.Time `json:"processedAt"`
}
