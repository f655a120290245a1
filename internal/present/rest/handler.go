package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"
	"github.com/zeebo/xxh3"

	"github.com/nagarik-sahayak/sahayak"
	"github.com/nagarik-sahayak/sahayak/internal/domain"
	"github.com/nagarik-sahayak/sahayak/internal/events"
	"github.com/nagarik-sahayak/sahayak/internal/present/rest/presenter"
	"github.com/nagarik-sahayak/sahayak/internal/scheduler"
	"github.com/nagarik-sahayak/sahayak/internal/usecase"
)

// Subscriber streams issue events for the realtime endpoint.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan *events.Event, error)
}

type Options struct {
	Form          usecase.FormConfig
	SessionExpiry time.Duration
	// Capture is the recording device handed to form sessions. It may be nil.
	Capture usecase.AudioCapture
}

type Handler struct {
	issues   *usecase.IssueUsecase
	feedback *usecase.FeedbackUsecase
	timeline domain.Timeline
	signal   Subscriber
	sched    scheduler.Scheduler
	options  Options
	sessions *cache.Cache

	playbacks *cache.Cache
	trackers  *cache.Cache
}

const trackerExpiry = 5 * time.Minute

func NewHandler(
	issues *usecase.IssueUsecase,
	feedback *usecase.FeedbackUsecase,
	timeline domain.Timeline,
	signal Subscriber,
	sched scheduler.Scheduler,
	options Options,
) *Handler {
	if options.SessionExpiry <= 0 {
		options.SessionExpiry = 30 * time.Minute
	}

	sessions := cache.New(options.SessionExpiry, options.SessionExpiry/2)
	sessions.OnEvicted(func(id string, value any) {
		if session, ok := value.(*usecase.FormSession); ok {
			session.Close()
		}
	})

	playbacks := cache.New(options.SessionExpiry, options.SessionExpiry/2)
	playbacks.OnEvicted(func(id string, value any) {
		if playback, ok := value.(*usecase.Playback); ok {
			playback.Pause()
		}
	})

	return &Handler{
		issues:    issues,
		feedback:  feedback,
		timeline:  timeline,
		signal:    signal,
		sched:     sched,
		options:   options,
		sessions:  sessions,
		playbacks: playbacks,
		trackers:  cache.New(trackerExpiry, 2*trackerExpiry),
	}
}

// RegisterRoutes mounts the API on e and installs the request validator when e has none.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	if e.Validator == nil {
		e.Validator = NewValidator()
	}

	e.GET("/health", h.handleHealth)

	e.POST("/complaints", h.handleCreateComplaint)
	e.GET("/complaints", h.handleListComplaints)
	e.GET("/complaints/:id", h.handleGetComplaint)
	e.POST("/complaints/:id/updates", h.handleAppendUpdate)

	e.GET("/statistics", h.handleStatistics)
	e.GET("/feedback", h.handleFeedback)
	e.GET("/demo/timeline", h.handleTimeline)
	e.POST("/demo/playbacks", h.handleOpenPlayback)
	e.GET("/demo/playbacks/:id", h.handlePlayback)
	e.POST("/demo/playbacks/:id/:action", h.handlePlaybackAction)
	e.DELETE("/demo/playbacks/:id", h.handleClosePlayback)

	e.POST("/sessions", h.handleOpenSession)
	e.GET("/sessions/:id", h.handleSessionSnapshot)
	e.PATCH("/sessions/:id", h.handleEditSession)
	e.DELETE("/sessions/:id", h.handleCloseSession)
	e.POST("/sessions/:id/images", h.handleAddImage)
	e.DELETE("/sessions/:id/images/:index", h.handleRemoveImage)
	e.POST("/sessions/:id/recording", h.handleStartRecording)
	e.POST("/sessions/:id/recording/stop", h.handleStopRecording)
	e.DELETE("/sessions/:id/recording", h.handleDiscardRecording)
	e.POST("/sessions/:id/submit", h.handleSubmit)
	e.POST("/sessions/:id/reset", h.handleReset)

	e.GET("/realtime", h.handleRealtime)
}

// Close shuts every open form session and demo playback.
func (h *Handler) Close() {
	for id := range h.sessions.Items() {
		h.sessions.Delete(id)
	}
	for id := range h.playbacks.Items() {
		h.playbacks.Delete(id)
	}
}

func (h *Handler) handleHealth(c echo.Context) error {
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleCreateComplaint(c echo.Context) error {
	ctx := c.Request().Context()

	var payload sahayak.ComplaintPayload
	err := c.Bind(&payload)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	issue, err := h.issues.Create(ctx, toFormInput(payload))
	if err != nil {
		return respondError(c, err)
	}

	return presenter.Created(c, sahayak.CreateComplaintResponse{ID: issue.ID})
}

// handleListComplaints answers with an xxh3 ETag so that pollers can revalidate cheaply.
func (h *Handler) handleListComplaints(c echo.Context) error {
	ctx := c.Request().Context()

	var filter sahayak.ListFilter
	err := (&echo.DefaultBinder{}).BindQueryParams(c, &filter)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	criteria, err := domain.CriteriaFromFilter(filter)
	if err != nil {
		return respondError(c, err)
	}

	issues, err := h.tracker(criteria).Results(ctx)
	if err != nil {
		return respondError(c, err)
	}

	body, err := json.Marshal(toComplaints(issues))
	if err != nil {
		return presenter.InternalError(c, err)
	}

	etag := fmt.Sprintf(`"%016x"`, xxh3.Hash(body))
	c.Response().Header().Set("ETag", etag)
	if c.Request().Header.Get("If-None-Match") == etag {
		return c.NoContent(http.StatusNotModified)
	}
	return c.JSONBlob(http.StatusOK, body)
}

// tracker returns the shared view for criteria, so repeated polls of one filter
// reuse the computed result until the store changes.
func (h *Handler) tracker(criteria domain.Criteria) *usecase.Tracker {
	key := strings.Join([]string{
		criteria.Search,
		string(criteria.Status),
		string(criteria.Category),
		string(criteria.Priority),
	}, "\x00")
	if cached, ok := h.trackers.Get(key); ok {
		return cached.(*usecase.Tracker)
	}
	tracker := h.issues.Tracker(criteria)
	h.trackers.SetDefault(key, tracker)
	return tracker
}

func (h *Handler) handleGetComplaint(c echo.Context) error {
	ctx := c.Request().Context()

	issue, err := h.issues.Get(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, toComplaint(issue))
}

func (h *Handler) handleAppendUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	var req sahayak.StatusUpdateRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return respondError(c, err)
	}

	change := domain.StatusChange{
		Message: req.Message,
		Status:  status,
		Rating:  req.Rating,
	}
	if req.Date != nil {
		change.Date = *req.Date
	}

	issue, err := h.issues.AppendUpdate(ctx, c.Param("id"), change)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, toComplaint(issue))
}

func (h *Handler) handleStatistics(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.issues.Statistics(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, stats)
}

func (h *Handler) handleFeedback(c echo.Context) error {
	kind, err := domain.ParseFeedbackKind(c.QueryParam("kind"))
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, echo.Map{
		"kind":    kind.String(),
		"entries": h.feedback.List(kind),
	})
}

type timelineResponse struct {
	domain.Timeline
	Elapsed int `json:"elapsed"`
	Active  int `json:"active"`
}

func (h *Handler) handleTimeline(c echo.Context) error {
	elapsed := 0
	if raw := c.QueryParam("t"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid t parameter")
		}
		elapsed = h.timeline.Clamp(parsed)
	}

	return presenter.OK(c, timelineResponse{
		Timeline: h.timeline,
		Elapsed:  elapsed,
		Active:   h.timeline.ActiveFeature(elapsed),
	})
}

func respondError(c echo.Context, err error) error {
	var invalid domain.ValidationError
	switch {
	case errors.As(err, &invalid):
		return presenter.Invalid(c, invalid.Field, err)
	case errors.Is(err, domain.ErrNotFound):
		return presenter.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrDuplicateID),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, usecase.ErrSessionClosed):
		return presenter.Conflict(c, err)
	case errors.Is(err, domain.ErrResourceAccess):
		return presenter.Unavailable(c, err)
	default:
		return presenter.InternalError(c, err)
	}
}
