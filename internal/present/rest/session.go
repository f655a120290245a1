package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"

	"github.com/nagarik-sahayak/sahayak"
	"github.com/nagarik-sahayak/sahayak/internal/domain"
	"github.com/nagarik-sahayak/sahayak/internal/present/rest/presenter"
	"github.com/nagarik-sahayak/sahayak/internal/usecase"
)

type sessionResponse struct {
	ID string `json:"id"`
	usecase.FormSnapshot
}

// editRequest sets one form field, or attaches an uploaded voice note.
type editRequest struct {
	Field string            `json:"field" validate:"required_without=Audio"`
	Value string            `json:"value"`
	Audio *sahayak.AudioRef `json:"audio,omitempty"`
}

type imageRequest struct {
	Ref string `json:"ref" validate:"notblank"`
}

func (h *Handler) handleOpenSession(c echo.Context) error {
	id := uuid.NewString()

	cfg := h.options.Form
	cfg.OnAutoClose = func() {
		slog.Info(
			"form auto closed",
			slog.String("session", id),
			slog.String("module", "session"),
		)
	}

	session := usecase.NewFormSession(h.sched, h.issues, h.options.Capture, cfg)
	h.sessions.Set(id, session, cache.DefaultExpiration)

	return presenter.Created(c, sessionResponse{ID: id, FormSnapshot: session.Snapshot()})
}

func (h *Handler) lookupSession(c echo.Context) (string, *usecase.FormSession, bool) {
	id := c.Param("id")
	value, found := h.sessions.Get(id)
	if !found {
		return id, nil, false
	}
	// touch to extend the expiry
	h.sessions.Set(id, value, cache.DefaultExpiration)
	return id, value.(*usecase.FormSession), true
}

func (h *Handler) handleSessionSnapshot(c echo.Context) error {
	id, session, ok := h.lookupSession(c)
	if !ok {
		return presenter.NotFound(c, "session not found")
	}
	return presenter.OK(c, sessionResponse{ID: id, FormSnapshot: session.Snapshot()})
}

func (h *Handler) handleEditSession(c echo.Context) error {
	id, session, ok := h.lookupSession(c)
	if !ok {
		return presenter.NotFound(c, "session not found")
	}

	var req editRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	if req.Field != "" {
		if err := session.Edit(usecase.FormField(req.Field), req.Value); err != nil {
			return respondError(c, err)
		}
	}
	if req.Audio != nil {
		ref := domain.AudioRef{URI: req.Audio.URI, DurationSeconds: req.Audio.DurationSeconds}
		if err := session.AttachAudio(ref); err != nil {
			return respondError(c, err)
		}
	}

	return presenter.OK(c, sessionResponse{ID: id, FormSnapshot: session.Snapshot()})
}

func (h *Handler) handleAddImage(c echo.Context) error {
	id, session, ok := h.lookupSession(c)
	if !ok {
		return presenter.NotFound(c, "session not found")
	}

	var req imageRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}
	if err := session.AddImage(req.Ref); err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, sessionResponse{ID: id, FormSnapshot: session.Snapshot()})
}

func (h *Handler) handleRemoveImage(c echo.Context) error {
	id, session, ok := h.lookupSession(c)
	if !ok {
		return presenter.NotFound(c, "session not found")
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid image index")
	}
	if err := session.RemoveImage(index); err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, sessionResponse{ID: id, FormSnapshot: session.Snapshot()})
}

func (h *Handler) handleStartRecording(c echo.Context) error {
	id, session, ok := h.lookupSession(c)
	if !ok {
		return presenter.NotFound(c, "session not found")
	}

	// the recording outlives this request
	ctx := context.WithoutCancel(c.Request().Context())
	if err := session.StartRecording(ctx); err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, sessionResponse{ID: id, FormSnapshot: session.Snapshot()})
}

func (h *Handler) handleStopRecording(c echo.Context) error {
	id, session, ok := h.lookupSession(c)
	if !ok {
		return presenter.NotFound(c, "session not found")
	}
	if _, err := session.StopRecording(); err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, sessionResponse{ID: id, FormSnapshot: session.Snapshot()})
}

func (h *Handler) handleDiscardRecording(c echo.Context) error {
	id, session, ok := h.lookupSession(c)
	if !ok {
		return presenter.NotFound(c, "session not found")
	}
	if err := session.DiscardRecording(); err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, sessionResponse{ID: id, FormSnapshot: session.Snapshot()})
}

// handleSubmit accepts the form and returns immediately. The outcome shows up in
// the session snapshot once the submission delay has passed.
func (h *Handler) handleSubmit(c echo.Context) error {
	id, session, ok := h.lookupSession(c)
	if !ok {
		return presenter.NotFound(c, "session not found")
	}

	ctx := context.WithoutCancel(c.Request().Context())
	result, err := session.Submit(ctx)
	if err != nil {
		return respondError(c, err)
	}

	go func() {
		r := <-result
		if r.Err != nil {
			slog.WarnContext(
				ctx, "submission failed",
				slog.String("session", id),
				slog.String("error", r.Err.Error()),
				slog.String("module", "session"),
			)
			return
		}
		slog.InfoContext(
			ctx, "complaint submitted",
			slog.String("session", id),
			slog.String("complaint", r.Issue.ID),
			slog.String("module", "session"),
		)
	}()

	return presenter.Accepted(c, sessionResponse{ID: id, FormSnapshot: session.Snapshot()})
}

func (h *Handler) handleReset(c echo.Context) error {
	id, session, ok := h.lookupSession(c)
	if !ok {
		return presenter.NotFound(c, "session not found")
	}
	if err := session.Reset(); err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, sessionResponse{ID: id, FormSnapshot: session.Snapshot()})
}

// handleCloseSession removes the session; eviction closes it.
func (h *Handler) handleCloseSession(c echo.Context) error {
	id := c.Param("id")
	if _, found := h.sessions.Get(id); !found {
		return presenter.NotFound(c, "session not found")
	}
	h.sessions.Delete(id)
	return c.NoContent(http.StatusNoContent)
}
