package rest

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"

	"github.com/nagarik-sahayak/sahayak/internal/present/rest/presenter"
	"github.com/nagarik-sahayak/sahayak/internal/usecase"
)

type playbackResponse struct {
	ID       string `json:"id"`
	Elapsed  int    `json:"elapsed"`
	Duration int    `json:"duration"`
	Playing  bool   `json:"playing"`
	Active   int    `json:"active"`
}

func newPlaybackResponse(id string, playback *usecase.Playback) playbackResponse {
	return playbackResponse{
		ID:       id,
		Elapsed:  playback.Elapsed(),
		Duration: playback.Timeline().Duration,
		Playing:  playback.Playing(),
		Active:   playback.ActiveFeature(),
	}
}

func (h *Handler) handleOpenPlayback(c echo.Context) error {
	id := uuid.NewString()
	playback := usecase.NewPlayback(h.sched, h.timeline, h.options.Form.Tick)
	h.playbacks.Set(id, playback, cache.DefaultExpiration)
	return presenter.Created(c, newPlaybackResponse(id, playback))
}

func (h *Handler) lookupPlayback(c echo.Context) (string, *usecase.Playback, bool) {
	id := c.Param("id")
	value, found := h.playbacks.Get(id)
	if !found {
		return id, nil, false
	}
	h.playbacks.Set(id, value, cache.DefaultExpiration)
	return id, value.(*usecase.Playback), true
}

func (h *Handler) handlePlayback(c echo.Context) error {
	id, playback, ok := h.lookupPlayback(c)
	if !ok {
		return presenter.NotFound(c, "playback not found")
	}
	return presenter.OK(c, newPlaybackResponse(id, playback))
}

// handlePlaybackAction drives the player: play, pause, toggle, restart,
// seek?t=<seconds> and jump?feature=<index>.
func (h *Handler) handlePlaybackAction(c echo.Context) error {
	id, playback, ok := h.lookupPlayback(c)
	if !ok {
		return presenter.NotFound(c, "playback not found")
	}

	switch action := c.Param("action"); action {
	case "play":
		playback.Play()
	case "pause":
		playback.Pause()
	case "toggle":
		playback.Toggle()
	case "restart":
		playback.Restart()
	case "seek":
		t, err := strconv.Atoi(c.QueryParam("t"))
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid t parameter")
		}
		playback.Seek(t)
	case "jump":
		index, err := strconv.Atoi(c.QueryParam("feature"))
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid feature parameter")
		}
		if err := playback.JumpTo(index); err != nil {
			return respondError(c, err)
		}
	default:
		return presenter.NotFound(c, "unknown playback action "+action)
	}

	return presenter.OK(c, newPlaybackResponse(id, playback))
}

func (h *Handler) handleClosePlayback(c echo.Context) error {
	id := c.Param("id")
	if _, found := h.playbacks.Get(id); !found {
		return presenter.NotFound(c, "playback not found")
	}
	h.playbacks.Delete(id)
	return c.NoContent(http.StatusNoContent)
}
