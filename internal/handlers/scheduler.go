package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JanVogt06/dfb-spesen-generator/internal/models"
	"github.com/JanVogt06/dfb-spesen-generator/internal/scheduler"
)

type SchedulerHandler struct {
	scheduler *scheduler.Scheduler
}

func NewSchedulerHandler(s *scheduler.Scheduler) *SchedulerHandler {
	return &SchedulerHandler{scheduler: s}
}

// Trigger starts a run over all users with stored credentials. The run is
// asynchronous; progress shows up in each user's sessions.
func (h *SchedulerHandler) Trigger(c *gin.Context) {
	h.scheduler.TriggerNow(c.Request.Context())

	c.JSON(http.StatusOK, models.TriggerResponse{
		Success: true,
		Message: "Scheduler wurde manuell ausgelöst",
		Note:    "Die Generierung läuft im Hintergrund",
	})
}

// Status reports whether the scheduler loop is running and when the next
// scheduled run is due.
func (h *SchedulerHandler) Status(c *gin.Context) {
	resp := models.SchedulerStatusResponse{
		Running: h.scheduler.Running(),
	}
	if next := h.scheduler.NextRun(); !next.IsZero() {
		resp.NextRun = next.UTC().Format(time.RFC3339)
		resp.JobID = scheduler.JobID
		resp.JobName = scheduler.JobName
	}

	c.JSON(http.StatusOK, resp)
}
