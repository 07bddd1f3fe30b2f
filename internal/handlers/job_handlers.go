package handlers

import (
	"fmt"
	"net/http"

	"coworkops/internal/common"
	"coworkops/internal/jobs/background"

	"github.com/labstack/echo/v4"
)

// JobRunner is the part of the scheduler exposed to operators.
type JobRunner interface {
	Jobs() []background.JobInfo
	RunNow(name string) error
}

type JobHandlers struct {
	runner JobRunner
}

func NewJobHandlers(runner JobRunner) *JobHandlers {
	return &JobHandlers{runner: runner}
}

func (h *JobHandlers) ListJobs(c echo.Context) error {
	return common.SendData(c, http.StatusOK, h.runner.Jobs())
}

// RunJob triggers /jobs/:name/run outside its schedule. The run is async.
func (h *JobHandlers) RunJob(c echo.Context) error {
	name := c.Param("name")
	known := false
	for _, job := range h.runner.Jobs() {
		if job.Name == name {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: job %q", common.ErrNotFound, name)
	}

	if err := h.runner.RunNow(name); err != nil {
		return err
	}
	return common.SendData(c, http.StatusAccepted, map[string]string{"job": name, "status": "triggered"})
}
