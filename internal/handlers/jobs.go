package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"scoresight/internal/data"
	"scoresight/internal/logger"
	"scoresight/internal/persistence"
)

// NewJobStatusHandler liefert Zustand, Fortschritt und Ergebnis eines Jobs.
// Die Job-Tabelle ist dabei die einzige Wahrheit; der Broker wird nicht
// befragt.
func NewJobStatusHandler(store *persistence.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := c.Param("job_id")

		job, err := store.GetJob(c.Request.Context(), jobID)
		if errors.Is(err, persistence.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		if err != nil {
			logger.Log.Error("Job konnte nicht geladen werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving job status: " + err.Error()})
			return
		}

		resp := gin.H{"job_id": job.ID, "status": job.State}
		switch job.State {
		case data.JobStateSuccess:
			if job.Result != "" {
				resp["result"] = json.RawMessage(job.Result)
			} else {
				resp["result"] = nil
			}
		case data.JobStateFailure:
			resp["error"] = job.Error
		default:
			resp["result"] = nil
		}
		if job.HasProgress() {
			resp["progress"] = job.Progress()
		}

		c.JSON(http.StatusOK, resp)
	}
}

// NewJobListHandler listet alle Jobs, die noch nicht abgeschlossen sind.
func NewJobListHandler(store *persistence.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobs, err := store.ListJobsInStates(c.Request.Context(), data.JobStatePending, data.JobStateProcessing)
		if err != nil {
			logger.Log.Error("Jobs konnten nicht geladen werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving jobs list: " + err.Error()})
			return
		}
		if jobs == nil {
			jobs = []data.Job{}
		}

		c.JSON(http.StatusOK, gin.H{"jobs": jobs, "total": len(jobs)})
	}
}

// NewJobCancelHandler bricht einen Job ab: wartende Tasks werden aus der
// Warteschlange entfernt, laufende erhalten ein Abbruchsignal. Die Job-Zeile
// wird als REVOKED markiert, sofern sie noch nicht abgeschlossen war.
func NewJobCancelHandler(store *persistence.Store, monitor Monitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := c.Param("job_id")

		if err := monitor.CancelTask(jobID); err != nil {
			logger.Log.Error("Task konnte nicht abgebrochen werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error cancelling job: " + err.Error()})
			return
		}
		if err := store.MarkJobRevoked(c.Request.Context(), jobID); err != nil {
			logger.Log.Error("Job konnte nicht als abgebrochen markiert werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error cancelling job: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"job_id":  jobID,
			"status":  "cancelled",
			"message": "Job " + jobID + " has been cancelled",
		})
	}
}
