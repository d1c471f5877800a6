package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"scoresight/internal/data"
	"scoresight/internal/logger"
	"scoresight/internal/persistence"
	"scoresight/internal/queue"
)

// queueHealth ist der Warteschlangen-Teil der Health-Antwort.
type queueHealth struct {
	BrokerConnected  bool     `json:"broker_connected"`
	WorkersAvailable bool     `json:"workers_available"`
	WorkerCount      int      `json:"worker_count"`
	RegisteredTasks  []string `json:"registered_tasks"`
	BrokerURL        string   `json:"broker_url"`
	ResultBackend    string   `json:"result_backend"`
	Errors           []string `json:"errors"`
}

// NewQueueHealthHandler prüft Datenbank, Broker und Worker. Die Antwort ist
// immer 200; Teilsysteme melden ihre Fehler im Körper.
func NewQueueHealthHandler(store *persistence.Store, monitor Monitor, cfg *data.ScoreSightConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiStatus := "healthy"
		if err := store.Ping(); err != nil {
			logger.Log.Warn("Datenbank nicht erreichbar:", zap.Error(err))
			apiStatus = "unhealthy"
		}

		health := queueHealth{
			RegisteredTasks: []string{},
			BrokerURL:       cfg.BrokerURL,
			ResultBackend:   cfg.ResultBackend,
			Errors:          []string{},
		}

		if err := monitor.Ping(c.Request.Context()); err != nil {
			health.Errors = append(health.Errors, "Broker connectivity error: "+err.Error())
		} else {
			health.BrokerConnected = true
		}

		servers, err := monitor.Servers()
		switch {
		case err != nil:
			health.Errors = append(health.Errors, "Worker inspection error: "+err.Error())
		case len(servers) == 0:
			health.Errors = append(health.Errors, "No workers found")
		default:
			health.WorkersAvailable = true
			health.WorkerCount = len(servers)
			health.RegisteredTasks = queue.TaskTypes()
		}

		c.JSON(http.StatusOK, gin.H{
			"api":       apiStatus,
			"queue":     health,
			"timestamp": float64(time.Now().UnixMilli()) / 1000,
		})
	}
}

// NewWorkerPingHandler fragt, welche Worker-Prozesse derzeit erreichbar sind.
func NewWorkerPingHandler(monitor Monitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		servers, err := monitor.Servers()
		if err != nil {
			c.JSON(http.StatusOK, gin.H{
				"status":             "error",
				"error":              err.Error(),
				"workers_responding": 0,
			})
			return
		}
		if len(servers) == 0 {
			c.JSON(http.StatusOK, gin.H{
				"status":             "no_workers",
				"message":            "No workers responded to ping",
				"workers_responding": 0,
				"responses":          gin.H{},
			})
			return
		}

		responses := make(map[string]string, len(servers))
		for _, srv := range servers {
			responses[workerName(srv)] = "pong"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":             "success",
			"workers_responding": len(servers),
			"responses":          responses,
		})
	}
}

// NewTestTaskHandler schickt einen Ping-Task durch die Warteschlange, um den
// kompletten Pfad API → Broker → Worker → Datenbank zu prüfen.
func NewTestTaskHandler(store *persistence.Store, enqueuer Enqueuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := uuid.NewString()
		job := &data.Job{ID: jobID, Type: queue.TypePing, State: data.JobStatePending}
		if err := store.CreateJob(c.Request.Context(), job); err != nil {
			logger.Log.Error("Job konnte nicht angelegt werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send test task: " + err.Error()})
			return
		}

		if err := enqueuer.Enqueue(c.Request.Context(), queue.TypePing, data.PingPayload{JobID: jobID}, jobID); err != nil {
			logger.Log.Error("Task konnte nicht eingereiht werden:", zap.Error(err))
			if err := store.SetJobError(c.Request.Context(), jobID, err.Error(), "Processing failed"); err != nil {
				logger.Log.Warn("Job-Fehler konnte nicht gespeichert werden:", zap.Error(err))
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send test task: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "task_sent",
			"task_id": jobID,
			"message": "Test task sent successfully",
		})
	}
}

// NewWorkerListHandler listet die verbundenen Worker-Prozesse mit ihren
// Eckdaten.
func NewWorkerListHandler(monitor Monitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		servers, err := monitor.Servers()
		if err != nil {
			logger.Log.Error("Worker konnten nicht abgefragt werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving workers: " + err.Error()})
			return
		}

		workers := make([]gin.H, 0, len(servers))
		for _, srv := range servers {
			workers = append(workers, gin.H{
				"name":         workerName(srv),
				"status":       srv.Status,
				"concurrency":  srv.Concurrency,
				"queues":       srv.Queues,
				"active_tasks": len(srv.ActiveWorkers),
				"started_at":   srv.Started,
			})
		}

		c.JSON(http.StatusOK, gin.H{"workers": workers, "total_workers": len(workers)})
	}
}
