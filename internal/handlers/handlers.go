// Package handlers stellt die HTTP-Endpunkte der API bereit. Jeder Handler
// wird als Closure über seinen Abhängigkeiten gebaut; Fehlerkörper sind
// durchgängig {"error": ...}, Erfolgsmeldungen {"message": ...}.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

// Enqueuer reiht Tasks beim Broker ein.
type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload interface{}, taskID string) error
}

// Monitor fragt den Broker und seine Worker-Prozesse ab und bricht Tasks ab.
type Monitor interface {
	Ping(ctx context.Context) error
	Servers() ([]*asynq.ServerInfo, error)
	CancelTask(jobID string) error
}

// pathID liest einen numerischen Pfadparameter. Bei ungültigen Werten ist
// die 400-Antwort bereits geschrieben.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// workerName bildet den Anzeigenamen eines Worker-Prozesses, analog zu den
// Knotennamen klassischer Task-Queues.
func workerName(srv *asynq.ServerInfo) string {
	return "worker@" + srv.Host + ":" + strconv.Itoa(srv.PID)
}
