package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoresight/internal/data"
	"scoresight/internal/queue"
)

func createJob(t *testing.T, api *testAPI, state string) *data.Job {
	t.Helper()
	job := &data.Job{ID: uuid.NewString(), Type: queue.TypeProcessPDF, State: state}
	require.NoError(t, api.store.CreateJob(context.Background(), job))
	return job
}

func testServerInfo(host string, pid int) *asynq.ServerInfo {
	return &asynq.ServerInfo{
		Host:        host,
		PID:         pid,
		Concurrency: 4,
		Queues:      map[string]int{"default": 1},
		Status:      "active",
		Started:     time.Now(),
	}
}

func TestJobStatusPending(t *testing.T) {
	api := newTestAPI(t)
	job := createJob(t, api, data.JobStatePending)

	resp := api.do(t, "GET", "/api/v1/exams/jobs/"+job.ID, nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	assert.Equal(t, job.ID, body["job_id"])
	assert.Equal(t, data.JobStatePending, body["status"])
	assert.Contains(t, body, "result")
	assert.Nil(t, body["result"])
	assert.NotContains(t, body, "progress")
}

func TestJobStatusProcessingWithProgress(t *testing.T) {
	api := newTestAPI(t)
	job := createJob(t, api, data.JobStatePending)
	require.NoError(t, api.store.SetJobProgress(context.Background(), job.ID, 3, 10, "Processing page 3/10"))

	resp := api.do(t, "GET", "/api/v1/exams/jobs/"+job.ID, nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	assert.Equal(t, data.JobStateProcessing, body["status"])
	progress := body["progress"].(map[string]interface{})
	assert.Equal(t, float64(3), progress["current"])
	assert.Equal(t, float64(10), progress["total"])
	assert.Equal(t, "Processing page 3/10", progress["status"])
}

func TestJobStatusSuccessReturnsResult(t *testing.T) {
	api := newTestAPI(t)
	job := createJob(t, api, data.JobStatePending)
	require.NoError(t, api.store.SetJobResult(context.Background(), job.ID, `{"status":"completed","pages_processed":4}`))

	resp := api.do(t, "GET", "/api/v1/exams/jobs/"+job.ID, nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	assert.Equal(t, data.JobStateSuccess, body["status"])
	result := body["result"].(map[string]interface{})
	assert.Equal(t, "completed", result["status"])
	assert.Equal(t, float64(4), result["pages_processed"])
}

func TestJobStatusFailureReturnsError(t *testing.T) {
	api := newTestAPI(t)
	job := createJob(t, api, data.JobStatePending)
	require.NoError(t, api.store.SetJobError(context.Background(), job.ID, "render failed", "Processing failed"))

	resp := api.do(t, "GET", "/api/v1/exams/jobs/"+job.ID, nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	assert.Equal(t, data.JobStateFailure, body["status"])
	assert.Equal(t, "render failed", body["error"])
}

func TestJobStatusNotFound(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, "GET", "/api/v1/exams/jobs/"+uuid.NewString(), nil, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Job not found", decodeBody(t, resp)["error"])
}

func TestJobListOnlyActiveJobs(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, "GET", "/api/v1/exams/jobs/", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(0), body["total"])
	assert.Empty(t, body["jobs"])

	createJob(t, api, data.JobStatePending)
	createJob(t, api, data.JobStateProcessing)
	createJob(t, api, data.JobStateSuccess)

	resp = api.do(t, "GET", "/api/v1/exams/jobs/", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	body = decodeBody(t, resp)
	assert.Equal(t, float64(2), body["total"])
	assert.Len(t, body["jobs"].([]interface{}), 2)
}

func TestJobCancel(t *testing.T) {
	api := newTestAPI(t)
	job := createJob(t, api, data.JobStateProcessing)

	resp := api.do(t, "DELETE", "/api/v1/exams/jobs/"+job.ID, nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	assert.Equal(t, "cancelled", body["status"])
	assert.Equal(t, "Job "+job.ID+" has been cancelled", body["message"])
	assert.Equal(t, []string{job.ID}, api.monitor.cancelled)

	revoked, err := api.store.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, data.JobStateRevoked, revoked.State)
}

func TestJobCancelBrokerError(t *testing.T) {
	api := newTestAPI(t)
	api.monitor.cancelErr = errors.New("connection refused")
	job := createJob(t, api, data.JobStatePending)

	resp := api.do(t, "DELETE", "/api/v1/exams/jobs/"+job.ID, nil, "")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "Error cancelling job: connection refused", decodeBody(t, resp)["error"])
}

func TestQueueHealthAllUp(t *testing.T) {
	api := newTestAPI(t)
	api.monitor.servers = []*asynq.ServerInfo{testServerInfo("worker-1", 101)}

	resp := api.do(t, "GET", "/api/v1/exams/health", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	assert.Equal(t, "healthy", body["api"])
	assert.Greater(t, body["timestamp"].(float64), float64(0))

	queueBody := body["queue"].(map[string]interface{})
	assert.Equal(t, true, queueBody["broker_connected"])
	assert.Equal(t, true, queueBody["workers_available"])
	assert.Equal(t, float64(1), queueBody["worker_count"])
	assert.Len(t, queueBody["registered_tasks"].([]interface{}), 4)
	assert.Empty(t, queueBody["errors"])
	assert.Equal(t, api.cfg.BrokerURL, queueBody["broker_url"])
	assert.Equal(t, api.cfg.ResultBackend, queueBody["result_backend"])
}

func TestQueueHealthDegraded(t *testing.T) {
	api := newTestAPI(t)
	api.monitor.pingErr = errors.New("dial tcp: connection refused")

	resp := api.do(t, "GET", "/api/v1/exams/health", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)

	queueBody := body["queue"].(map[string]interface{})
	assert.Equal(t, false, queueBody["broker_connected"])
	assert.Equal(t, false, queueBody["workers_available"])
	assert.Empty(t, queueBody["registered_tasks"])
	errs := queueBody["errors"].([]interface{})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "Broker connectivity error")
	assert.Equal(t, "No workers found", errs[1])
}

func TestWorkerPing(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, "GET", "/api/v1/exams/queue/ping", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	assert.Equal(t, "no_workers", body["status"])
	assert.Equal(t, "No workers responded to ping", body["message"])

	api.monitor.servers = []*asynq.ServerInfo{testServerInfo("worker-1", 101)}
	resp = api.do(t, "GET", "/api/v1/exams/queue/ping", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	body = decodeBody(t, resp)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(1), body["workers_responding"])
	responses := body["responses"].(map[string]interface{})
	assert.Equal(t, "pong", responses["worker@worker-1:101"])
}

func TestWorkerPingInspectionError(t *testing.T) {
	api := newTestAPI(t)
	api.monitor.serversErr = errors.New("inspector down")

	resp := api.do(t, "GET", "/api/v1/exams/queue/ping", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "inspector down", body["error"])
	assert.Equal(t, float64(0), body["workers_responding"])
}

func TestTestTask(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, "POST", "/api/v1/exams/queue/test-task", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	assert.Equal(t, "task_sent", body["status"])
	assert.Equal(t, "Test task sent successfully", body["message"])

	taskID := body["task_id"].(string)
	job, err := api.store.GetJob(context.Background(), taskID)
	require.NoError(t, err)
	assert.Equal(t, queue.TypePing, job.Type)
	assert.Equal(t, data.JobStatePending, job.State)

	require.Len(t, api.enq.calls, 1)
	assert.Equal(t, queue.TypePing, api.enq.calls[0].taskType)
	assert.Equal(t, taskID, api.enq.calls[0].taskID)
}

func TestTestTaskEnqueueFailure(t *testing.T) {
	api := newTestAPI(t)
	api.enq.err = errors.New("broker down")

	resp := api.do(t, "POST", "/api/v1/exams/queue/test-task", nil, "")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "Failed to send test task: broker down", decodeBody(t, resp)["error"])

	jobs, err := api.store.ListJobsInStates(context.Background(), data.JobStateFailure)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "broker down", jobs[0].Error)
}

func TestWorkerList(t *testing.T) {
	api := newTestAPI(t)
	api.monitor.servers = []*asynq.ServerInfo{testServerInfo("worker-1", 101), testServerInfo("worker-2", 202)}

	resp := api.do(t, "GET", "/api/v1/exams/workers/", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(2), body["total_workers"])

	workers := body["workers"].([]interface{})
	require.Len(t, workers, 2)
	first := workers[0].(map[string]interface{})
	assert.Equal(t, "worker@worker-1:101", first["name"])
	assert.Equal(t, "active", first["status"])
	assert.Equal(t, float64(4), first["concurrency"])
	assert.Equal(t, float64(0), first["active_tasks"])
}

func TestWorkerListInspectionError(t *testing.T) {
	api := newTestAPI(t)
	api.monitor.serversErr = errors.New("inspector down")

	resp := api.do(t, "GET", "/api/v1/exams/workers/", nil, "")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "Error retrieving workers: inspector down", decodeBody(t, resp)["error"])
}
