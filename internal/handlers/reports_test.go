package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"scoresight/internal/data"
	"scoresight/internal/queue"
)

func createReport(t *testing.T, api *testAPI, examID uint, reportType, filePath string) {
	t.Helper()
	require.NoError(t, api.store.CreateReport(context.Background(), &data.Report{
		ExamID:     examID,
		ReportType: reportType,
		FilePath:   filePath,
	}))
}

func TestReportStreamNDJSON(t *testing.T) {
	api := newTestAPI(t)
	exam := api.createExam(t, "Endterm")
	createReport(t, api, exam.ID, "transcription", "/reports/a.csv")
	createReport(t, api, exam.ID, "analysis", "/reports/a.xlsx")

	resp := api.do(t, "GET", fmt.Sprintf("/api/v1/exams/reports/%d", exam.ID), nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/x-ndjson", resp.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(resp.Body.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var row data.Report
		require.NoError(t, json.Unmarshal([]byte(line), &row))
		assert.Equal(t, exam.ID, row.ExamID)
	}
}

func TestReportStreamUnknownExam(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, "GET", "/api/v1/exams/reports/999", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Exam not found", decodeBody(t, resp)["error"])
}

func TestExamAnalysisSummary(t *testing.T) {
	api := newTestAPI(t)
	exam := api.createExam(t, "Endterm")
	createReport(t, api, exam.ID, "transcription", "/reports/a.csv")
	createReport(t, api, exam.ID, "analysis", "/reports/a.xlsx")
	createReport(t, api, exam.ID, "topics", "/reports/topics.csv")

	resp := api.do(t, "GET", fmt.Sprintf("/api/v1/exams/analysis/%d", exam.ID), nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(exam.ID), body["exam_id"])
	assert.Equal(t, "Endterm", body["exam_name"])
	assert.Equal(t, "SST", body["subject_name"])
	assert.Len(t, body["reports"].([]interface{}), 3)

	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, float64(3), summary["total_reports"])
	assert.Equal(t, float64(1), summary["transcription_reports"])
	assert.Equal(t, float64(1), summary["analysis_reports"])
}

func TestGenerateAnalysis(t *testing.T) {
	api := newTestAPI(t)
	exam := api.createExam(t, "Endterm")

	transcriptionPath := filepath.Join(t.TempDir(), "transcription.csv")
	require.NoError(t, os.WriteFile(transcriptionPath, []byte("Student Name\n"), 0644))

	path := fmt.Sprintf("/api/v1/exams/analysis/generate/%d?transcription_file_path=%s",
		exam.ID, url.QueryEscape(transcriptionPath))
	resp := api.do(t, "POST", path, nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	assert.Equal(t, "queued", body["status"])
	assert.Equal(t, fmt.Sprintf("Analysis generation queued for exam %d", exam.ID), body["message"])

	jobID := body["job_id"].(string)
	job, err := api.store.GetJob(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, queue.TypeGenerateAnalysis, job.Type)
	require.NotNil(t, job.ExamID)
	assert.Equal(t, exam.ID, *job.ExamID)

	require.Len(t, api.enq.calls, 1)
	payload := api.enq.calls[0].payload.(data.GenerateAnalysisPayload)
	assert.Equal(t, transcriptionPath, payload.TranscriptionPath)
	assert.Equal(t, filepath.Dir(transcriptionPath), payload.OutputDir)
}

func TestGenerateAnalysisValidation(t *testing.T) {
	api := newTestAPI(t)
	exam := api.createExam(t, "Endterm")

	resp := api.do(t, "POST", "/api/v1/exams/analysis/generate/999?transcription_file_path=/tmp/x.csv", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Exam not found", decodeBody(t, resp)["error"])

	resp = api.do(t, "POST", fmt.Sprintf("/api/v1/exams/analysis/generate/%d", exam.ID), nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "transcription_file_path is required", decodeBody(t, resp)["error"])

	missing := filepath.Join(t.TempDir(), "missing.csv")
	resp = api.do(t, "POST", fmt.Sprintf("/api/v1/exams/analysis/generate/%d?transcription_file_path=%s",
		exam.ID, url.QueryEscape(missing)), nil, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Transcription file not found", decodeBody(t, resp)["error"])
}

func TestTopicAnalysisCSV(t *testing.T) {
	api := newTestAPI(t)

	csvContent := "Question No,Question\n1,What is a map?\n2,Name two rivers in Kenya.\n"
	body, contentType := multipartBody(t, nil, "questions.csv", []byte(csvContent))

	resp := api.do(t, "POST", "/api/v1/exams/analysis/topic/", body, contentType)
	require.Equal(t, http.StatusAccepted, resp.Code)
	respBody := decodeBody(t, resp)
	assert.Equal(t, "queued", respBody["status"])
	assert.Equal(t, "Topic analysis job started.", respBody["message"])

	jobID := respBody["job_id"].(string)
	job, err := api.store.GetJob(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, queue.TypeCategorizeTopics, job.Type)

	require.Len(t, api.enq.calls, 1)
	payload := api.enq.calls[0].payload.(data.CategorizeTopicsPayload)
	// Ohne Formularfeld greift das Standardfach
	assert.Equal(t, "SST", payload.SubjectName)
	require.Len(t, payload.Questions, 2)
	assert.Equal(t, "What is a map?", payload.Questions[0].Question)
}

func TestTopicAnalysisXLSX(t *testing.T) {
	api := newTestAPI(t)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Question No", "Question"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"1", "Explain soil erosion."}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	body, contentType := multipartBody(t, map[string]string{"subject_name": "Science"}, "questions.xlsx", buf.Bytes())

	resp := api.do(t, "POST", "/api/v1/exams/analysis/topic/", body, contentType)
	require.Equal(t, http.StatusAccepted, resp.Code)

	payload := api.enq.calls[0].payload.(data.CategorizeTopicsPayload)
	assert.Equal(t, "Science", payload.SubjectName)
	require.Len(t, payload.Questions, 1)
	assert.Equal(t, "Explain soil erosion.", payload.Questions[0].Question)
}

func TestTopicAnalysisRejectsOtherTypes(t *testing.T) {
	api := newTestAPI(t)

	body, contentType := multipartBody(t, nil, "questions.xls", []byte("legacy"))
	resp := api.do(t, "POST", "/api/v1/exams/analysis/topic/", body, contentType)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Unsupported file type. Please upload a CSV or Excel file.", decodeBody(t, resp)["error"])
}

func TestTopicAnalysisMissingColumns(t *testing.T) {
	api := newTestAPI(t)

	body, contentType := multipartBody(t, nil, "questions.csv", []byte("Nr,Text\n1,foo\n"))
	resp := api.do(t, "POST", "/api/v1/exams/analysis/topic/", body, contentType)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, decodeBody(t, resp)["error"], "must contain columns")
}

func TestDownloadTranscription(t *testing.T) {
	api := newTestAPI(t)
	job := createJob(t, api, data.JobStatePending)

	csvPath := filepath.Join(t.TempDir(), "transcription.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Student Name,Question No\nAsha,1\n"), 0644))
	result, err := json.Marshal(gin.H{"status": "completed", "transcription_file": csvPath})
	require.NoError(t, err)
	require.NoError(t, api.store.SetJobResult(context.Background(), job.ID, string(result)))

	resp := api.do(t, "GET", "/api/v1/exams/download/transcription/"+job.ID, nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "text/csv", resp.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=transcription.csv", resp.Header().Get("Content-Disposition"))
	assert.Equal(t, "Student Name,Question No\nAsha,1\n", resp.Body.String())
}

func TestDownloadTranscriptionStates(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, "GET", "/api/v1/exams/download/transcription/unknown-job", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Job not found", decodeBody(t, resp)["error"])

	pending := createJob(t, api, data.JobStatePending)
	resp = api.do(t, "GET", "/api/v1/exams/download/transcription/"+pending.ID, nil, "")
	assert.Equal(t, http.StatusAccepted, resp.Code)
	assert.Equal(t, "Job still processing", decodeBody(t, resp)["error"])

	failed := createJob(t, api, data.JobStatePending)
	require.NoError(t, api.store.SetJobError(context.Background(), failed.ID, "render failed", "Processing failed"))
	resp = api.do(t, "GET", "/api/v1/exams/download/transcription/"+failed.ID, nil, "")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "Job failed: render failed", decodeBody(t, resp)["error"])

	vanished := createJob(t, api, data.JobStatePending)
	gone := filepath.Join(t.TempDir(), "gone.csv")
	result, err := json.Marshal(gin.H{"transcription_file": gone})
	require.NoError(t, err)
	require.NoError(t, api.store.SetJobResult(context.Background(), vanished.ID, string(result)))
	resp = api.do(t, "GET", "/api/v1/exams/download/transcription/"+vanished.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Transcription file not found", decodeBody(t, resp)["error"])
}

func TestDownloadAnalysis(t *testing.T) {
	api := newTestAPI(t)
	job := createJob(t, api, data.JobStatePending)

	xlsxPath := filepath.Join(t.TempDir(), "analysis.xlsx")
	require.NoError(t, os.WriteFile(xlsxPath, []byte("workbook-bytes"), 0644))
	result, err := json.Marshal(gin.H{"analysis_file": xlsxPath})
	require.NoError(t, err)
	require.NoError(t, api.store.SetJobResult(context.Background(), job.ID, string(result)))

	resp := api.do(t, "GET", "/api/v1/exams/download/analysis/"+job.ID, nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, xlsxContentType, resp.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=analysis.xlsx", resp.Header().Get("Content-Disposition"))
}

func TestDownloadAnalysisMissingResultFile(t *testing.T) {
	api := newTestAPI(t)
	job := createJob(t, api, data.JobStatePending)
	// Analyse schlug fehl, das Ergebnis trägt analysis_file: null
	result, err := json.Marshal(gin.H{"status": "completed", "analysis_file": nil})
	require.NoError(t, err)
	require.NoError(t, api.store.SetJobResult(context.Background(), job.ID, string(result)))

	resp := api.do(t, "GET", "/api/v1/exams/download/analysis/"+job.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Analysis file not found", decodeBody(t, resp)["error"])
}
