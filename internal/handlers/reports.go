package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"scoresight/internal/analysis"
	"scoresight/internal/data"
	"scoresight/internal/logger"
	"scoresight/internal/persistence"
	"scoresight/internal/queue"
	"scoresight/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// NewReportStreamHandler streamt die Report-Zeilen einer Prüfung als NDJSON,
// ein JSON-Objekt pro Zeile.
func NewReportStreamHandler(store *persistence.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "exam_id")
		if !ok {
			return
		}

		if _, err := store.GetExam(c.Request.Context(), id); err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Exam not found"})
				return
			}
			logger.Log.Error("Prüfung konnte nicht geladen werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		reports, err := store.ListReportsByExam(c.Request.Context(), id)
		if err != nil {
			logger.Log.Error("Reports konnten nicht geladen werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Header("Content-Type", "application/x-ndjson")
		c.Status(http.StatusOK)
		enc := json.NewEncoder(c.Writer)
		for _, r := range reports {
			if err := enc.Encode(r); err != nil {
				logger.Log.Warn("Report-Stream abgebrochen:", zap.Error(err))
				return
			}
		}
	}
}

// NewExamAnalysisHandler fasst die vorhandenen Reports einer Prüfung zusammen.
func NewExamAnalysisHandler(store *persistence.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "exam_id")
		if !ok {
			return
		}

		exam, err := store.GetExam(c.Request.Context(), id)
		if errors.Is(err, persistence.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exam not found"})
			return
		}
		if err != nil {
			logger.Log.Error("Prüfung konnte nicht geladen werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		reports, err := store.ListReportsByExam(c.Request.Context(), id)
		if err != nil {
			logger.Log.Error("Reports konnten nicht geladen werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		transcriptionCount, analysisCount := 0, 0
		infos := make([]gin.H, 0, len(reports))
		for _, r := range reports {
			infos = append(infos, gin.H{
				"id":         r.ID,
				"type":       r.ReportType,
				"file_path":  r.FilePath,
				"created_at": r.CreatedAt,
			})
			switch {
			case strings.Contains(r.ReportType, "transcription"):
				transcriptionCount++
			case strings.Contains(r.ReportType, "analysis"):
				analysisCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"exam_id":      exam.ID,
			"exam_name":    exam.Name,
			"subject_name": exam.SubjectName,
			"class_name":   exam.ClassName,
			"reports":      infos,
			"summary": gin.H{
				"total_reports":         len(reports),
				"transcription_reports": transcriptionCount,
				"analysis_reports":      analysisCount,
			},
		})
	}
}

// NewGenerateAnalysisHandler reiht eine Auswertung über eine bereits
// vorhandene Transkriptionsdatei ein.
func NewGenerateAnalysisHandler(store *persistence.Store, enqueuer Enqueuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "exam_id")
		if !ok {
			return
		}

		if _, err := store.GetExam(c.Request.Context(), id); err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Exam not found"})
				return
			}
			logger.Log.Error("Prüfung konnte nicht geladen werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		transcriptionPath := c.Query("transcription_file_path")
		if transcriptionPath == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "transcription_file_path is required"})
			return
		}
		if _, err := os.Stat(transcriptionPath); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transcription file not found"})
			return
		}

		jobID := uuid.NewString()
		examID := id
		job := &data.Job{
			ID:     jobID,
			Type:   queue.TypeGenerateAnalysis,
			State:  data.JobStatePending,
			ExamID: &examID,
		}
		if err := store.CreateJob(c.Request.Context(), job); err != nil {
			logger.Log.Error("Job konnte nicht angelegt werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		payload := data.GenerateAnalysisPayload{
			JobID:             jobID,
			TranscriptionPath: transcriptionPath,
			OutputDir:         filepath.Dir(transcriptionPath),
			ExamID:            id,
		}
		if err := enqueuer.Enqueue(c.Request.Context(), queue.TypeGenerateAnalysis, payload, jobID); err != nil {
			logger.Log.Error("Task konnte nicht eingereiht werden:", zap.Error(err))
			if err := store.SetJobError(c.Request.Context(), jobID, err.Error(), "Processing failed"); err != nil {
				logger.Log.Warn("Job-Fehler konnte nicht gespeichert werden:", zap.Error(err))
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue analysis job: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"job_id":  jobID,
			"status":  "queued",
			"message": fmt.Sprintf("Analysis generation queued for exam %d", id),
		})
	}
}

// NewTopicAnalysisHandler nimmt eine Fragenliste als CSV oder XLSX entgegen
// und reiht die Themenklassifikation ein. Die Datei wird synchron geparst,
// damit Formatfehler sofort als 400 zurückkommen.
func NewTopicAnalysisHandler(store *persistence.Store, enqueuer Enqueuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req data.TopicUploadRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
			return
		}

		src, err := file.Open()
		if err != nil {
			logger.Log.Error("Upload konnte nicht geöffnet werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		defer src.Close()

		var headers []string
		var rows [][]string
		switch strings.ToLower(filepath.Ext(file.Filename)) {
		case ".csv":
			headers, rows, err = report.ReadRawCSV(src)
		case ".xlsx":
			headers, rows, err = report.ReadRawXLSX(src)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type. Please upload a CSV or Excel file."})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse question file: " + err.Error()})
			return
		}

		questions, err := analysis.CleanQuestionList(headers, rows)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		jobID := uuid.NewString()
		job := &data.Job{ID: jobID, Type: queue.TypeCategorizeTopics, State: data.JobStatePending}
		if err := store.CreateJob(c.Request.Context(), job); err != nil {
			logger.Log.Error("Job konnte nicht angelegt werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		payload := data.CategorizeTopicsPayload{
			JobID:       jobID,
			Questions:   questions,
			SubjectName: req.SubjectName,
		}
		if err := enqueuer.Enqueue(c.Request.Context(), queue.TypeCategorizeTopics, payload, jobID); err != nil {
			logger.Log.Error("Task konnte nicht eingereiht werden:", zap.Error(err))
			if err := store.SetJobError(c.Request.Context(), jobID, err.Error(), "Processing failed"); err != nil {
				logger.Log.Warn("Job-Fehler konnte nicht gespeichert werden:", zap.Error(err))
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start topic analysis job: " + err.Error()})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"job_id":  jobID,
			"status":  "queued",
			"message": "Topic analysis job started.",
		})
	}
}

// NewTranscriptionDownloadHandler liefert die Transkriptions-CSV eines
// abgeschlossenen Jobs als Datei-Download.
func NewTranscriptionDownloadHandler(store *persistence.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		job, ok := finishedJob(c, store)
		if !ok {
			return
		}

		var result struct {
			TranscriptionFile string `json:"transcription_file"`
		}
		if job.Result != "" {
			if err := json.Unmarshal([]byte(job.Result), &result); err != nil {
				logger.Log.Warn("Job-Ergebnis ist kein gültiges JSON:", zap.String("job_id", job.ID), zap.Error(err))
			}
		}
		serveFile(c, result.TranscriptionFile, "text/csv", "Transcription file not found")
	}
}

// NewAnalysisDownloadHandler liefert die Auswertungs-Arbeitsmappe eines
// abgeschlossenen Jobs als Datei-Download.
func NewAnalysisDownloadHandler(store *persistence.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		job, ok := finishedJob(c, store)
		if !ok {
			return
		}

		var result struct {
			AnalysisFile *string `json:"analysis_file"`
		}
		if job.Result != "" {
			if err := json.Unmarshal([]byte(job.Result), &result); err != nil {
				logger.Log.Warn("Job-Ergebnis ist kein gültiges JSON:", zap.String("job_id", job.ID), zap.Error(err))
			}
		}
		path := ""
		if result.AnalysisFile != nil {
			path = *result.AnalysisFile
		}
		serveFile(c, path, xlsxContentType, "Analysis file not found")
	}
}

// finishedJob lädt den Job aus dem Pfadparameter und beantwortet alle
// Zustände, in denen es noch nichts herunterzuladen gibt.
func finishedJob(c *gin.Context, store *persistence.Store) (*data.Job, bool) {
	jobID := c.Param("job_id")

	job, err := store.GetJob(c.Request.Context(), jobID)
	if errors.Is(err, persistence.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return nil, false
	}
	if err != nil {
		logger.Log.Error("Job konnte nicht geladen werden:", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error downloading file: " + err.Error()})
		return nil, false
	}

	switch job.State {
	case data.JobStatePending, data.JobStateProcessing:
		c.JSON(http.StatusAccepted, gin.H{"error": "Job still processing"})
		return nil, false
	case data.JobStateFailure:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Job failed: " + job.Error})
		return nil, false
	}
	return job, true
}

// serveFile streamt eine Ergebnisdatei als Attachment.
func serveFile(c *gin.Context, path, contentType, missingMsg string) {
	if path == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": missingMsg})
		return
	}
	f, err := os.Open(path)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": missingMsg})
		return
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		logger.Log.Error("Ergebnisdatei konnte nicht gelesen werden:", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error downloading file: " + err.Error()})
		return
	}

	c.DataFromReader(http.StatusOK, stat.Size(), contentType, f, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%s", filepath.Base(path)),
	})
}
