package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"scoresight/internal/data"
	"scoresight/internal/logger"
	"scoresight/internal/pdf"
	"scoresight/internal/persistence"
	"scoresight/internal/queue"
)

// NewPDFUploadHandler nimmt eine PDF-Datei oder ein ZIP-Archiv voller PDFs
// entgegen und reiht pro PDF einen Verarbeitungsjob ein. Upload- und
// Job-Zeile entstehen vor dem Einreihen, damit der Status auch bei einem
// verlorenen Task abfragbar bleibt.
func NewPDFUploadHandler(store *persistence.Store, enqueuer Enqueuer, cfg *data.ScoreSightConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req data.PDFUploadRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
			return
		}

		if _, err := store.GetExam(c.Request.Context(), req.ExamID); err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{
					"error": fmt.Sprintf("Exam with ID %d not found. Please provide a valid exam ID.", req.ExamID),
				})
				return
			}
			logger.Log.Error("Prüfung konnte nicht geladen werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
			logger.Log.Error("Upload-Verzeichnis konnte nicht angelegt werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		var pdfPaths []string
		switch strings.ToLower(filepath.Ext(file.Filename)) {
		case ".zip":
			zipPath := filepath.Join(cfg.UploadDir, uuid.NewString()+".zip")
			if err := c.SaveUploadedFile(file, zipPath); err != nil {
				logger.Log.Error("ZIP-Archiv konnte nicht gespeichert werden:", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			pdfPaths, err = pdf.ExtractZipPDFs(zipPath, cfg.UploadDir)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ZIP archive"})
				return
			}
		case ".pdf":
			pdfPath := filepath.Join(cfg.UploadDir, uuid.NewString()+".pdf")
			if err := c.SaveUploadedFile(file, pdfPath); err != nil {
				logger.Log.Error("PDF konnte nicht gespeichert werden:", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			pdfPaths = []string{pdfPath}
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF or ZIP of PDFs supported."})
			return
		}

		jobIDs := make([]string, 0, len(pdfPaths))
		uploadIDs := make([]uint, 0, len(pdfPaths))
		for _, pdfPath := range pdfPaths {
			upload := &data.Upload{
				ExamID:    req.ExamID,
				Filename:  filepath.Base(pdfPath),
				Status:    data.UploadStatusQueued,
				StartPage: req.StartPage,
				EndPage:   req.EndPage,
			}
			if err := store.CreateUpload(c.Request.Context(), upload); err != nil {
				logger.Log.Error("Upload konnte nicht angelegt werden:", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}

			jobID := uuid.NewString()
			examID := req.ExamID
			job := &data.Job{
				ID:       jobID,
				Type:     queue.TypeProcessPDF,
				State:    data.JobStatePending,
				ExamID:   &examID,
				UploadID: &upload.ID,
			}
			if err := store.CreateJob(c.Request.Context(), job); err != nil {
				logger.Log.Error("Job konnte nicht angelegt werden:", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}

			endPage := 0
			if req.EndPage != nil {
				endPage = *req.EndPage
			}
			payload := data.ProcessPDFPayload{
				JobID:       jobID,
				PDFPath:     pdfPath,
				OutputDir:   cfg.UploadDir,
				StartPage:   req.StartPage,
				EndPage:     endPage,
				ClassName:   req.ClassName,
				SubjectName: req.SubjectName,
				ExamID:      req.ExamID,
				UploadID:    upload.ID,
			}
			if err := enqueuer.Enqueue(c.Request.Context(), queue.TypeProcessPDF, payload, jobID); err != nil {
				logger.Log.Error("Task konnte nicht eingereiht werden:", zap.Error(err))
				if err := store.SetUploadStatus(c.Request.Context(), upload.ID, data.UploadStatusFailed); err != nil {
					logger.Log.Warn("Upload-Status konnte nicht aktualisiert werden:", zap.Error(err))
				}
				if err := store.SetJobError(c.Request.Context(), jobID, err.Error(), "Processing failed"); err != nil {
					logger.Log.Warn("Job-Fehler konnte nicht gespeichert werden:", zap.Error(err))
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue processing job: " + err.Error()})
				return
			}

			jobIDs = append(jobIDs, jobID)
			uploadIDs = append(uploadIDs, upload.ID)
		}

		endPage := "end"
		if req.EndPage != nil {
			endPage = strconv.Itoa(*req.EndPage)
		}
		c.JSON(http.StatusAccepted, gin.H{
			"job_ids":    jobIDs,
			"upload_ids": uploadIDs,
			"status":     "queued",
			"message":    fmt.Sprintf("Processing %d PDF(s) from page %d to %s", len(pdfPaths), req.StartPage, endPage),
		})
	}
}

// NewUploadStatusHandler liefert den Verarbeitungsstatus eines Uploads.
func NewUploadStatusHandler(store *persistence.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "upload_id")
		if !ok {
			return
		}

		upload, err := store.GetUpload(c.Request.Context(), id)
		if errors.Is(err, persistence.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Upload not found"})
			return
		}
		if err != nil {
			logger.Log.Error("Upload konnte nicht geladen werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"upload_id":  upload.ID,
			"exam_id":    upload.ExamID,
			"filename":   upload.Filename,
			"status":     upload.Status,
			"start_page": upload.StartPage,
			"end_page":   upload.EndPage,
			"created_at": upload.CreatedAt,
		})
	}
}
