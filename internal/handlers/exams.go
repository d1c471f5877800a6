package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"scoresight/internal/data"
	"scoresight/internal/logger"
	"scoresight/internal/persistence"
)

// NewExamCreateHandler legt eine Prüfung an. Die referenzierte Prüfungsart
// muss existieren; die Antwort bettet sie direkt ein.
func NewExamCreateHandler(store *persistence.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req data.ExamCreate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		examType, err := store.GetExamType(c.Request.Context(), req.ExamTypeID)
		if errors.Is(err, persistence.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exam type not found"})
			return
		}
		if err != nil {
			logger.Log.Error("Prüfungsart konnte nicht geladen werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		exam := &data.Exam{
			Name:          req.Name,
			SubjectName:   req.SubjectName,
			ClassName:     req.ClassName,
			Description:   req.Description,
			ExamTypeID:    req.ExamTypeID,
			ScheduledDate: req.ScheduledDate,
		}
		if err := store.CreateExam(c.Request.Context(), exam); err != nil {
			logger.Log.Error("Prüfung konnte nicht angelegt werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		exam.ExamType = examType
		c.JSON(http.StatusOK, exam)
	}
}

// NewExamListHandler listet alle Prüfungen samt eingebetteter Prüfungsart.
func NewExamListHandler(store *persistence.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		exams, err := store.ListExams(c.Request.Context())
		if err != nil {
			logger.Log.Error("Prüfungen konnten nicht geladen werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if exams == nil {
			exams = []data.Exam{}
		}
		c.JSON(http.StatusOK, exams)
	}
}

// NewExamGetHandler liefert eine einzelne Prüfung.
func NewExamGetHandler(store *persistence.Store) gin.HandlerFunc {
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

		c.JSON(http.StatusOK, exam)
	}
}

// NewExamUpdateHandler ändert nur die im Request gesetzten Felder. Ein
// Wechsel der Prüfungsart wird vorher validiert.
func NewExamUpdateHandler(store *persistence.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "exam_id")
		if !ok {
			return
		}

		var req data.ExamUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
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

		if req.ExamTypeID != nil {
			if _, err := store.GetExamType(c.Request.Context(), *req.ExamTypeID); err != nil {
				if errors.Is(err, persistence.ErrNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"error": "Exam type not found"})
					return
				}
				logger.Log.Error("Prüfungsart konnte nicht geladen werden:", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			exam.ExamTypeID = *req.ExamTypeID
		}
		if req.Name != nil {
			exam.Name = *req.Name
		}
		if req.SubjectName != nil {
			exam.SubjectName = req.SubjectName
		}
		if req.ClassName != nil {
			exam.ClassName = req.ClassName
		}
		if req.Description != nil {
			exam.Description = req.Description
		}
		if req.ScheduledDate != nil {
			exam.ScheduledDate = req.ScheduledDate
		}

		// Die vorgeladene Assoziation darf nicht mitgespeichert werden.
		exam.ExamType = nil
		if err := store.SaveExam(c.Request.Context(), exam); err != nil {
			logger.Log.Error("Prüfung konnte nicht gespeichert werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		updated, err := store.GetExam(c.Request.Context(), id)
		if err != nil {
			logger.Log.Error("Prüfung konnte nicht geladen werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// NewExamDeleteHandler löscht eine Prüfung, sofern keine Uploads mehr an
// ihr hängen.
func NewExamDeleteHandler(store *persistence.Store) gin.HandlerFunc {
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

		count, err := store.CountUploadsByExam(c.Request.Context(), id)
		if err != nil {
			logger.Log.Error("Uploads konnten nicht gezählt werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Cannot delete exam. %d upload(s) are associated with this exam.", count),
			})
			return
		}

		if err := store.DeleteExam(c.Request.Context(), id); err != nil {
			logger.Log.Error("Prüfung konnte nicht gelöscht werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Exam deleted successfully"})
	}
}
