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

// NewExamTypeCreateHandler legt eine neue Prüfungsart an.
func NewExamTypeCreateHandler(store *persistence.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req data.ExamTypeCreate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		examType := &data.ExamType{Name: req.Name, Description: req.Description}
		if err := store.CreateExamType(c.Request.Context(), examType); err != nil {
			logger.Log.Error("Prüfungsart konnte nicht angelegt werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.JSON(http.StatusOK, examType)
	}
}

// NewExamTypeListHandler listet alle Prüfungsarten.
func NewExamTypeListHandler(store *persistence.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		examTypes, err := store.ListExamTypes(c.Request.Context())
		if err != nil {
			logger.Log.Error("Prüfungsarten konnten nicht geladen werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if examTypes == nil {
			examTypes = []data.ExamType{}
		}
		c.JSON(http.StatusOK, examTypes)
	}
}

// NewExamTypeGetHandler liefert eine einzelne Prüfungsart.
func NewExamTypeGetHandler(store *persistence.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "exam_type_id")
		if !ok {
			return
		}

		examType, err := store.GetExamType(c.Request.Context(), id)
		if errors.Is(err, persistence.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exam type not found"})
			return
		}
		if err != nil {
			logger.Log.Error("Prüfungsart konnte nicht geladen werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.JSON(http.StatusOK, examType)
	}
}

// NewExamTypeUpdateHandler ändert nur die im Request gesetzten Felder.
func NewExamTypeUpdateHandler(store *persistence.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "exam_type_id")
		if !ok {
			return
		}

		var req data.ExamTypeUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		examType, err := store.GetExamType(c.Request.Context(), id)
		if errors.Is(err, persistence.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exam type not found"})
			return
		}
		if err != nil {
			logger.Log.Error("Prüfungsart konnte nicht geladen werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		if req.Name != nil {
			examType.Name = *req.Name
		}
		if req.Description != nil {
			examType.Description = req.Description
		}

		if err := store.SaveExamType(c.Request.Context(), examType); err != nil {
			logger.Log.Error("Prüfungsart konnte nicht gespeichert werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.JSON(http.StatusOK, examType)
	}
}

// NewExamTypeDeleteHandler löscht eine Prüfungsart, sofern keine Prüfung
// sie noch verwendet.
func NewExamTypeDeleteHandler(store *persistence.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "exam_type_id")
		if !ok {
			return
		}

		if _, err := store.GetExamType(c.Request.Context(), id); err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Exam type not found"})
				return
			}
			logger.Log.Error("Prüfungsart konnte nicht geladen werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		count, err := store.CountExamsByType(c.Request.Context(), id)
		if err != nil {
			logger.Log.Error("Prüfungen konnten nicht gezählt werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Cannot delete exam type. %d exam(s) are using this type.", count),
			})
			return
		}

		if err := store.DeleteExamType(c.Request.Context(), id); err != nil {
			logger.Log.Error("Prüfungsart konnte nicht gelöscht werden:", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Exam type deleted successfully"})
	}
}
