package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"scoresight/internal/data"
	"scoresight/internal/persistence"
)

// Routes verdrahtet alle Endpunkte der API auf dem Router. Die Pfade unter
// /api/v1/exams spiegeln die Ressourcen: Prüfungsarten, Prüfungen, Uploads,
// Jobs, Reports und die Warteschlangen-Diagnose.
func Routes(router *gin.Engine, store *persistence.Store, enqueuer Enqueuer, monitor Monitor, cfg *data.ScoreSightConfig) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8000", "http://127.0.0.1:8000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/", NewRootHandler())
	router.GET("/health", NewHealthHandler())

	exams := router.Group("/api/v1/exams")

	exams.GET("/health", NewQueueHealthHandler(store, monitor, cfg))
	exams.GET("/queue/ping", NewWorkerPingHandler(monitor))
	exams.POST("/queue/test-task", NewTestTaskHandler(store, enqueuer))

	exams.POST("/types/", NewExamTypeCreateHandler(store))
	exams.GET("/types/", NewExamTypeListHandler(store))
	exams.GET("/types/:exam_type_id", NewExamTypeGetHandler(store))
	exams.PUT("/types/:exam_type_id", NewExamTypeUpdateHandler(store))
	exams.DELETE("/types/:exam_type_id", NewExamTypeDeleteHandler(store))

	exams.POST("/", NewExamCreateHandler(store))
	exams.GET("/", NewExamListHandler(store))
	exams.GET("/:exam_id", NewExamGetHandler(store))
	exams.PUT("/:exam_id", NewExamUpdateHandler(store))
	exams.DELETE("/:exam_id", NewExamDeleteHandler(store))

	exams.POST("/uploads/pdf/", NewPDFUploadHandler(store, enqueuer, cfg))
	exams.GET("/uploads/:upload_id", NewUploadStatusHandler(store))

	exams.GET("/jobs/", NewJobListHandler(store))
	exams.GET("/jobs/:job_id", NewJobStatusHandler(store))
	exams.DELETE("/jobs/:job_id", NewJobCancelHandler(store, monitor))

	exams.GET("/workers/", NewWorkerListHandler(monitor))

	exams.GET("/reports/:exam_id", NewReportStreamHandler(store))
	exams.GET("/analysis/:exam_id", NewExamAnalysisHandler(store))
	exams.POST("/analysis/generate/:exam_id", NewGenerateAnalysisHandler(store, enqueuer))
	exams.POST("/analysis/topic/", NewTopicAnalysisHandler(store, enqueuer))

	exams.GET("/download/transcription/:job_id", NewTranscriptionDownloadHandler(store))
	exams.GET("/download/analysis/:job_id", NewAnalysisDownloadHandler(store))
}
