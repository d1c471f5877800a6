// Package processor enthält die Worker-Logik der Hintergrundjobs. Jeder
// Handler schreibt Fortschritt und Ergebnis in die Jobs-Tabelle, die als
// verbindliche Ergebnisablage dient.
package processor

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"scoresight/internal/data"
	"scoresight/internal/logger"
	"scoresight/internal/pdf"
	"scoresight/internal/persistence"
	"scoresight/internal/queue"
)

// Transcriber bündelt die Modellaufrufe, die der Worker benötigt.
type Transcriber interface {
	TranscribePage(ctx context.Context, base64Image, lastKnownStudentName string) (*data.PageTranscription, error)
	CommonMisconceptions(ctx context.Context, question string, wrongAnswers, correctSample []string) (string, int, error)
	QuestionTopics(ctx context.Context, questions []data.QuestionItem, subjectName string, topics []string) ([]data.TopicClassification, error)
}

// Enqueuer reiht Folgejobs beim Broker ein.
type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload interface{}, taskID string) error
}

// Processor verarbeitet die eingereihten Tasks.
type Processor struct {
	store    *persistence.Store
	llm      Transcriber
	renderer pdf.Renderer
	enqueuer Enqueuer
	cfg      *data.ScoreSightConfig
}

func New(store *persistence.Store, llm Transcriber, renderer pdf.Renderer, enqueuer Enqueuer, cfg *data.ScoreSightConfig) *Processor {
	return &Processor{store: store, llm: llm, renderer: renderer, enqueuer: enqueuer, cfg: cfg}
}

// Register verbindet die Task-Typen mit ihren Handlern.
func (p *Processor) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeProcessPDF, p.HandleProcessPDF)
	mux.HandleFunc(queue.TypeGenerateAnalysis, p.HandleGenerateAnalysis)
	mux.HandleFunc(queue.TypeCategorizeTopics, p.HandleCategorizeTopics)
	mux.HandleFunc(queue.TypePing, p.HandlePing)
}

// isCanceled meldet, ob ein Fehler auf einen Jobabbruch zurückgeht.
func isCanceled(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// revokeJob hält den Abbruch im Job fest. Der Task-Kontext ist zu diesem
// Zeitpunkt bereits abgebrochen, daher ein frischer Kontext.
func (p *Processor) revokeJob(jobID string) {
	if err := p.store.MarkJobRevoked(context.Background(), jobID); err != nil {
		logger.Log.Warn("Jobabbruch konnte nicht gespeichert werden:", zap.String("job_id", jobID), zap.Error(err))
	}
}

// failJob markiert den Job als fehlgeschlagen.
func (p *Processor) failJob(jobID, errMsg, status string) {
	if err := p.store.SetJobError(context.Background(), jobID, errMsg, status); err != nil {
		logger.Log.Error("Fehlerzustand konnte nicht gespeichert werden:", zap.String("job_id", jobID), zap.Error(err))
	}
}
