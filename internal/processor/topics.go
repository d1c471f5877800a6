package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"scoresight/internal/ai"
	"scoresight/internal/data"
	"scoresight/internal/logger"
	"scoresight/internal/queue"
	"scoresight/internal/report"
)

// Fragen je Modellaufruf bei der Themenklassifikation.
const topicChunkSize = 30

// HandleCategorizeTopics ordnet bereinigte Fragen den Lehrplanthemen des
// Fachs zu und schreibt das Ergebnis als CSV ins Reportverzeichnis.
func (p *Processor) HandleCategorizeTopics(ctx context.Context, t *asynq.Task) error {
	var payload data.CategorizeTopicsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", queue.TypeCategorizeTopics, err)
	}

	err := p.categorizeTopics(ctx, payload)
	if err == nil {
		return nil
	}
	if isCanceled(ctx, err) {
		p.revokeJob(payload.JobID)
		return err
	}

	logger.Log.Error("Themenklassifikation fehlgeschlagen:", zap.String("job_id", payload.JobID), zap.Error(err))
	p.failJob(payload.JobID, err.Error(), "Processing failed")
	return err
}

func (p *Processor) categorizeTopics(ctx context.Context, payload data.CategorizeTopicsPayload) error {
	jobID := payload.JobID
	totalQuestions := len(payload.Questions)
	if err := p.store.SetJobProgress(ctx, jobID, 0, totalQuestions, "Starting topic categorization..."); err != nil {
		return err
	}

	// Für Fächer ohne Themenkatalog endet der Job regulär mit einem
	// FAILED-Ergebnis statt mit einem Jobfehler.
	topics, ok := ai.SubjectTopics[payload.SubjectName]
	if !ok {
		logger.Log.Warn("Kein Themenkatalog für das Fach vorhanden:", zap.String("subject", payload.SubjectName))
		return p.storeTopicsResult(ctx, jobID, data.CategorizeTopicsResult{
			Status: "FAILED",
			Error:  "Topic classification not available for subject: " + payload.SubjectName,
		})
	}

	totalBatches := (totalQuestions + topicChunkSize - 1) / topicChunkSize
	var classifications []data.TopicClassification
	for i := 0; i < totalQuestions; i += topicChunkSize {
		batchNum := i/topicChunkSize + 1
		end := i + topicChunkSize
		if end > totalQuestions {
			end = totalQuestions
		}
		if err := p.store.SetJobProgress(ctx, jobID, i, totalQuestions,
			fmt.Sprintf("Processing batch %d/%d", batchNum, totalBatches)); err != nil {
			return err
		}

		results, err := p.llm.QuestionTopics(ctx, payload.Questions[i:end], payload.SubjectName, topics)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			logger.Log.Error("Batch konnte nicht klassifiziert werden:", zap.Int("batch", batchNum), zap.Error(err))
			continue
		}
		classifications = append(classifications, results...)
	}

	if len(classifications) == 0 && totalQuestions > 0 {
		return errors.New("no topic classifications produced")
	}

	// Erste Klassifikation je Fragenummer gewinnt
	byQuestionNo := make(map[string]data.TopicClassification, len(classifications))
	for _, c := range classifications {
		if _, exists := byQuestionNo[c.QuestionNo]; !exists {
			byQuestionNo[c.QuestionNo] = c
		}
	}

	rows := make([]data.TopicRow, 0, totalQuestions)
	for _, q := range payload.Questions {
		row := data.TopicRow{QuestionNo: q.QuestionNo, Question: q.Question}
		if c, ok := byQuestionNo[q.QuestionNo]; ok {
			confidence := c.Confidence
			row.Topic = c.Topic
			row.Confidence = &confidence
			row.Explanation = c.Explanation
		}
		rows = append(rows, row)
	}

	if err := os.MkdirAll(p.cfg.ReportDir, 0755); err != nil {
		return err
	}
	outputPath := filepath.Join(p.cfg.ReportDir, fmt.Sprintf("%s_topic_analysis_%s.csv", payload.SubjectName, jobID))
	if err := report.WriteTopicCSV(outputPath, rows); err != nil {
		return err
	}

	// Verkettete Jobs tragen die Prüfung in ihrer Job-Zeile.
	if job, err := p.store.GetJob(ctx, jobID); err == nil && job.ExamID != nil {
		p.recordReport(ctx, *job.ExamID, "topics", outputPath)
	}

	return p.storeTopicsResult(ctx, jobID, data.CategorizeTopicsResult{
		Status:             "completed",
		OutputFile:         outputPath,
		QuestionsProcessed: len(rows),
	})
}

func (p *Processor) storeTopicsResult(ctx context.Context, jobID string, result data.CategorizeTopicsResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return p.store.SetJobResult(ctx, jobID, string(raw))
}
