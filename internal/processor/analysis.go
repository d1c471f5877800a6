package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"scoresight/internal/analysis"
	"scoresight/internal/data"
	"scoresight/internal/logger"
	"scoresight/internal/queue"
	"scoresight/internal/report"
)

// HandleGenerateAnalysis erzeugt den Auswertungsbericht aus einer
// bestehenden Transkriptionsdatei.
func (p *Processor) HandleGenerateAnalysis(ctx context.Context, t *asynq.Task) error {
	var payload data.GenerateAnalysisPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", queue.TypeGenerateAnalysis, err)
	}

	err := p.generateAnalysis(ctx, payload)
	if err == nil {
		return nil
	}
	if isCanceled(ctx, err) {
		p.revokeJob(payload.JobID)
		return err
	}

	logger.Log.Error("Auswertung fehlgeschlagen:", zap.String("job_id", payload.JobID), zap.Error(err))
	p.failJob(payload.JobID, err.Error(), "Analysis generation failed: "+err.Error())
	return err
}

func (p *Processor) generateAnalysis(ctx context.Context, payload data.GenerateAnalysisPayload) error {
	jobID := payload.JobID
	if err := p.store.SetJobProgress(ctx, jobID, 0, 0, "Loading transcription data..."); err != nil {
		return err
	}

	rows, err := report.ReadTranscriptionCSV(payload.TranscriptionPath)
	if err != nil {
		return err
	}
	cleaned := analysis.CleanTranscribedRows(rows)

	if err := p.store.SetJobProgress(ctx, jobID, 0, 0, "Analyzing misconceptions..."); err != nil {
		return err
	}

	analysisRows, err := analysis.AnalyzeMisconceptions(ctx, cleaned, p.llm)
	if err != nil {
		return err
	}

	baseName := strings.ReplaceAll(filepath.Base(payload.TranscriptionPath), "_transcription.csv", "")
	analysisPath := filepath.Join(payload.OutputDir, baseName+"_analysis.xlsx")
	if err := report.WriteAnalysisWorkbook(analysisPath, analysisRows, cleaned); err != nil {
		return err
	}

	if payload.ExamID != 0 {
		p.recordReport(ctx, payload.ExamID, "analysis", analysisPath)
	}

	result := data.GenerateAnalysisResult{
		Status:       "completed",
		AnalysisFile: analysisPath,
		Summary: data.AnalysisSummary{
			QuestionsAnalyzed: len(analysisRows),
			TotalEntries:      len(cleaned),
		},
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return p.store.SetJobResult(ctx, jobID, string(raw))
}
