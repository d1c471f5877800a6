package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"scoresight/internal/analysis"
	"scoresight/internal/data"
	"scoresight/internal/logger"
	"scoresight/internal/pdf"
	"scoresight/internal/queue"
	"scoresight/internal/report"
)

// HandleProcessPDF transkribiert eine hochgeladene PDF Seite für Seite,
// bereinigt die Einträge und erzeugt Transkriptions- und Auswertungsdateien.
func (p *Processor) HandleProcessPDF(ctx context.Context, t *asynq.Task) error {
	var payload data.ProcessPDFPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", queue.TypeProcessPDF, err)
	}

	err := p.processPDF(ctx, payload)
	if err == nil {
		return nil
	}
	if isCanceled(ctx, err) {
		p.revokeJob(payload.JobID)
		return err
	}

	logger.Log.Error("PDF-Verarbeitung fehlgeschlagen:", zap.String("job_id", payload.JobID), zap.Error(err))
	p.failJob(payload.JobID, err.Error(), "Processing failed: "+err.Error())
	if payload.UploadID != 0 {
		if uerr := p.store.SetUploadStatus(context.Background(), payload.UploadID, data.UploadStatusFailed); uerr != nil {
			logger.Log.Warn("Upload-Status konnte nicht aktualisiert werden:", zap.Error(uerr))
		}
	}
	return err
}

func (p *Processor) processPDF(ctx context.Context, payload data.ProcessPDFPayload) error {
	jobID := payload.JobID
	if err := p.store.SetJobProgress(ctx, jobID, 0, 0, "Starting PDF processing..."); err != nil {
		return err
	}
	if payload.UploadID != 0 {
		if err := p.store.SetUploadStatus(ctx, payload.UploadID, data.UploadStatusProcessing); err != nil {
			logger.Log.Warn("Upload-Status konnte nicht aktualisiert werden:", zap.Error(err))
		}
	}

	if _, err := os.Stat(payload.PDFPath); err != nil {
		return fmt.Errorf("PDF file not found: %s", payload.PDFPath)
	}

	totalPDFPages, err := p.renderer.PageCount(payload.PDFPath)
	if err != nil {
		return err
	}
	startPage, endPage := payload.StartPage, payload.EndPage
	if endPage == 0 || endPage > totalPDFPages {
		endPage = totalPDFPages
	}
	if startPage < 1 {
		startPage = 1
	}

	if err := p.store.SetJobProgress(ctx, jobID, 0, 0, fmt.Sprintf("Splitting PDF (pages %d-%d)...", startPage, endPage)); err != nil {
		return err
	}

	pages, err := p.renderer.RenderPages(payload.PDFPath, startPage, endPage)
	if err != nil {
		return err
	}
	totalPages := len(pages)
	if totalPages == 0 {
		return errors.New("No pages could be extracted from the PDF")
	}

	if err := p.store.SetJobProgress(ctx, jobID, 0, totalPages, fmt.Sprintf("Processing %d pages...", totalPages)); err != nil {
		return err
	}

	baseName := strings.ReplaceAll(filepath.Base(payload.PDFPath), ".pdf", "")
	className := payload.ClassName
	if className == "" {
		className = "Unknown"
	}
	subjectName := payload.SubjectName
	if subjectName == "" {
		subjectName = "Unknown"
	}

	// Der Name der zuletzt erkannten Schülerin bzw. des Schülers wandert als
	// Hinweis in den Prompt der Folgeseiten, da Antwortbögen über mehrere
	// Seiten laufen.
	var allRows []data.TranscriptionRow
	lastKnownStudentName := ""
	for idx, img := range pages {
		currentPage := idx + 1
		actualPageNumber := startPage + idx
		if err := p.store.SetJobProgress(ctx, jobID, currentPage, totalPages,
			fmt.Sprintf("Analyzing page %d (%d of %d)...", actualPageNumber, currentPage, totalPages)); err != nil {
			return err
		}

		base64Image := pdf.EncodeImageToBase64(img)
		if _, err := pdf.SavePageImage(base64Image, baseName, actualPageNumber, payload.OutputDir); err != nil {
			logger.Log.Warn("Seitenbild konnte nicht gespeichert werden:", zap.Int("page", actualPageNumber), zap.Error(err))
		}

		page, err := p.llm.TranscribePage(ctx, base64Image, lastKnownStudentName)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			logger.Log.Warn("Transkription der Seite fehlgeschlagen:", zap.Int("page", actualPageNumber), zap.Error(err))
			continue
		}
		if page.StudentName != "" {
			lastKnownStudentName = page.StudentName
		}
		for _, entry := range page.Entries {
			allRows = append(allRows, data.TranscriptionRow{
				StudentName: page.StudentName,
				QuestionNo:  entry.QuestionNo,
				Question:    entry.Question,
				Answer:      entry.Answer,
				Grading:     entry.Grading,
				ScanPageNo:  actualPageNumber,
				ClassName:   className,
				SubjectName: subjectName,
			})
		}
	}

	if err := p.store.SetJobProgress(ctx, jobID, totalPages, totalPages, "Converting results to tabular format..."); err != nil {
		return err
	}
	totalEntries := len(allRows)
	if totalEntries == 0 {
		return errors.New("No exam entries were extracted from the PDF")
	}

	if err := p.store.SetJobProgress(ctx, jobID, totalPages, totalPages, "Cleaning and standardizing data..."); err != nil {
		return err
	}
	cleaned := analysis.CleanTranscribedRows(allRows)

	transcriptionFile := filepath.Join(payload.OutputDir, baseName+"_transcription.csv")
	if err := report.WriteTranscriptionCSV(transcriptionFile, cleaned); err != nil {
		return err
	}

	if err := p.store.SetJobProgress(ctx, jobID, totalPages, totalPages, "Analyzing misconceptions..."); err != nil {
		return err
	}

	// Die Auswertung ist optional: scheitert sie, bleibt die Transkription
	// erhalten und analysis_file im Ergebnis leer.
	var analysisFile *string
	analysisRows, err := analysis.AnalyzeMisconceptions(ctx, cleaned, p.llm)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		logger.Log.Error("Auswertung fehlgeschlagen:", zap.Error(err))
	} else {
		path := filepath.Join(payload.OutputDir, baseName+"_analysis.xlsx")
		if werr := report.WriteAnalysisWorkbook(path, analysisRows, cleaned); werr != nil {
			logger.Log.Error("Auswertungsbericht konnte nicht gespeichert werden:", zap.Error(werr))
		} else {
			analysisFile = &path
		}
	}

	if payload.ExamID != 0 {
		p.recordReport(ctx, payload.ExamID, "transcription", transcriptionFile)
		if analysisFile != nil {
			p.recordReport(ctx, payload.ExamID, "analysis", *analysisFile)
		}
	}

	result := data.ProcessPDFResult{
		Status:            "completed",
		TranscriptionFile: transcriptionFile,
		AnalysisFile:      analysisFile,
		PagesProcessed:    totalPages,
		StartPage:         startPage,
		EndPage:           startPage + totalPages - 1,
		TotalEntries:      totalEntries,
		StudentsFound:     analysis.DistinctStudents(cleaned),
		Summary: data.ProcessSummary{
			TotalQuestions: analysis.DistinctQuestions(cleaned),
			TotalAnswers:   analysis.NonBlankAnswers(cleaned),
			GradedAnswers:  analysis.GradedAnswers(cleaned),
		},
	}

	if payload.SubjectName != "" {
		result.TopicAnalysisJobID = p.chainTopicCategorization(ctx, payload, cleaned)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	if err := p.store.SetJobResult(ctx, jobID, string(raw)); err != nil {
		return err
	}
	if payload.UploadID != 0 {
		if err := p.store.SetUploadStatus(ctx, payload.UploadID, data.UploadStatusCompleted); err != nil {
			logger.Log.Warn("Upload-Status konnte nicht aktualisiert werden:", zap.Error(err))
		}
	}
	return nil
}

// chainTopicCategorization reiht die Themenklassifikation der bereinigten
// Fragen als Folgejob ein und liefert dessen ID, oder "" wenn kein Job
// entstanden ist.
func (p *Processor) chainTopicCategorization(ctx context.Context, payload data.ProcessPDFPayload, cleaned []data.TranscriptionRow) string {
	questions := analysis.CleanQuestionsFromTranscription(cleaned)
	if len(questions) == 0 {
		logger.Log.Warn("Keine eindeutigen Fragen für die Themenanalyse gefunden")
		return ""
	}

	topicJobID := uuid.NewString()
	topicJob := &data.Job{ID: topicJobID, Type: queue.TypeCategorizeTopics, State: data.JobStatePending}
	if payload.ExamID != 0 {
		examID := payload.ExamID
		topicJob.ExamID = &examID
	}
	if err := p.store.CreateJob(ctx, topicJob); err != nil {
		logger.Log.Error("Folgejob konnte nicht angelegt werden:", zap.Error(err))
		return ""
	}

	topicPayload := data.CategorizeTopicsPayload{JobID: topicJobID, Questions: questions, SubjectName: payload.SubjectName}
	if err := p.enqueuer.Enqueue(ctx, queue.TypeCategorizeTopics, topicPayload, topicJobID); err != nil {
		logger.Log.Error("Folgejob konnte nicht eingereiht werden:", zap.Error(err))
		_ = p.store.SetJobError(context.Background(), topicJobID, err.Error(), "Processing failed")
		return ""
	}
	return topicJobID
}

// recordReport legt den Verweis auf eine erzeugte Ergebnisdatei an.
func (p *Processor) recordReport(ctx context.Context, examID uint, reportType, filePath string) {
	r := &data.Report{ExamID: examID, ReportType: reportType, FilePath: filePath}
	if err := p.store.CreateReport(ctx, r); err != nil {
		logger.Log.Warn("Report-Eintrag konnte nicht angelegt werden:", zap.String("type", reportType), zap.Error(err))
	}
}
