package report

import (
	"io"

	"github.com/xuri/excelize/v2"

	"scoresight/internal/data"
)

const (
	sheetQuestionAnalysis = "Question_Analysis"
	sheetRawTranscription = "Raw_Transcription"
)

var (
	analysisHeader = []interface{}{
		"Main Question No", "Question", "Sub Question No", "Attempts",
		"Distinct Students", "Correct Answers", "Correct %",
		"Most Common Misconception", "Misconception Frequency",
	}
	transcriptionHeader = []interface{}{
		"Student Name", "Question No", "Question", "Answer",
		"Grading", "ScanPageNo", "ClassName", "SubjectName",
	}
)

// WriteAnalysisWorkbook schreibt Analyse und Roh-Transkription als Arbeitsmappe
// mit den Blättern Question_Analysis und Raw_Transcription.
func WriteAnalysisWorkbook(path string, analysisRows []data.AnalysisRow, transcriptionRows []data.TranscriptionRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(sheetQuestionAnalysis); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetQuestionAnalysis, "A1", &analysisHeader); err != nil {
		return err
	}
	for i, row := range analysisRows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			row.MainQuestionNo, row.Question, row.SubQuestionNo, row.Attempts,
			row.DistinctStudents, row.CorrectAnswers, row.CorrectPercentage,
			row.MostCommonMisconception, row.MisconceptionFrequency,
		}
		if err := f.SetSheetRow(sheetQuestionAnalysis, cell, &values); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(sheetRawTranscription); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetRawTranscription, "A1", &transcriptionHeader); err != nil {
		return err
	}
	for i, row := range transcriptionRows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			row.StudentName, row.QuestionNo, row.Question, row.Answer,
			row.Grading, row.ScanPageNo, row.ClassName, row.SubjectName,
		}
		if err := f.SetSheetRow(sheetRawTranscription, cell, &values); err != nil {
			return err
		}
	}

	// Das leere Standardblatt soll nicht im Report auftauchen.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// ReadRawXLSX liest Kopfzeile und Datenzeilen des ersten Blatts einer Arbeitsmappe.
func ReadRawXLSX(r io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	all, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[0], all[1:], nil
}
