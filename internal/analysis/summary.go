package analysis

import (
	"strings"

	"scoresight/internal/data"
)

// DistinctStudents zählt die unterschiedlichen Schülernamen.
func DistinctStudents(rows []data.TranscriptionRow) int {
	seen := make(map[string]bool)
	for _, row := range rows {
		seen[row.StudentName] = true
	}
	return len(seen)
}

// DistinctQuestions zählt die unterschiedlichen Fragenummern.
func DistinctQuestions(rows []data.TranscriptionRow) int {
	seen := make(map[string]bool)
	for _, row := range rows {
		seen[row.QuestionNo] = true
	}
	return len(seen)
}

// NonBlankAnswers zählt Zeilen mit nicht-leerer Antwort.
func NonBlankAnswers(rows []data.TranscriptionRow) int {
	count := 0
	for _, row := range rows {
		if strings.TrimSpace(row.Answer) != "" {
			count++
		}
	}
	return count
}

// GradedAnswers zählt Zeilen, die bereits als richtig oder falsch bewertet sind.
func GradedAnswers(rows []data.TranscriptionRow) int {
	count := 0
	for _, row := range rows {
		if row.Grading == "Correct" || row.Grading == "Incorrect" {
			count++
		}
	}
	return count
}
