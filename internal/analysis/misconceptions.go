package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"scoresight/internal/data"
)

// MisconceptionDetector liefert zur Frage die häufigste Fehlvorstellung
// samt Anzahl der betroffenen Antworten.
type MisconceptionDetector interface {
	CommonMisconceptions(ctx context.Context, question string, wrongAnswers, correctSample []string) (string, int, error)
}

// AnalyzeMisconceptions gruppiert Transkriptionszeilen je Teilfrage und
// rechnet Versuche, Trefferquote und die häufigste Fehlvorstellung aus.
func AnalyzeMisconceptions(ctx context.Context, rows []data.TranscriptionRow, detector MisconceptionDetector) ([]data.AnalysisRow, error) {
	groups := make(map[string][]data.TranscriptionRow)
	for _, row := range rows {
		sub := SubQuestionNo(row.QuestionNo)
		groups[sub] = append(groups[sub], row)
	}
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	results := make([]data.AnalysisRow, 0, len(keys))
	for _, sub := range keys {
		group := groups[sub]
		students := make(map[string]bool)
		correct := 0
		var wrongAnswers []string
		var correctPool []string
		for _, row := range group {
			students[row.StudentName] = true
			if row.Grading == "Correct" {
				correct++
			}
			if row.Grading != "Correct" && strings.TrimSpace(row.Answer) != "" {
				wrongAnswers = append(wrongAnswers, row.Answer)
			}
			if strings.Contains(strings.ToLower(row.Grading), "correct") && strings.TrimSpace(row.Answer) != "" {
				correctPool = append(correctPool, row.Answer)
			}
		}

		sampleSize := correct
		if sampleSize > 10 {
			sampleSize = 10
		}
		var correctSample []string
		if sampleSize > len(correctPool) {
			correctSample = []string{"No correct answer transcribed"}
		} else {
			correctSample = correctPool[:sampleSize]
		}

		percentage := 0.0
		if len(group) > 0 {
			percentage = float64(correct) / float64(len(group)) * 100
		}

		misconception := ""
		frequency := 0
		if len(wrongAnswers) > 0 {
			m, f, err := detector.CommonMisconceptions(ctx, group[0].Question, wrongAnswers, correctSample)
			if err != nil {
				return nil, err
			}
			misconception, frequency = m, f
		}

		results = append(results, data.AnalysisRow{
			MainQuestionNo:          MainQuestionNo(group[0].QuestionNo),
			Question:                group[0].Question,
			SubQuestionNo:           sub,
			Attempts:                len(group),
			DistinctStudents:        len(students),
			CorrectAnswers:          correct,
			CorrectPercentage:       fmt.Sprintf("%.1f", percentage),
			MostCommonMisconception: misconception,
			MisconceptionFrequency:  frequency,
		})
	}
	return results, nil
}
