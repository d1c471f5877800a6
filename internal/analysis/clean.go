package analysis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"scoresight/internal/data"
)

var (
	bracketChars = regexp.MustCompile(`[()\[\]']`)
	romanSuffix  = regexp.MustCompile(`[\s_]*(\([ivx]+\)|[ivx]+)$`)
	digitsOnly   = regexp.MustCompile(`^\d+$`)
)

// CleanTranscribedRows normalisiert Fragenummern und wirft Kopfzeilen-Artefakte
// der Transkription raus.
func CleanTranscribedRows(rows []data.TranscriptionRow) []data.TranscriptionRow {
	cleaned := make([]data.TranscriptionRow, 0, len(rows))
	for _, row := range rows {
		row.ClassName = bracketChars.ReplaceAllString(row.ClassName, "")
		row.SubjectName = bracketChars.ReplaceAllString(row.SubjectName, "")
		row.QuestionNo = StandardizeQuestionNumber(CorrectQuestionNumber(row.QuestionNo))
		if strings.Contains(row.Question, "Question No") {
			continue
		}
		if row.Question == "" {
			continue
		}
		cleaned = append(cleaned, row)
	}
	return cleaned
}

// CleanQuestionList liest eine hochgeladene Fragenliste aus Kopfzeile und
// Datenzeilen und reduziert sie auf eindeutige Hauptfragen.
func CleanQuestionList(headers []string, rows [][]string) ([]data.QuestionItem, error) {
	noIdx, textIdx := -1, -1
	for i, h := range headers {
		switch h {
		case "Question No":
			noIdx = i
		case "Question":
			textIdx = i
		}
	}
	if noIdx < 0 || textIdx < 0 {
		// Tolerante Zuordnung, falls die Spalten anders benannt sind.
		noIdx, textIdx = -1, -1
		for i, h := range headers {
			lowered := strings.ToLower(strings.TrimSpace(h))
			if strings.Contains(lowered, "question") && strings.Contains(lowered, "no") {
				if noIdx < 0 {
					noIdx = i
				}
			} else if strings.Contains(lowered, "question") {
				if textIdx < 0 {
					textIdx = i
				}
			}
		}
	}
	if noIdx < 0 || textIdx < 0 {
		return nil, fmt.Errorf("input file must contain columns: Question No, Question")
	}

	pairs := make([]data.QuestionItem, 0, len(rows))
	for _, row := range rows {
		if noIdx >= len(row) || textIdx >= len(row) {
			continue
		}
		pairs = append(pairs, data.QuestionItem{QuestionNo: row[noIdx], Question: row[textIdx]})
	}
	return cleanQuestionPairs(pairs), nil
}

// CleanQuestionsFromTranscription zieht die eindeutigen Hauptfragen aus
// bereits transkribierten Zeilen, etwa für die Themenklassifikation.
func CleanQuestionsFromTranscription(rows []data.TranscriptionRow) []data.QuestionItem {
	pairs := make([]data.QuestionItem, 0, len(rows))
	for _, row := range rows {
		pairs = append(pairs, data.QuestionItem{QuestionNo: row.QuestionNo, Question: row.Question})
	}
	return cleanQuestionPairs(pairs)
}

func cleanQuestionPairs(pairs []data.QuestionItem) []data.QuestionItem {
	seenText := make(map[string]bool)
	var items []data.QuestionItem
	for _, pair := range pairs {
		questionNo := pair.QuestionNo
		question := pair.Question
		if questionNo == "" || question == "" {
			continue
		}
		// Excel liefert Ganzzahlen gern als "7.0".
		if stripped := strings.ReplaceAll(questionNo, ".0", ""); digitsOnly.MatchString(stripped) {
			if n, err := strconv.Atoi(stripped); err == nil {
				questionNo = strconv.Itoa(n)
			}
		}
		if seenText[question] {
			continue
		}
		seenText[question] = true
		questionNo = strings.TrimSpace(romanSuffix.ReplaceAllString(strings.TrimSpace(questionNo), ""))
		items = append(items, data.QuestionItem{QuestionNo: questionNo, Question: question})
	}

	// Nach dem Kappen der Teilfragen-Suffixe können Paare doppelt vorkommen.
	seenPair := make(map[string]bool)
	unique := items[:0]
	for _, item := range items {
		key := item.QuestionNo + "\x00" + item.Question
		if seenPair[key] {
			continue
		}
		seenPair[key] = true
		unique = append(unique, item)
	}
	return unique
}
