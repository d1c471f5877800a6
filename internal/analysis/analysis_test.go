package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoresight/internal/data"
)

func TestCorrectQuestionNumber(t *testing.T) {
	cases := map[string]string{
		"1.a.i":    "1(a)(i)",
		"1.a":      "1(a)",
		"1.(a).iv": "1(a)(iv)",
		"3.(b)":    "3(b)",
		"2 (a)":    "2(a)",
		"7":        "7",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, CorrectQuestionNumber(input), "Eingabe: %s", input)
	}
}

func TestStandardizeQuestionNumber(t *testing.T) {
	cases := map[string]string{
		"12a(iii)": "12(a)(iii)",
		"12a":      "12(a)",
		"1(a)(i)":  "1(a)(i)",
		"7":        "7",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, StandardizeQuestionNumber(input), "Eingabe: %s", input)
	}
}

func TestMainAndSubQuestionNo(t *testing.T) {
	assert.Equal(t, "7", MainQuestionNo("7(b)(ii)"))
	assert.Equal(t, "7", MainQuestionNo("7"))
	assert.Equal(t, "7(b)", SubQuestionNo("7(b)(ii)"))
	assert.Equal(t, "7(b)", SubQuestionNo("7(b)"))
	assert.Equal(t, "7", SubQuestionNo("7"))
}

func TestCleanTranscribedRows(t *testing.T) {
	rows := []data.TranscriptionRow{
		{StudentName: "Alice", QuestionNo: "1.a", Question: "Define osmosis", ClassName: "['Form 2']", SubjectName: "(Science)"},
		{StudentName: "Alice", QuestionNo: "2", Question: "Question No"},
		{StudentName: "Alice", QuestionNo: "3", Question: ""},
		{StudentName: "Bob", QuestionNo: "12a", Question: "Label the diagram"},
	}

	cleaned := CleanTranscribedRows(rows)

	require.Len(t, cleaned, 2)
	assert.Equal(t, "1(a)", cleaned[0].QuestionNo)
	assert.Equal(t, "Form 2", cleaned[0].ClassName)
	assert.Equal(t, "Science", cleaned[0].SubjectName)
	assert.Equal(t, "12(a)", cleaned[1].QuestionNo)
}

func TestCleanQuestionList(t *testing.T) {
	headers := []string{"Question No", "Question", "Marks"}
	rows := [][]string{
		{"7.0", "Define photosynthesis", "2"},
		{"7 (ii)", "Define photosynthesis", "2"},
		{"8(i)", "State two factors", "3"},
		{"8(ii)", "State two factors again", "1"},
		{"9a", "Short", ""},
		{"", "Skipped", ""},
		{"10", "", ""},
	}

	items, err := CleanQuestionList(headers, rows)

	require.NoError(t, err)
	assert.Equal(t, []data.QuestionItem{
		{QuestionNo: "7", Question: "Define photosynthesis"},
		{QuestionNo: "8", Question: "State two factors"},
		{QuestionNo: "8", Question: "State two factors again"},
		{QuestionNo: "9a", Question: "Short"},
	}, items)
}

func TestCleanQuestionListFlexibleHeaders(t *testing.T) {
	items, err := CleanQuestionList([]string{"Question Number", "Question Text"}, [][]string{{"3", "Why?"}})

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, data.QuestionItem{QuestionNo: "3", Question: "Why?"}, items[0])
}

func TestCleanQuestionsFromTranscription(t *testing.T) {
	rows := []data.TranscriptionRow{
		{QuestionNo: "8(i)", Question: "State two factors"},
		{QuestionNo: "8(ii)", Question: "State two factors"},
		{QuestionNo: "9", Question: "Name the capital"},
		{QuestionNo: "9", Question: "Name the capital"},
	}

	items := CleanQuestionsFromTranscription(rows)

	assert.Equal(t, []data.QuestionItem{
		{QuestionNo: "8", Question: "State two factors"},
		{QuestionNo: "9", Question: "Name the capital"},
	}, items)
}

func TestCleanQuestionListMissingColumns(t *testing.T) {
	_, err := CleanQuestionList([]string{"A", "B"}, [][]string{{"1", "2"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must contain columns")
}

type detectorCall struct {
	question string
	wrong    []string
	sample   []string
}

type stubDetector struct {
	calls []detectorCall
	err   error
}

func (s *stubDetector) CommonMisconceptions(_ context.Context, question string, wrongAnswers, correctSample []string) (string, int, error) {
	s.calls = append(s.calls, detectorCall{question: question, wrong: wrongAnswers, sample: correctSample})
	if s.err != nil {
		return "", 0, s.err
	}
	return "Verwechselt Hauptstadt und Hafenstadt", len(wrongAnswers), nil
}

func TestAnalyzeMisconceptions(t *testing.T) {
	rows := []data.TranscriptionRow{
		{StudentName: "Alice", QuestionNo: "7(a)", Question: "Name the capital", Answer: "Nairobi", Grading: "Correct"},
		{StudentName: "Bob", QuestionNo: "7(a)", Question: "Name the capital", Answer: "Mombasa", Grading: "Incorrect"},
		{StudentName: "Cara", QuestionNo: "7(a)", Question: "Name the capital", Answer: "", Grading: "Not Graded"},
		{StudentName: "Alice", QuestionNo: "7(b)(i)", Question: "Explain rainfall", Answer: "Relief", Grading: "Correct"},
		{StudentName: "Bob", QuestionNo: "7(b)(ii)", Question: "Explain convection", Answer: "Heat rises", Grading: "Correct"},
	}
	detector := &stubDetector{}

	results, err := AnalyzeMisconceptions(context.Background(), rows, detector)

	require.NoError(t, err)
	require.Len(t, results, 2)

	first := results[0]
	assert.Equal(t, "7", first.MainQuestionNo)
	assert.Equal(t, "7(a)", first.SubQuestionNo)
	assert.Equal(t, 3, first.Attempts)
	assert.Equal(t, 3, first.DistinctStudents)
	assert.Equal(t, 1, first.CorrectAnswers)
	assert.Equal(t, "33.3", first.CorrectPercentage)
	assert.Equal(t, "Verwechselt Hauptstadt und Hafenstadt", first.MostCommonMisconception)
	assert.Equal(t, 1, first.MisconceptionFrequency)

	second := results[1]
	assert.Equal(t, "7(b)", second.SubQuestionNo)
	assert.Equal(t, 2, second.Attempts)
	assert.Equal(t, "100.0", second.CorrectPercentage)
	assert.Empty(t, second.MostCommonMisconception)
	assert.Zero(t, second.MisconceptionFrequency)

	// Nur die Gruppe mit falschen Antworten fragt die KI.
	require.Len(t, detector.calls, 1)
	assert.Equal(t, "Name the capital", detector.calls[0].question)
	assert.Equal(t, []string{"Mombasa"}, detector.calls[0].wrong)
	assert.Equal(t, []string{"Nairobi"}, detector.calls[0].sample)
}

func TestAnalyzeMisconceptionsNoCorrectSample(t *testing.T) {
	// Die einzige richtige Antwort ist leer transkribiert.
	rows := []data.TranscriptionRow{
		{StudentName: "Alice", QuestionNo: "1", Question: "Define erosion", Answer: "", Grading: "Correct"},
		{StudentName: "Bob", QuestionNo: "1", Question: "Define erosion", Answer: "Wind", Grading: "Not Graded"},
	}
	detector := &stubDetector{}

	results, err := AnalyzeMisconceptions(context.Background(), rows, detector)

	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, detector.calls, 1)
	assert.Equal(t, []string{"Wind"}, detector.calls[0].wrong)
	assert.Equal(t, []string{"No correct answer transcribed"}, detector.calls[0].sample)
}

func TestAnalyzeMisconceptionsDetectorError(t *testing.T) {
	rows := []data.TranscriptionRow{
		{StudentName: "Alice", QuestionNo: "1", Question: "Define erosion", Answer: "Rain", Grading: "Incorrect"},
	}
	detector := &stubDetector{err: errors.New("rate limit")}

	_, err := AnalyzeMisconceptions(context.Background(), rows, detector)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestSummaryCounts(t *testing.T) {
	rows := []data.TranscriptionRow{
		{StudentName: "Alice", QuestionNo: "1", Answer: "A", Grading: "Correct"},
		{StudentName: "Alice", QuestionNo: "2", Answer: " ", Grading: "Not Graded"},
		{StudentName: "Bob", QuestionNo: "1", Answer: "B", Grading: "Incorrect"},
	}

	assert.Equal(t, 2, DistinctStudents(rows))
	assert.Equal(t, 2, DistinctQuestions(rows))
	assert.Equal(t, 2, NonBlankAnswers(rows))
	assert.Equal(t, 2, GradedAnswers(rows))
}
