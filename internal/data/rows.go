package data

// TranscriptionRow ist eine Zeile der Transkriptions-CSV.
// Die csv-Tags legen die Spaltenköpfe der Ausgabedatei fest.
type TranscriptionRow struct {
	StudentName string `csv:"Student Name" json:"student_name"`
	QuestionNo  string `csv:"Question No" json:"question_no"`
	Question    string `csv:"Question" json:"question"`
	Answer      string `csv:"Answer" json:"answer"`
	Grading     string `csv:"Grading" json:"grading"`
	ScanPageNo  int    `csv:"ScanPageNo" json:"scan_page_no"`
	ClassName   string `csv:"ClassName" json:"class_name"`
	SubjectName string `csv:"SubjectName" json:"subject_name"`
}

// AnalysisRow ist eine Zeile des Blatts Question_Analysis.
type AnalysisRow struct {
	MainQuestionNo          string `csv:"Main Question No" json:"main_question_no"`
	Question                string `csv:"Question" json:"question"`
	SubQuestionNo           string `csv:"Sub Question No" json:"sub_question_no"`
	Attempts                int    `csv:"Attempts" json:"attempts"`
	DistinctStudents        int    `csv:"Distinct Students" json:"distinct_students"`
	CorrectAnswers          int    `csv:"Correct Answers" json:"correct_answers"`
	CorrectPercentage       string `csv:"Correct %" json:"correct_percentage"`
	MostCommonMisconception string `csv:"Most Common Misconception" json:"most_common_misconception"`
	MisconceptionFrequency  int    `csv:"Misconception Frequency" json:"misconception_frequency"`
}

// QuestionItem ist eine bereinigte Frage für die Themenklassifikation.
// Die JSON-Schlüssel entsprechen den Spaltenköpfen der Eingabedateien.
type QuestionItem struct {
	QuestionNo string `json:"Question No" csv:"Question No"`
	Question   string `json:"Question" csv:"Question"`
}

// TopicClassification ist die Antwort des Modells je Frage.
type TopicClassification struct {
	QuestionNo  string  `json:"question_no"`
	Topic       string  `json:"topic"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// TopicRow ist eine Zeile der Themenanalyse-CSV nach dem Merge.
type TopicRow struct {
	QuestionNo  string   `csv:"Question No"`
	Question    string   `csv:"Question"`
	Topic       string   `csv:"topic"`
	Confidence  *float64 `csv:"confidence"`
	Explanation string   `csv:"explanation"`
}

// PageEntry ist ein transkribierter Eintrag einer Prüfungsseite.
type PageEntry struct {
	QuestionNo string `json:"questionNo"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Grading    string `json:"grading"`
}

// PageTranscription ist die Antwort des Vision-Modells für eine Seite.
type PageTranscription struct {
	StudentName string      `json:"studentName"`
	Entries     []PageEntry `json:"entries"`
}
