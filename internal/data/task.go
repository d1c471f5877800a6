package data

// ProcessPDFPayload enthält alles, was der Worker zum Verarbeiten einer PDF braucht.
type ProcessPDFPayload struct {
	JobID       string `json:"job_id"`
	PDFPath     string `json:"pdf_path"`
	OutputDir   string `json:"output_dir"`
	StartPage   int    `json:"start_page"`
	EndPage     int    `json:"end_page"`
	ClassName   string `json:"class_name"`
	SubjectName string `json:"subject_name"`
	ExamID      uint   `json:"exam_id"`
	UploadID    uint   `json:"upload_id"`
}

// GenerateAnalysisPayload beschreibt eine Auswertung über eine bestehende Transkription.
type GenerateAnalysisPayload struct {
	JobID             string `json:"job_id"`
	TranscriptionPath string `json:"transcription_path"`
	OutputDir         string `json:"output_dir"`
	ExamID            uint   `json:"exam_id"`
}

// CategorizeTopicsPayload beschreibt eine Themenklassifikation einer Fragenliste.
type CategorizeTopicsPayload struct {
	JobID       string         `json:"job_id"`
	Questions   []QuestionItem `json:"questions"`
	SubjectName string         `json:"subject_name"`
}

// PingPayload ist der Payload des Verbindungstests.
type PingPayload struct {
	JobID string `json:"job_id"`
}

// ProcessPDFResult ist das Ergebnis eines abgeschlossenen PDF-Jobs.
// AnalysisFile bleibt null, wenn die Auswertung fehlgeschlagen ist.
type ProcessPDFResult struct {
	Status             string         `json:"status"`
	TranscriptionFile  string         `json:"transcription_file"`
	AnalysisFile       *string        `json:"analysis_file"`
	PagesProcessed     int            `json:"pages_processed"`
	StartPage          int            `json:"start_page"`
	EndPage            int            `json:"end_page"`
	TotalEntries       int            `json:"total_entries"`
	StudentsFound      int            `json:"students_found"`
	Summary            ProcessSummary `json:"summary"`
	TopicAnalysisJobID string         `json:"topic_analysis_job_id,omitempty"`
}

// ProcessSummary fasst die transkribierten Einträge zusammen.
type ProcessSummary struct {
	TotalQuestions int `json:"total_questions"`
	TotalAnswers   int `json:"total_answers"`
	GradedAnswers  int `json:"graded_answers"`
}

// GenerateAnalysisResult ist das Ergebnis einer nachträglichen Auswertung.
type GenerateAnalysisResult struct {
	Status       string          `json:"status"`
	AnalysisFile string          `json:"analysis_file"`
	Summary      AnalysisSummary `json:"summary"`
}

// AnalysisSummary zählt die ausgewerteten Fragen und Einträge.
type AnalysisSummary struct {
	QuestionsAnalyzed int `json:"questions_analyzed"`
	TotalEntries      int `json:"total_entries"`
}

// CategorizeTopicsResult ist das Ergebnis der Themenklassifikation.
type CategorizeTopicsResult struct {
	Status             string `json:"status"`
	Error              string `json:"error,omitempty"`
	OutputFile         string `json:"output_file,omitempty"`
	QuestionsProcessed int    `json:"questions_processed,omitempty"`
}

// PingResult bestätigt einen erfolgreichen Verbindungstest.
type PingResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
