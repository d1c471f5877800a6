package data

import "time"

// ExamTypeCreate ist der Request-Körper zum Anlegen einer Prüfungsart.
type ExamTypeCreate struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// ExamTypeUpdate trägt nur die zu ändernden Felder.
type ExamTypeUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// ExamCreate ist der Request-Körper zum Anlegen einer Prüfung.
type ExamCreate struct {
	Name          string     `json:"name" binding:"required"`
	SubjectName   *string    `json:"subject_name"`
	ClassName     *string    `json:"class_name"`
	ExamTypeID    uint       `json:"exam_type_id" binding:"required"`
	Description   *string    `json:"description"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

// ExamUpdate trägt nur die zu ändernden Felder.
type ExamUpdate struct {
	Name          *string    `json:"name"`
	SubjectName   *string    `json:"subject_name"`
	ClassName     *string    `json:"class_name"`
	ExamTypeID    *uint      `json:"exam_type_id"`
	Description   *string    `json:"description"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

// PDFUploadRequest sind die Formularfelder des PDF-Uploads. Die Datei selbst
// kommt als Multipart-Feld "file" dazu.
type PDFUploadRequest struct {
	ExamID      uint   `form:"exam_id" binding:"required"`
	StartPage   int    `form:"start_page,default=1"`
	EndPage     *int   `form:"end_page"`
	ClassName   string `form:"class_name"`
	SubjectName string `form:"subject_name"`
}

// TopicUploadRequest sind die Formularfelder der Themenklassifikation.
type TopicUploadRequest struct {
	SubjectName string `form:"subject_name,default=SST"`
}
