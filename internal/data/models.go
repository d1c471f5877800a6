package data

import "time"

// ExamType beschreibt eine Prüfungsart (z.B. Endterm, Mock).
type ExamType struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Exam ist eine konkrete Prüfung mit optionalem Fach- und Klassenbezug.
type Exam struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Name          string     `json:"name" gorm:"not null"`
	SubjectName   *string    `json:"subject_name"`
	ClassName     *string    `json:"class_name"`
	Description   *string    `json:"description"`
	ExamTypeID    uint       `json:"exam_type_id" gorm:"not null"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	ExamType *ExamType `json:"exam_type,omitempty" gorm:"foreignKey:ExamTypeID"`
}

// Upload ist eine hochgeladene PDF-Datei samt Verarbeitungsstatus.
type Upload struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ExamID    uint      `json:"exam_id" gorm:"not null"`
	Filename  string    `json:"filename" gorm:"not null"`
	Status    string    `json:"status" gorm:"default:pending"`
	StartPage int       `json:"start_page" gorm:"default:1"`
	EndPage   *int      `json:"end_page"`
	CreatedAt time.Time `json:"created_at"`
}

// Report verweist auf eine erzeugte Ergebnisdatei einer Prüfung.
type Report struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ExamID     uint      `json:"exam_id" gorm:"not null"`
	ReportType string    `json:"report_type" gorm:"not null"`
	FilePath   string    `json:"file_path" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}
