package data

import "time"

// Zustände eines Hintergrundjobs, wie sie der Client über die API abfragt.
const (
	JobStatePending    = "PENDING"
	JobStateProcessing = "PROCESSING"
	JobStateSuccess    = "SUCCESS"
	JobStateFailure    = "FAILURE"
	JobStateRevoked    = "REVOKED"
)

// Status einer hochgeladenen Datei über ihren Lebenszyklus.
const (
	UploadStatusPending    = "pending"
	UploadStatusQueued     = "queued"
	UploadStatusProcessing = "processing"
	UploadStatusCompleted  = "completed"
	UploadStatusFailed     = "failed"
)

// Job definiert die Struktur eines zu verarbeitenden Hintergrundjobs.
// Die Zeile existiert bereits vor dem Einreihen des Tasks, damit der
// Status auch dann abfragbar bleibt, wenn der Broker den Task verliert.
type Job struct {
	ID              string    `json:"job_id" gorm:"primaryKey"`
	Type            string    `json:"type"`
	State           string    `json:"state"`
	ProgressCurrent int       `json:"progress_current"`
	ProgressTotal   int       `json:"progress_total"`
	ProgressMessage string    `json:"progress_message"`
	Result          string    `json:"-" gorm:"type:text"`
	Error           string    `json:"error,omitempty"`
	ExamID          *uint     `json:"exam_id,omitempty"`
	UploadID        *uint     `json:"upload_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Progress ist der Fortschrittsblock in der Job-Statusantwort.
type Progress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Status  string `json:"status"`
}

// HasProgress meldet, ob der Job schon Fortschrittsinformationen trägt.
func (j *Job) HasProgress() bool {
	return j.ProgressTotal > 0 || j.ProgressCurrent > 0 || j.ProgressMessage != ""
}

// Progress liefert den Fortschrittsblock des Jobs.
func (j *Job) Progress() Progress {
	return Progress{Current: j.ProgressCurrent, Total: j.ProgressTotal, Status: j.ProgressMessage}
}
