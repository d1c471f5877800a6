package persistence

import (
	"context"

	"scoresight/internal/data"
)

func (s *Store) CreateJob(ctx context.Context, job *data.Job) error {
	return s.db.WithContext(ctx).Create(job).Error
}

func (s *Store) GetJob(ctx context.Context, id string) (*data.Job, error) {
	var job data.Job
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		return nil, notFound(err)
	}
	return &job, nil
}

// ListJobsInStates liefert alle Jobs in den angegebenen Zuständen,
// älteste zuerst.
func (s *Store) ListJobsInStates(ctx context.Context, states ...string) ([]data.Job, error) {
	var jobs []data.Job
	if err := s.db.WithContext(ctx).Where("state IN ?", states).Order("created_at").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// SetJobProgress setzt den Job auf PROCESSING und aktualisiert den Fortschritt.
func (s *Store) SetJobProgress(ctx context.Context, id string, current, total int, status string) error {
	return s.db.WithContext(ctx).Model(&data.Job{}).Where("id = ?", id).Updates(map[string]interface{}{
		"state":            data.JobStateProcessing,
		"progress_current": current,
		"progress_total":   total,
		"progress_message": status,
	}).Error
}

// SetJobResult schließt den Job erfolgreich ab und hinterlegt das Ergebnis-JSON.
func (s *Store) SetJobResult(ctx context.Context, id string, resultJSON string) error {
	return s.db.WithContext(ctx).Model(&data.Job{}).Where("id = ?", id).Updates(map[string]interface{}{
		"state":  data.JobStateSuccess,
		"result": resultJSON,
	}).Error
}

// SetJobError markiert den Job als fehlgeschlagen.
func (s *Store) SetJobError(ctx context.Context, id string, errMsg, status string) error {
	return s.db.WithContext(ctx).Model(&data.Job{}).Where("id = ?", id).Updates(map[string]interface{}{
		"state":            data.JobStateFailure,
		"error":            errMsg,
		"progress_message": status,
	}).Error
}

// MarkJobRevoked markiert den Job als abgebrochen. Bereits abgeschlossene
// Jobs behalten ihren Endzustand, unbekannte IDs sind kein Fehler.
func (s *Store) MarkJobRevoked(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&data.Job{}).
		Where("id = ? AND state IN ?", id, []string{data.JobStatePending, data.JobStateProcessing}).
		Update("state", data.JobStateRevoked).Error
}
