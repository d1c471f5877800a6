package persistence

import (
	"context"

	"scoresight/internal/data"
)

func (s *Store) CreateExamType(ctx context.Context, et *data.ExamType) error {
	return s.db.WithContext(ctx).Create(et).Error
}

func (s *Store) ListExamTypes(ctx context.Context) ([]data.ExamType, error) {
	var types []data.ExamType
	if err := s.db.WithContext(ctx).Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (s *Store) GetExamType(ctx context.Context, id uint) (*data.ExamType, error) {
	var et data.ExamType
	if err := s.db.WithContext(ctx).First(&et, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &et, nil
}

func (s *Store) SaveExamType(ctx context.Context, et *data.ExamType) error {
	return s.db.WithContext(ctx).Save(et).Error
}

func (s *Store) DeleteExamType(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&data.ExamType{}, id).Error
}

// CountExamsByType zählt Prüfungen, die eine Prüfungsart referenzieren.
func (s *Store) CountExamsByType(ctx context.Context, examTypeID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&data.Exam{}).Where("exam_type_id = ?", examTypeID).Count(&count).Error
	return count, err
}

func (s *Store) CreateExam(ctx context.Context, exam *data.Exam) error {
	return s.db.WithContext(ctx).Create(exam).Error
}

func (s *Store) ListExams(ctx context.Context) ([]data.Exam, error) {
	var exams []data.Exam
	if err := s.db.WithContext(ctx).Preload("ExamType").Find(&exams).Error; err != nil {
		return nil, err
	}
	return exams, nil
}

func (s *Store) GetExam(ctx context.Context, id uint) (*data.Exam, error) {
	var exam data.Exam
	if err := s.db.WithContext(ctx).Preload("ExamType").First(&exam, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &exam, nil
}

func (s *Store) SaveExam(ctx context.Context, exam *data.Exam) error {
	return s.db.WithContext(ctx).Save(exam).Error
}

func (s *Store) DeleteExam(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&data.Exam{}, id).Error
}

// CountUploadsByExam zählt Uploads, die zu einer Prüfung gehören.
func (s *Store) CountUploadsByExam(ctx context.Context, examID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&data.Upload{}).Where("exam_id = ?", examID).Count(&count).Error
	return count, err
}

func (s *Store) CreateUpload(ctx context.Context, upload *data.Upload) error {
	return s.db.WithContext(ctx).Create(upload).Error
}

func (s *Store) GetUpload(ctx context.Context, id uint) (*data.Upload, error) {
	var upload data.Upload
	if err := s.db.WithContext(ctx).First(&upload, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &upload, nil
}

func (s *Store) SetUploadStatus(ctx context.Context, id uint, status string) error {
	return s.db.WithContext(ctx).Model(&data.Upload{}).Where("id = ?", id).Update("status", status).Error
}

func (s *Store) CreateReport(ctx context.Context, report *data.Report) error {
	return s.db.WithContext(ctx).Create(report).Error
}

func (s *Store) ListReportsByExam(ctx context.Context, examID uint) ([]data.Report, error) {
	var reports []data.Report
	if err := s.db.WithContext(ctx).Where("exam_id = ?", examID).Order("created_at").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}
