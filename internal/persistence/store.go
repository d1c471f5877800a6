package persistence

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"scoresight/internal/data"
)

// ErrNotFound wird geliefert, wenn ein Datensatz nicht existiert.
var ErrNotFound = errors.New("record not found")

// Store kapselt alle Datenbankzugriffe beider Prozesse.
type Store struct {
	db *gorm.DB
}

// NewStore öffnet die Datenbank anhand des URL-Schemas.
// Unterstützt werden sqlite:///pfad und postgres://... Verbindungen.
func NewStore(databaseURL string) (*Store, error) {
	var db *gorm.DB
	var err error

	switch {
	case strings.HasPrefix(databaseURL, "sqlite"):
		// sqlite:///relativ.db bzw. sqlite:////absolut.db wie bei SQLAlchemy
		path := strings.TrimPrefix(databaseURL, "sqlite://")
		path = strings.TrimPrefix(path, "/")
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	case strings.HasPrefix(databaseURL, "postgres"):
		db, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported database url: %s", databaseURL)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Store{db: db}, nil
}

// AutoMigrate legt das Schema an bzw. zieht es nach.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(
		&data.ExamType{},
		&data.Exam{},
		&data.Upload{},
		&data.Report{},
		&data.Job{},
	)
}

// Ping prüft die Datenbankverbindung.
func (s *Store) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close schließt die zugrundeliegende Verbindung.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
