package report

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"scoresight/internal/data"
)

// WriteTranscriptionCSV schreibt die transkribierten Zeilen als CSV-Report.
func WriteTranscriptionCSV(path string, rows []data.TranscriptionRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&rows, f)
}

// ReadTranscriptionCSV liest einen zuvor geschriebenen Transkriptions-Report ein.
func ReadTranscriptionCSV(path string) ([]data.TranscriptionRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var rows []data.TranscriptionRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// WriteTopicCSV schreibt die Themen-Zuordnung als CSV-Report.
func WriteTopicCSV(path string, rows []data.TopicRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&rows, f)
}

// ReadRawCSV liest Kopfzeile und Datenzeilen einer hochgeladenen CSV-Datei.
// Die Spalten sind hier nicht fest vorgegeben, deshalb bleiben es rohe Zellen.
func ReadRawCSV(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[0], all[1:], nil
}
