package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/studypilot/internal/database"
	"github.com/example/studypilot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// Topic sheet columns: id, title, subtopics (semicolon-separated),
// difficulty, exam weight.
// Quiz sheet columns: quiz id, quiz title, quiz difficulty, duration
// minutes, question text, options a-d, correct key, explanation, topic id.

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath   string // Path to the Excel or CSV file
	TopicSheet string // Sheet with the topic catalog
	QuizSheet  string // Sheet with the quiz bank
	StartRow   int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TopicSheet: "Topics",
		QuizSheet:  "Quizzes",
		StartRow:   2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TopicsImported  int
	QuizzesImported int
	TotalProcessed  int
	Errors          []string
}

// ImportCatalog imports the topic catalog and quiz bank from an Excel file,
// or topics only from a CSV file.
func ImportCatalog(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return importTopicsFromCSV(config)
	}
	return importFromExcel(config)
}

// importFromExcel imports topics and quizzes from an Excel workbook
func importFromExcel(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	topicRepo := database.NewTopicRepository()
	quizRepo := database.NewQuizRepository()

	result := &ImportResult{
		Errors: make([]string, 0),
	}

	rows, err := f.GetRows(config.TopicSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get topic rows: %v", err)
	}
	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++
		if err := importTopicRow(row, topicRepo, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Topics row %d: %v", i+1, err))
		}
	}

	// The quiz sheet is optional; a workbook may carry topics only
	quizRows, err := f.GetRows(config.QuizSheet)
	if err == nil {
		if err := importQuizRows(quizRows, config.StartRow, quizRepo, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// importTopicRow imports one topic catalog row
func importTopicRow(row []string, topicRepo *database.TopicRepository, result *ImportResult) error {
	if len(row) < 2 {
		return fmt.Errorf("expected at least id and title columns, got %d", len(row))
	}

	topic := models.Topic{
		ID:         strings.TrimSpace(row[0]),
		Title:      strings.TrimSpace(row[1]),
		Difficulty: models.DifficultyBeginner,
		ExamWeight: 1.0,
	}
	if topic.ID == "" || topic.Title == "" {
		return fmt.Errorf("empty topic id or title")
	}

	if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
		for _, sub := range strings.Split(row[2], ";") {
			if sub = strings.TrimSpace(sub); sub != "" {
				topic.Subtopics = append(topic.Subtopics, sub)
			}
		}
	}
	if len(row) > 3 && strings.TrimSpace(row[3]) != "" {
		topic.Difficulty = models.Difficulty(strings.TrimSpace(row[3]))
	}
	if len(row) > 4 && strings.TrimSpace(row[4]) != "" {
		weight, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
		if err != nil {
			return fmt.Errorf("invalid exam weight %q: %v", row[4], err)
		}
		topic.ExamWeight = weight
	}

	if err := topicRepo.Upsert(&topic); err != nil {
		return err
	}
	result.TopicsImported++
	return nil
}

// importQuizRows groups question rows by quiz id and imports each quiz with
// its questions in sheet order.
func importQuizRows(rows [][]string, startRow int, quizRepo *database.QuizRepository, result *ImportResult) error {
	quizzes := make(map[string]*models.QuizDefinition)
	order := make([]string, 0)

	for i, row := range rows {
		if i < startRow-1 {
			continue
		}
		result.TotalProcessed++

		if len(row) < 11 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Quizzes row %d: expected 11 columns, got %d", i+1, len(row)))
			continue
		}

		quizID := strings.TrimSpace(row[0])
		if quizID == "" {
			continue
		}

		quiz, ok := quizzes[quizID]
		if !ok {
			duration := 15
			if v := strings.TrimSpace(row[3]); v != "" {
				if d, err := strconv.Atoi(v); err == nil && d > 0 {
					duration = d
				}
			}
			quiz = &models.QuizDefinition{
				ID:              quizID,
				Title:           strings.TrimSpace(row[1]),
				Difficulty:      models.Difficulty(strings.TrimSpace(row[2])),
				DurationMinutes: duration,
			}
			quizzes[quizID] = quiz
			order = append(order, quizID)
		}

		quiz.Questions = append(quiz.Questions, models.QuizQuestion{
			Text: strings.TrimSpace(row[4]),
			Options: map[string]string{
				"a": strings.TrimSpace(row[5]),
				"b": strings.TrimSpace(row[6]),
				"c": strings.TrimSpace(row[7]),
				"d": strings.TrimSpace(row[8]),
			},
			CorrectKey:  strings.ToLower(strings.TrimSpace(row[9])),
			TopicID:     strings.TrimSpace(row[10]),
			Explanation: explanationColumn(row),
		})
	}

	for _, quizID := range order {
		if err := quizRepo.Upsert(quizzes[quizID]); err != nil {
			return fmt.Errorf("failed to import quiz %q: %v", quizID, err)
		}
		result.QuizzesImported++
	}
	return nil
}

// explanationColumn reads the optional trailing explanation column
func explanationColumn(row []string) string {
	if len(row) > 11 {
		return strings.TrimSpace(row[11])
	}
	return ""
}

// importTopicsFromCSV imports the topic catalog from a CSV file
func importTopicsFromCSV(config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	topicRepo := database.NewTopicRepository()
	result := &ImportResult{
		Errors: make([]string, 0),
	}

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}

		rowNum++
		if rowNum < config.StartRow {
			continue
		}

		result.TotalProcessed++
		if err := importTopicRow(row, topicRepo, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return result, nil
}
