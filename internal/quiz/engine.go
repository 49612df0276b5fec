package quiz

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/example/studypilot/pkg/models"
	"github.com/google/uuid"
)

// Catalog supplies immutable quiz definitions from the external content store
type Catalog interface {
	GetByID(quizID string) (*models.QuizDefinition, error)
}

// Reviewer receives review outcomes when an attempt completes. Implemented by
// mastery.Store.
type Reviewer interface {
	RecordReview(topicID string, wasCorrect bool, now time.Time) (*models.MasteryRecord, error)
}

// Archiver persists completed attempts for score history. Optional.
type Archiver interface {
	SaveCompleted(attempt *models.QuizAttempt) error
}

// CompletionListener is notified after an attempt is scored. Optional;
// implemented by the notification dispatcher.
type CompletionListener interface {
	OnQuizCompleted(attempt *models.QuizAttempt, quiz *models.QuizDefinition, now time.Time)
}

// Engine runs quiz attempts from start to scored completion. Only Finish
// commits outcomes to the mastery store; an abandoned attempt has no side
// effects at all.
type Engine struct {
	catalog  Catalog
	reviewer Reviewer
	archive  Archiver
	listener CompletionListener

	mu         sync.Mutex
	inProgress map[string]*models.QuizAttempt // by quiz id; one active attempt per quiz
}

// New creates a quiz engine
func New(catalog Catalog, reviewer Reviewer) *Engine {
	return &Engine{
		catalog:    catalog,
		reviewer:   reviewer,
		inProgress: make(map[string]*models.QuizAttempt),
	}
}

// SetArchiver attaches attempt archival
func (e *Engine) SetArchiver(a Archiver) { e.archive = a }

// SetCompletionListener attaches a completion listener
func (e *Engine) SetCompletionListener(l CompletionListener) { e.listener = l }

// Start creates a fresh attempt for a quiz. A prior in-progress attempt for
// the same quiz is discarded without scoring.
func (e *Engine) Start(quizID string, now time.Time) (*models.QuizAttempt, error) {
	quiz, err := e.catalog.GetByID(quizID)
	if err != nil {
		return nil, err
	}

	attempt := &models.QuizAttempt{
		ID:             uuid.NewString(),
		QuizID:         quiz.ID,
		Answers:        make(map[int]string),
		Status:         models.AttemptInProgress,
		TotalQuestions: len(quiz.Questions),
		StartedAt:      now,
	}

	e.mu.Lock()
	e.inProgress[quiz.ID] = attempt
	e.mu.Unlock()

	return attempt, nil
}

// SubmitAnswer records the selected option for a question. Resubmitting an
// index overwrites the prior answer.
func (e *Engine) SubmitAnswer(attempt *models.QuizAttempt, questionIndex int, optionKey string) error {
	if attempt.Status != models.AttemptInProgress {
		return fmt.Errorf("attempt %s: %w", attempt.ID, models.ErrInvalidState)
	}
	if questionIndex < 0 || questionIndex >= attempt.TotalQuestions {
		return fmt.Errorf("question %d of %d: %w", questionIndex, attempt.TotalQuestions, models.ErrInvalidIndex)
	}
	attempt.Answers[questionIndex] = optionKey
	return nil
}

// Next moves the cursor forward, clamped at the last question
func (e *Engine) Next(attempt *models.QuizAttempt) int {
	if attempt.Cursor < attempt.TotalQuestions-1 {
		attempt.Cursor++
	}
	return attempt.Cursor
}

// Prev moves the cursor backward, clamped at the first question
func (e *Engine) Prev(attempt *models.QuizAttempt) int {
	if attempt.Cursor > 0 {
		attempt.Cursor--
	}
	return attempt.Cursor
}

// Finish scores the attempt and commits one review outcome per covered
// topic. Unanswered questions count as incorrect. A topic spanning several
// questions is credited by majority vote, with ties counting as incorrect.
func (e *Engine) Finish(attempt *models.QuizAttempt, now time.Time) (*models.QuizAttempt, error) {
	if attempt.Status != models.AttemptInProgress {
		return nil, fmt.Errorf("attempt %s: %w", attempt.ID, models.ErrInvalidState)
	}

	// An attempt superseded by a newer Start for the same quiz was discarded
	// and must never be scored
	e.mu.Lock()
	current := e.inProgress[attempt.QuizID]
	e.mu.Unlock()
	if current != attempt {
		return nil, fmt.Errorf("attempt %s was discarded: %w", attempt.ID, models.ErrInvalidState)
	}

	quiz, err := e.catalog.GetByID(attempt.QuizID)
	if err != nil {
		return nil, err
	}

	type topicTally struct {
		correct int
		total   int
	}
	tallies := make(map[string]*topicTally)

	score := 0
	results := make([]models.QuestionResult, 0, len(quiz.Questions))
	for i, question := range quiz.Questions {
		selected := attempt.Answers[i]
		correct := selected != "" && selected == question.CorrectKey
		if correct {
			score++
		}
		results = append(results, models.QuestionResult{
			Index:       i,
			Selected:    selected,
			CorrectKey:  question.CorrectKey,
			Correct:     correct,
			Explanation: question.Explanation,
		})

		if question.TopicID == "" {
			continue
		}
		tally, ok := tallies[question.TopicID]
		if !ok {
			tally = &topicTally{}
			tallies[question.TopicID] = tally
		}
		tally.total++
		if correct {
			tally.correct++
		}
	}

	completed := now
	attempt.Score = score
	attempt.Results = results
	attempt.Status = models.AttemptCompleted
	attempt.CompletedAt = &completed

	e.mu.Lock()
	if e.inProgress[attempt.QuizID] == attempt {
		delete(e.inProgress, attempt.QuizID)
	}
	e.mu.Unlock()

	// Commit review outcomes in a stable order so concurrent completions
	// interact with the per-topic locks deterministically
	topicIDs := make([]string, 0, len(tallies))
	for topicID := range tallies {
		topicIDs = append(topicIDs, topicID)
	}
	sort.Strings(topicIDs)
	for _, topicID := range topicIDs {
		tally := tallies[topicID]
		wasCorrect := tally.correct*2 > tally.total
		if _, err := e.reviewer.RecordReview(topicID, wasCorrect, now); err != nil {
			return nil, fmt.Errorf("failed to record review for %q: %v", topicID, err)
		}
	}

	if e.archive != nil {
		if err := e.archive.SaveCompleted(attempt); err != nil {
			// Archival is history-keeping, not scoring; don't fail the attempt
			log.Printf("Error archiving attempt %s: %v", attempt.ID, err)
		}
	}
	if e.listener != nil {
		e.listener.OnQuizCompleted(attempt, quiz, now)
	}

	return attempt, nil
}
