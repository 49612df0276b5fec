package quiz

import (
	"fmt"
	"testing"
	"time"

	"github.com/example/studypilot/internal/mastery"
	"github.com/example/studypilot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog serves quiz definitions from a map
type fakeCatalog struct {
	quizzes map[string]*models.QuizDefinition
}

func (c *fakeCatalog) GetByID(quizID string) (*models.QuizDefinition, error) {
	quiz, ok := c.quizzes[quizID]
	if !ok {
		return nil, fmt.Errorf("quiz %q: %w", quizID, models.ErrQuizNotFound)
	}
	return quiz, nil
}

// recordingReviewer captures review outcomes without a mastery store
type recordingReviewer struct {
	calls []reviewCall
}

type reviewCall struct {
	topicID    string
	wasCorrect bool
}

func (r *recordingReviewer) RecordReview(topicID string, wasCorrect bool, now time.Time) (*models.MasteryRecord, error) {
	r.calls = append(r.calls, reviewCall{topicID, wasCorrect})
	return &models.MasteryRecord{TopicID: topicID}, nil
}

// memoryRepo backs a real mastery store for end-to-end scenarios
type memoryRepo struct {
	records map[string]models.MasteryRecord
}

func (m *memoryRepo) GetByTopic(topicID string) (*models.MasteryRecord, error) {
	record, ok := m.records[topicID]
	if !ok {
		return nil, nil
	}
	copied := record
	return &copied, nil
}

func (m *memoryRepo) GetAll() ([]models.MasteryRecord, error) { return nil, nil }

func (m *memoryRepo) Upsert(record *models.MasteryRecord) error {
	m.records[record.TopicID] = *record
	return nil
}

func question(topicID, correctKey string) models.QuizQuestion {
	return models.QuizQuestion{
		Text:       "sample question",
		Options:    map[string]string{"a": "A", "b": "B", "c": "C", "d": "D"},
		CorrectKey: correctKey,
		TopicID:    topicID,
	}
}

func catalogWith(quiz *models.QuizDefinition) *fakeCatalog {
	return &fakeCatalog{quizzes: map[string]*models.QuizDefinition{quiz.ID: quiz}}
}

var testNow = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

func TestStartUnknownQuiz(t *testing.T) {
	engine := New(&fakeCatalog{quizzes: map[string]*models.QuizDefinition{}}, &recordingReviewer{})

	_, err := engine.Start("missing", testNow)
	assert.ErrorIs(t, err, models.ErrQuizNotFound)
}

func TestStartCreatesFreshAttempt(t *testing.T) {
	quiz := &models.QuizDefinition{
		ID:        "ds",
		Title:     "Data Structures Fundamentals",
		Questions: []models.QuizQuestion{question("arrays", "a"), question("arrays", "b")},
	}
	engine := New(catalogWith(quiz), &recordingReviewer{})

	attempt, err := engine.Start("ds", testNow)
	require.NoError(t, err)
	assert.NotEmpty(t, attempt.ID)
	assert.Equal(t, models.AttemptInProgress, attempt.Status)
	assert.Empty(t, attempt.Answers)
	assert.Equal(t, 2, attempt.TotalQuestions)
	assert.Equal(t, testNow, attempt.StartedAt)
}

func TestSubmitAnswerValidation(t *testing.T) {
	quiz := &models.QuizDefinition{
		ID:        "ds",
		Questions: []models.QuizQuestion{question("arrays", "a"), question("arrays", "b")},
	}
	engine := New(catalogWith(quiz), &recordingReviewer{})
	attempt, err := engine.Start("ds", testNow)
	require.NoError(t, err)

	assert.ErrorIs(t, engine.SubmitAnswer(attempt, -1, "a"), models.ErrInvalidIndex)
	assert.ErrorIs(t, engine.SubmitAnswer(attempt, 2, "a"), models.ErrInvalidIndex)

	// Resubmitting an index overwrites the prior answer
	require.NoError(t, engine.SubmitAnswer(attempt, 0, "c"))
	require.NoError(t, engine.SubmitAnswer(attempt, 0, "a"))
	assert.Equal(t, "a", attempt.Answers[0])

	_, err = engine.Finish(attempt, testNow)
	require.NoError(t, err)
	assert.ErrorIs(t, engine.SubmitAnswer(attempt, 0, "b"), models.ErrInvalidState)
}

func TestNavigationClampsAtBounds(t *testing.T) {
	quiz := &models.QuizDefinition{
		ID: "ds",
		Questions: []models.QuizQuestion{
			question("arrays", "a"), question("arrays", "b"), question("arrays", "c"),
		},
	}
	engine := New(catalogWith(quiz), &recordingReviewer{})
	attempt, err := engine.Start("ds", testNow)
	require.NoError(t, err)

	assert.Equal(t, 0, engine.Prev(attempt)) // already at first question
	assert.Equal(t, 1, engine.Next(attempt))
	assert.Equal(t, 2, engine.Next(attempt))
	assert.Equal(t, 2, engine.Next(attempt)) // clamped at last question
	assert.Equal(t, 1, engine.Prev(attempt))
}

func TestFinishScoresUnansweredAsIncorrect(t *testing.T) {
	quiz := &models.QuizDefinition{
		ID: "ds",
		Questions: []models.QuizQuestion{
			question("arrays", "a"), question("arrays", "b"), question("arrays", "c"),
		},
	}
	engine := New(catalogWith(quiz), &recordingReviewer{})
	attempt, err := engine.Start("ds", testNow)
	require.NoError(t, err)

	require.NoError(t, engine.SubmitAnswer(attempt, 0, "a")) // correct
	require.NoError(t, engine.SubmitAnswer(attempt, 1, "d")) // wrong
	// question 2 left unanswered

	finished, err := engine.Finish(attempt, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1, finished.Score)
	assert.Equal(t, models.AttemptCompleted, finished.Status)
	require.NotNil(t, finished.CompletedAt)
	assert.Equal(t, testNow, *finished.CompletedAt)

	require.Len(t, finished.Results, 3)
	assert.True(t, finished.Results[0].Correct)
	assert.False(t, finished.Results[1].Correct)
	assert.False(t, finished.Results[2].Correct)
	assert.Equal(t, "", finished.Results[2].Selected)
	assert.Equal(t, "c", finished.Results[2].CorrectKey)
}

func TestFinishTwiceFails(t *testing.T) {
	quiz := &models.QuizDefinition{
		ID:        "ds",
		Questions: []models.QuizQuestion{question("arrays", "a")},
	}
	reviewer := &recordingReviewer{}
	engine := New(catalogWith(quiz), reviewer)
	attempt, err := engine.Start("ds", testNow)
	require.NoError(t, err)
	require.NoError(t, engine.SubmitAnswer(attempt, 0, "a"))

	finished, err := engine.Finish(attempt, testNow)
	require.NoError(t, err)
	score := finished.Score

	_, err = engine.Finish(attempt, testNow)
	assert.ErrorIs(t, err, models.ErrInvalidState)
	assert.Equal(t, score, attempt.Score, "second finish must not change the score")
	assert.Len(t, reviewer.calls, 1, "second finish must not re-commit reviews")
}

func TestMajorityVotePerTopic(t *testing.T) {
	tests := []struct {
		name        string
		questions   []models.QuizQuestion
		answers     map[int]string
		wantOutcome map[string]bool
	}{
		{
			name: "tie counts as incorrect",
			questions: []models.QuizQuestion{
				question("graphs", "a"), question("graphs", "b"),
			},
			answers:     map[int]string{0: "a", 1: "c"},
			wantOutcome: map[string]bool{"graphs": false},
		},
		{
			name: "two of three is correct",
			questions: []models.QuizQuestion{
				question("trees", "a"), question("trees", "b"), question("trees", "c"),
			},
			answers:     map[int]string{0: "a", 1: "b", 2: "d"},
			wantOutcome: map[string]bool{"trees": true},
		},
		{
			name: "topics judged independently",
			questions: []models.QuizQuestion{
				question("stacks", "a"), question("queues", "b"),
			},
			answers:     map[int]string{0: "a"},
			wantOutcome: map[string]bool{"stacks": true, "queues": false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiz := &models.QuizDefinition{ID: "q", Questions: tt.questions}
			reviewer := &recordingReviewer{}
			engine := New(catalogWith(quiz), reviewer)

			attempt, err := engine.Start("q", testNow)
			require.NoError(t, err)
			for idx, key := range tt.answers {
				require.NoError(t, engine.SubmitAnswer(attempt, idx, key))
			}
			_, err = engine.Finish(attempt, testNow)
			require.NoError(t, err)

			got := make(map[string]bool)
			for _, call := range reviewer.calls {
				got[call.topicID] = call.wasCorrect
			}
			assert.Equal(t, tt.wantOutcome, got)
		})
	}
}

func TestAbandonedAttemptHasNoSideEffects(t *testing.T) {
	quiz := &models.QuizDefinition{
		ID:        "ds",
		Questions: []models.QuizQuestion{question("arrays", "a")},
	}
	reviewer := &recordingReviewer{}
	engine := New(catalogWith(quiz), reviewer)

	attempt, err := engine.Start("ds", testNow)
	require.NoError(t, err)
	require.NoError(t, engine.SubmitAnswer(attempt, 0, "a"))
	// Walk away without finishing

	assert.Empty(t, reviewer.calls)
}

func TestRestartDiscardsPriorAttempt(t *testing.T) {
	quiz := &models.QuizDefinition{
		ID:        "ds",
		Questions: []models.QuizQuestion{question("arrays", "a")},
	}
	reviewer := &recordingReviewer{}
	engine := New(catalogWith(quiz), reviewer)

	first, err := engine.Start("ds", testNow)
	require.NoError(t, err)
	second, err := engine.Start("ds", testNow.Add(time.Minute))
	require.NoError(t, err)

	// The discarded attempt can no longer be scored
	_, err = engine.Finish(first, testNow.Add(2*time.Minute))
	assert.ErrorIs(t, err, models.ErrInvalidState)
	assert.Empty(t, reviewer.calls)

	_, err = engine.Finish(second, testNow.Add(3*time.Minute))
	require.NoError(t, err)
	assert.Len(t, reviewer.calls, 1)
}

// Scenario from the product design: a fresh topic answered 8/10 lands at
// confidence 65, stage 1, next review in 3 days.
func TestEightOfTenUpdatesMastery(t *testing.T) {
	questions := make([]models.QuizQuestion, 10)
	for i := range questions {
		questions[i] = question("arrays", "a")
	}
	quiz := &models.QuizDefinition{ID: "ds", Questions: questions}

	store := mastery.New(&memoryRepo{records: make(map[string]models.MasteryRecord)})
	engine := New(catalogWith(quiz), store)

	attempt, err := engine.Start("ds", testNow)
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		require.NoError(t, engine.SubmitAnswer(attempt, i, "a"))
	}
	require.NoError(t, engine.SubmitAnswer(attempt, 8, "b"))
	// question 9 unanswered

	finished, err := engine.Finish(attempt, testNow)
	require.NoError(t, err)
	assert.Equal(t, 8, finished.Score)

	record, err := store.Get("arrays")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 65, record.Confidence)
	assert.Equal(t, 1, record.CycleStage)
	assert.Equal(t, testNow.AddDate(0, 0, 3), *record.NextReviewAt)
}
