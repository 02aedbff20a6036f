package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skrblv/bilimGO/internal/logger"
	"github.com/skrblv/bilimGO/internal/repos"
	"github.com/skrblv/bilimGO/internal/types"
)

type TestingService interface {
	GetTestForCourse(ctx context.Context, courseID uuid.UUID) (*TestInfo, error)
	StartSession(ctx context.Context, userID, courseID uuid.UUID) (*TestSession, error)
	SubmitSession(ctx context.Context, userID, attemptID uuid.UUID, answers map[uuid.UUID]string) (*TestResult, error)
}

type TestInfo struct {
	ID                     uuid.UUID `json:"id"`
	Title                  string    `json:"title"`
	Description            string    `json:"description"`
	NumberOfQuestions      int       `json:"number_of_questions"`
	PassingScore           int       `json:"passing_score"`
	RequiredCorrectAnswers int       `json:"required_correct_answers"`
}

type TestSession struct {
	AttemptID uuid.UUID             `json:"attempt_id"`
	Questions []*types.QuestionBank `json:"questions"`
	StartTime time.Time             `json:"start_time"`
}

type TestResult struct {
	Score          int  `json:"score"`
	IsPassed       bool `json:"is_passed"`
	CorrectAnswers int  `json:"correct_answers"`
	TotalQuestions int  `json:"total_questions"`
}

// sessionState is what an attempt persists: the pinned question set at
// start, the submitted answers after grading.
type sessionState struct {
	Questions []uuid.UUID          `json:"questions"`
	Answers   map[uuid.UUID]string `json:"answers,omitempty"`
}

type testingService struct {
	db           *gorm.DB
	log          *logger.Logger
	testRepo     repos.CertificationTestRepo
	questionRepo repos.QuestionBankRepo
	attemptRepo  repos.TestAttemptRepo
	now          func() time.Time
}

func NewTestingService(
	db *gorm.DB,
	baseLog *logger.Logger,
	testRepo repos.CertificationTestRepo,
	questionRepo repos.QuestionBankRepo,
	attemptRepo repos.TestAttemptRepo,
) TestingService {
	serviceLog := baseLog.With("service", "TestingService")
	return &testingService{
		db:           db,
		log:          serviceLog,
		testRepo:     testRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		now:          time.Now,
	}
}

func requiredCorrect(numberOfQuestions, passingScore int) int {
	return int(math.Ceil(float64(numberOfQuestions) * float64(passingScore) / 100))
}

// Bank questions of every type, code included, grade as trimmed
// case-insensitive text against the stored answer.
func answerMatches(correctAnswer, userAnswer string) bool {
	return strings.EqualFold(strings.TrimSpace(correctAnswer), strings.TrimSpace(userAnswer))
}

func (ts *testingService) GetTestForCourse(ctx context.Context, courseID uuid.UUID) (*TestInfo, error) {
	test, err := ts.testRepo.GetByCourseID(ctx, nil, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no certification test for this course", ErrNotFound)
		}
		return nil, err
	}
	return &TestInfo{
		ID:                     test.ID,
		Title:                  test.Title,
		Description:            test.Description,
		NumberOfQuestions:      test.NumberOfQuestions,
		PassingScore:           test.PassingScore,
		RequiredCorrectAnswers: requiredCorrect(test.NumberOfQuestions, test.PassingScore),
	}, nil
}

// StartSession draws a random sample of questions from the course bank
// and opens an attempt. The drawn question IDs are pinned in the attempt
// so the submission is graded against exactly what was served.
func (ts *testingService) StartSession(ctx context.Context, userID, courseID uuid.UUID) (*TestSession, error) {
	test, err := ts.testRepo.GetByCourseID(ctx, nil, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no certification test for this course", ErrNotFound)
		}
		return nil, err
	}

	pool, err := ts.questionRepo.ListByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}
	if len(pool) < test.NumberOfQuestions {
		return nil, fmt.Errorf("%w: question bank has %d questions, test needs %d",
			ErrConflict, len(pool), test.NumberOfQuestions)
	}

	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	drawn := pool[:test.NumberOfQuestions]

	state := sessionState{Questions: make([]uuid.UUID, 0, len(drawn))}
	for _, question := range drawn {
		state.Questions = append(state.Questions, question.ID)
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}

	startTime := ts.now()
	attempt := &types.UserTestAttempt{
		ID:          uuid.New(),
		UserID:      userID,
		TestID:      test.ID,
		StartTime:   startTime,
		SessionData: raw,
	}
	if err := ts.attemptRepo.Create(ctx, nil, attempt); err != nil {
		return nil, err
	}

	ts.log.Info("test session started", "user_id", userID, "test_id", test.ID, "attempt_id", attempt.ID)
	return &TestSession{
		AttemptID: attempt.ID,
		Questions: drawn,
		StartTime: startTime,
	}, nil
}

// SubmitSession grades an open attempt against its pinned question set.
// Unanswered questions count as wrong; answers for questions outside the
// set are ignored. An attempt can be submitted only once.
func (ts *testingService) SubmitSession(ctx context.Context, userID, attemptID uuid.UUID, answers map[uuid.UUID]string) (*TestResult, error) {
	attempt, err := ts.attemptRepo.GetByIDForUser(ctx, nil, attemptID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if attempt.EndTime != nil {
		return nil, fmt.Errorf("%w: attempt already submitted", ErrConflict)
	}

	test, err := ts.testRepo.GetByID(ctx, nil, attempt.TestID)
	if err != nil {
		return nil, err
	}

	var state sessionState
	if err := json.Unmarshal(attempt.SessionData, &state); err != nil {
		return nil, fmt.Errorf("corrupt session data for attempt %s: %w", attempt.ID, err)
	}
	questions, err := ts.questionRepo.GetByIDs(ctx, nil, state.Questions)
	if err != nil {
		return nil, err
	}

	correct := 0
	for _, question := range questions {
		answer, ok := answers[question.ID]
		if !ok {
			continue
		}
		if answerMatches(question.CorrectAnswer, answer) {
			correct++
		}
	}

	total := len(state.Questions)
	score := 0
	if total > 0 {
		score = int(math.Round(float64(correct) / float64(total) * 100))
	}
	passed := score >= test.PassingScore

	state.Answers = answers
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}

	endTime := ts.now()
	attempt.EndTime = &endTime
	attempt.Score = &score
	attempt.IsPassed = passed
	attempt.SessionData = raw
	if err := ts.attemptRepo.Save(ctx, nil, attempt); err != nil {
		return nil, err
	}

	ts.log.Info("test session submitted",
		"user_id", userID, "attempt_id", attemptID, "score", score, "passed", passed)
	return &TestResult{
		Score:          score,
		IsPassed:       passed,
		CorrectAnswers: correct,
		TotalQuestions: total,
	}, nil
}
