package model

import "time"

// Question is a single multiple-choice item inside a quiz. The Answer field
// is the correct-answer key and must never leave the server on attend paths.
type Question struct {
	QuestionID     string   `json:"question_id"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	Answer         []string `json:"answer"`
	Mark           float64  `json:"mark"`
	NegativeMark   float64  `json:"negative_mark"`
	MultipleAnswer bool     `json:"multiple_answer"`
}

// Quiz is a named set of questions with scoring and attempt configuration,
// owned by the user who created it.
type Quiz struct {
	QuizID            string     `json:"quiz_id"`
	QuizName          string     `json:"quiz_name"`
	QuizDescription   []string   `json:"quiz_description"`
	CreatedByEmailID  string     `json:"created_by_email_id"`
	CreatedByUserName string     `json:"created_by_user_name"`
	Active            bool       `json:"active"`
	Protected         bool       `json:"protected"`
	ShowAnswer        bool       `json:"show_answer"`
	TimeLimitSec      int        `json:"time_limit_sec"`
	MaxAttempts       int        `json:"max_attempts"`
	NegativeMarking   bool       `json:"negative_marking"`
	ShuffleQuestions  bool       `json:"shuffle_questions"`
	ShuffleOptions    bool       `json:"shuffle_options"`
	Questions         []Question `json:"questions"`
	MaxScore          float64    `json:"max_score"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ComputeMaxScore sums the marks of all questions. Must be called whenever
// the question set changes so the stored MaxScore stays in sync.
func ComputeMaxScore(questions []Question) float64 {
	var total float64
	for _, q := range questions {
		total += q.Mark
	}
	return total
}

// QuestionForAttending is a question with the answer key stripped,
// sent to users taking the quiz.
type QuestionForAttending struct {
	QuestionID     string   `json:"question_id"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	Mark           float64  `json:"mark"`
	NegativeMark   float64  `json:"negative_mark"`
	MultipleAnswer bool     `json:"multiple_answer"`
}

// QuizForAttending is the attend-time payload: quiz metadata plus stripped
// questions. Shuffling is applied per request, after the payload is built.
type QuizForAttending struct {
	QuizID            string                 `json:"quiz_id"`
	QuizName          string                 `json:"quiz_name"`
	QuizDescription   []string               `json:"quiz_description"`
	CreatedByUserName string                 `json:"created_by_user_name"`
	Protected         bool                   `json:"protected"`
	TimeLimitSec      int                    `json:"time_limit_sec"`
	MaxAttempts       int                    `json:"max_attempts"`
	NegativeMarking   bool                   `json:"negative_marking"`
	ShuffleQuestions  bool                   `json:"shuffle_questions"`
	ShuffleOptions    bool                   `json:"shuffle_options"`
	Questions         []QuestionForAttending `json:"questions"`
	MaxScore          float64                `json:"max_score"`
}

// CreateQuestionRequest is one question in a quiz create/edit payload.
type CreateQuestionRequest struct {
	Question       string   `json:"question" binding:"required,max=200"`
	Options        []string `json:"options" binding:"required,min=2,max=10,dive,required,max=200"`
	Answer         []string `json:"answer" binding:"required,min=1,max=10,dive,required,max=200"`
	Mark           float64  `json:"mark" binding:"required,min=1,max=10"`
	NegativeMark   float64  `json:"negative_mark" binding:"min=0,max=10"`
	MultipleAnswer bool     `json:"multiple_answer"`
}

// CreateQuizRequest is the payload for creating a new quiz.
type CreateQuizRequest struct {
	QuizName         string                  `json:"quiz_name" binding:"required,min=1,max=100"`
	Active           bool                    `json:"active"`
	Protected        bool                    `json:"protected"`
	ShowAnswer       bool                    `json:"show_answer"`
	TimeLimitSec     int                     `json:"time_limit_sec" binding:"min=0,max=86400"`
	MaxAttempts      int                     `json:"max_attempts" binding:"required,min=1,max=5"`
	NegativeMarking  bool                    `json:"negative_marking"`
	ShuffleQuestions bool                    `json:"shuffle_questions"`
	ShuffleOptions   bool                    `json:"shuffle_options"`
	Questions        []CreateQuestionRequest `json:"questions" binding:"required,min=1,max=100,dive"`
}

// EditQuizOptionsRequest edits fields that do not affect scoring. Nil fields
// are left unchanged. These edits propagate to the denormalized copies on
// attended-quiz records but never touch attempt history.
type EditQuizOptionsRequest struct {
	QuizName         *string `json:"quiz_name" binding:"omitempty,min=1,max=100"`
	Active           *bool   `json:"active"`
	Protected        *bool   `json:"protected"`
	ShowAnswer       *bool   `json:"show_answer"`
	TimeLimitSec     *int    `json:"time_limit_sec" binding:"omitempty,min=0,max=86400"`
	ShuffleQuestions *bool   `json:"shuffle_questions"`
	ShuffleOptions   *bool   `json:"shuffle_options"`
}

// EditQuizQuestionsRequest edits fields that affect scoring. Applying it
// invalidates every attended-quiz record for the quiz.
type EditQuizQuestionsRequest struct {
	Questions       []CreateQuestionRequest `json:"questions" binding:"required,min=1,max=100,dive"`
	NegativeMarking *bool                   `json:"negative_marking"`
	MaxAttempts     *int                    `json:"max_attempts" binding:"omitempty,min=1,max=5"`
}
