package model

import "time"

// SubmittedAnswer is one answer in a quiz submission. An empty ChosenAnswer
// means the question was not attempted.
type SubmittedAnswer struct {
	QuestionID   string   `json:"question_id"`
	ChosenAnswer []string `json:"chosen_answer"`
}

// AnsweredQuestion is the scored form of a submitted answer: the question is
// echoed in full alongside what was chosen and how it was judged.
type AnsweredQuestion struct {
	QuestionID     string   `json:"question_id"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	Answer         []string `json:"answer"`
	ChosenAnswer   []string `json:"chosen_answer"`
	Mark           float64  `json:"mark"`
	NegativeMark   float64  `json:"negative_mark"`
	MultipleAnswer bool     `json:"multiple_answer"`
	Attempted      bool     `json:"attempted"`
	Correct        bool     `json:"correct"`
}

// Attempt is one scored pass over a full submission. Attempts are immutable
// once created; a permitted resubmission appends a new Attempt.
type Attempt struct {
	Answers     []AnsweredQuestion `json:"answers"`
	Score       float64            `json:"score"`
	AttemptedAt time.Time          `json:"attempted_at"`
}

// AttendedQuiz tracks one user's relationship to one quiz: remaining attempt
// quota, attempt history, and a denormalized copy of the quiz metadata
// captured at submission time. Keyed by (QuizID, AttendedByEmailID).
type AttendedQuiz struct {
	ID                 int64     `json:"id"`
	QuizID             string    `json:"quiz_id"`
	QuizName           string    `json:"quiz_name"`
	QuizDescription    []string  `json:"quiz_description"`
	CreatedByEmailID   string    `json:"created_by_email_id"`
	CreatedByUserName  string    `json:"created_by_user_name"`
	ShowAnswer         bool      `json:"show_answer"`
	TimeLimitSec       int       `json:"time_limit_sec"`
	AttendedByEmailID  string    `json:"attended_by_email_id"`
	AttendedByUserName string    `json:"attended_by_user_name"`
	AttemptsLeft       int       `json:"attempts_left"`
	Attempts           []Attempt `json:"attempts"`
	MaxScore           float64   `json:"max_score"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// SubmittedAnswerRequest is one answer in the submit payload.
type SubmittedAnswerRequest struct {
	QuestionID   string   `json:"question_id" binding:"required,max=40"`
	ChosenAnswer []string `json:"chosen_answer" binding:"max=10,dive,max=200"`
}

// SubmitQuizRequest is the payload for submitting a quiz attempt.
type SubmitQuizRequest struct {
	UserName string                   `json:"user_name" binding:"required,min=3,max=20"`
	Answers  []SubmittedAnswerRequest `json:"answers" binding:"max=100,dive"`
}
