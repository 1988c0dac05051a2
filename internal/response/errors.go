package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Users ─────────────────────────────────────────────────────────
	ErrEmailExists    ErrCode = "EMAIL_ALREADY_EXISTS"
	ErrUserNameExists ErrCode = "USERNAME_ALREADY_EXISTS"
	ErrUserNotFound   ErrCode = "USER_NOT_FOUND"
	ErrUserMismatch   ErrCode = "USER_MISMATCH"

	// ─── Quizzes ───────────────────────────────────────────────────────
	ErrQuizNotFound         ErrCode = "QUIZ_NOT_FOUND"
	ErrAttendedQuizNotFound ErrCode = "ATTENDED_QUIZ_NOT_FOUND"
	ErrQuizNotActive        ErrCode = "QUIZ_NOT_ACTIVE"
	ErrAnswerSetMismatch    ErrCode = "ANSWER_SET_MISMATCH"
	ErrUnknownQuestionID    ErrCode = "UNKNOWN_QUESTION_ID"
	ErrAttemptsExhausted    ErrCode = "ATTEMPTS_EXHAUSTED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid credentials."
	case ErrTokenRequired:
		return "An authentication cookie is required."
	case ErrTokenInvalid:
		return "Unauthorized request made to API without a valid access token."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "The request payload is invalid."

	// ─── Users ─────────────────────────────────────────────────────────
	case ErrEmailExists:
		return "Provided email ID already exists."
	case ErrUserNameExists:
		return "Provided user name already exists."
	case ErrUserNotFound:
		return "No user found for the given email ID."
	case ErrUserMismatch:
		return "The acting user does not match the record's owner."

	// ─── Quizzes ───────────────────────────────────────────────────────
	case ErrQuizNotFound:
		return "No quiz found with the given quiz ID."
	case ErrAttendedQuizNotFound:
		return "No attended quiz found for the given quiz ID and user."
	case ErrQuizNotActive:
		return "This quiz is not accepting submissions right now."
	case ErrAnswerSetMismatch:
		return "The number of submitted answers does not match the quiz."
	case ErrUnknownQuestionID:
		return "A submitted answer references an unknown question. The quiz may have been edited."
	case ErrAttemptsExhausted:
		return "No attempts left for this quiz."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
