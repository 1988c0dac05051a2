package service

import (
	"fmt"

	"github.com/quizapp/quizapp-backend/internal/model"
)

// buildQuizDescription assembles the instruction lines shown to a candidate
// before they start a quiz. The lines depend on the quiz options, so they are
// rebuilt whenever the options change.
func buildQuizDescription(q *model.Quiz) []string {
	lines := []string{
		fmt.Sprintf("This Quiz is created by: %s.", q.CreatedByUserName),
	}
	if q.Protected {
		lines = append(lines,
			"During the quiz, you will not be able to switch to another tab while taking the quiz as it will result in closing(submitting) the quiz, and the quiz interface will be displayed in full-screen mode.")
	}
	if q.TimeLimitSec > 0 {
		lines = append(lines,
			fmt.Sprintf("The quiz has a time limit of %s for completion.", formatTime(q.TimeLimitSec)))
	} else {
		lines = append(lines, "This quiz doesn't have a time limit.")
	}
	lines = append(lines,
		fmt.Sprintf("This quiz allows a maximum of %d attempts.", q.MaxAttempts),
		"The mark awarded for a correct answer will be shown alongside the respective question.")
	if q.NegativeMarking {
		lines = append(lines,
			"The quiz has negative marking for wrong answers.",
			"The negative mark obtained for a wrong answer will be shown alongside the respective question.")
	}
	lines = append(lines,
		"All the questions in this quiz are multiple choice questions.",
		"The options for single correct answers will be displayed in radio buttons.",
		"The options for multiple correct answers will be displayed in checkboxes.")
	return lines
}

// formatTime renders a duration in seconds as hh:mm:ss.
func formatTime(totalSec int) string {
	hours := totalSec / 3600
	minutes := (totalSec % 3600) / 60
	seconds := totalSec % 60
	return fmt.Sprintf("%02d:%02d:%02d[hh:mm:ss]", hours, minutes, seconds)
}
