package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key holding a user's active login session.
func (r *CacheKeyStruct) UserSessionKey(emailID string) string {
	return fmt.Sprintf("login:%s", emailID)
}

// QuizAttendPayloadKey returns the cache key for a quiz's attend payload
// (answer key stripped).
func (r *CacheKeyStruct) QuizAttendPayloadKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:attend_payload", quizID)
}

// QuizResultsChannel returns the Redis PubSub channel carrying live
// submission results for a quiz.
func (r *CacheKeyStruct) QuizResultsChannel(quizID string) string {
	return fmt.Sprintf("quiz:%s:results", quizID)
}

var CacheKey = NewCacheKeyStruct()
