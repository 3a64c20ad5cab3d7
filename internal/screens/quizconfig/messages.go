package quizconfig

import "github.com/hakim/lernix/internal/quiz"

// quizReadyMsg is sent when quiz generation settles.
type quizReadyMsg struct {
	Quiz *quiz.Quiz
	Err  error
}
