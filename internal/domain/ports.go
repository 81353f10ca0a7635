package domain

import "context"

// LessonService is the remote contract the app talks to: login, list and
// create. Implementations are the HTTP client and the in-process service.
type LessonService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	GetLessons(ctx context.Context) ([]Lesson, error)
	CreateLesson(ctx context.Context, req CreateLessonRequest) (*Lesson, error)
}

// LessonRepository persists lessons. Implementations can be in-memory,
// SQLite or Postgres.
type LessonRepository interface {
	ListLessons(ctx context.Context) ([]Lesson, error)
	GetLesson(ctx context.Context, id string) (*Lesson, error)
	SaveLesson(ctx context.Context, lesson *Lesson) error
	CountLessons(ctx context.Context) (int, error)
}

// UserRepository persists accounts.
type UserRepository interface {
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	SaveUser(ctx context.Context, user *User) error
}

// StepGenerator writes the step texts for a new lesson. Implementations can
// be LLM-backed or simulated.
type StepGenerator interface {
	GenerateSteps(ctx context.Context, req CreateLessonRequest) ([]string, error)
}

// Illustrator produces an image for one step and returns its public path.
type Illustrator interface {
	Illustrate(ctx context.Context, lessonID string, step int, prompt string) (string, error)
}
