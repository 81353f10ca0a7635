package storage

import (
	"context"
	"testing"
	"time"

	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/logger"
)

type repository interface {
	domain.LessonRepository
	domain.UserRepository
}

// repoFactories lets the same behaviour tests run against every repository.
var repoFactories = map[string]func(t *testing.T) repository{
	"memory": func(t *testing.T) repository { return NewMemoryRepository(logger.New(logger.LevelOff, nil)) },
	"sqlite": func(t *testing.T) repository { return newSQLiteRepo(t) },
}

func TestRepositoryLessonCRUD(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	for name, factory := range repoFactories {
		t.Run(name, func(t *testing.T) {
			repo := factory(t)

			older := &domain.Lesson{
				ID: "older", Name: "Older", Topic: "Math", CreatedAt: now.Add(-time.Hour),
				Steps: []domain.Step{
					{Number: 2, Description: "second"},
					{Number: 1, Description: "first", ImagePath: "/images/1.png"},
				},
			}
			newer := &domain.Lesson{ID: "newer", Name: "Newer", CreatedAt: now}

			for _, l := range []*domain.Lesson{older, newer} {
				if err := repo.SaveLesson(ctx, l); err != nil {
					t.Fatalf("save %s: %v", l.ID, err)
				}
			}

			n, err := repo.CountLessons(ctx)
			if err != nil {
				t.Fatalf("count: %v", err)
			}
			if n != 2 {
				t.Fatalf("expected 2 lessons, got %d", n)
			}

			list, err := repo.ListLessons(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(list) != 2 || list[0].ID != "newer" || list[1].ID != "older" {
				t.Fatalf("expected newest first, got %v", list)
			}

			got, err := repo.GetLesson(ctx, "older")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if len(got.Steps) != 2 {
				t.Fatalf("expected 2 steps, got %d", len(got.Steps))
			}
			if name == "sqlite" && got.Steps[0].Number != 1 {
				t.Fatalf("expected steps ordered by number, got %v", got.Steps)
			}

			if _, err := repo.GetLesson(ctx, "missing"); err != domain.ErrNotFound {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestRepositorySaveLessonReplacesSteps(t *testing.T) {
	ctx := context.Background()

	for name, factory := range repoFactories {
		t.Run(name, func(t *testing.T) {
			repo := factory(t)
			l := &domain.Lesson{ID: "l1", Name: "v1", CreatedAt: time.Now(), Steps: []domain.Step{
				{Number: 1, Description: "a"}, {Number: 2, Description: "b"},
			}}
			if err := repo.SaveLesson(ctx, l); err != nil {
				t.Fatalf("save: %v", err)
			}

			l.Name = "v2"
			l.Steps = []domain.Step{{Number: 1, Description: "only"}}
			if err := repo.SaveLesson(ctx, l); err != nil {
				t.Fatalf("resave: %v", err)
			}

			got, err := repo.GetLesson(ctx, "l1")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.Name != "v2" || len(got.Steps) != 1 || got.Steps[0].Description != "only" {
				t.Fatalf("expected replaced lesson, got %+v", got)
			}
		})
	}
}

func TestRepositoryUsers(t *testing.T) {
	ctx := context.Background()

	for name, factory := range repoFactories {
		t.Run(name, func(t *testing.T) {
			repo := factory(t)
			u := &domain.User{ID: "u1", Email: "Teacher@School.edu", PasswordHash: "hash", Role: domain.RoleTeacher}

			if err := repo.SaveUser(ctx, u); err != nil {
				t.Fatalf("save: %v", err)
			}
			if err := repo.SaveUser(ctx, &domain.User{ID: "u2", Email: "teacher@school.edu", PasswordHash: "x"}); err != domain.ErrAlreadyExists {
				t.Fatalf("expected ErrAlreadyExists, got %v", err)
			}

			got, err := repo.FindUserByEmail(ctx, "TEACHER@school.edu")
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if got.ID != "u1" || got.Role != domain.RoleTeacher {
				t.Fatalf("unexpected user %+v", got)
			}

			if _, err := repo.FindUserByEmail(ctx, "nobody@school.edu"); err != domain.ErrNotFound {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestSeedLessonsOnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	log := logger.New(logger.LevelOff, nil)
	repo := NewMemoryRepository(log)

	n, err := SeedLessons(ctx, repo, log)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != len(SampleLessons()) {
		t.Fatalf("expected %d seeded, got %d", len(SampleLessons()), n)
	}

	n, err = SeedLessons(ctx, repo, log)
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no lessons on reseed, got %d", n)
	}

	list, _ := repo.ListLessons(ctx)
	if list[0].ID != "intro-mathematics" {
		t.Fatalf("expected newest sample first, got %s", list[0].ID)
	}
	for _, l := range list {
		if len(l.Steps) == 0 {
			t.Fatalf("sample %s has no steps", l.ID)
		}
	}
}
