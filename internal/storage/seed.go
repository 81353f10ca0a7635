package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/logger"
)

// SeedLessons fills an empty repository with the sample catalog. It
// returns the number of lessons written; a non-empty repository is left
// alone.
func SeedLessons(ctx context.Context, repo domain.LessonRepository, log *logger.Logger) (int, error) {
	n, err := repo.CountLessons(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting lessons: %w", err)
	}
	if n > 0 {
		log.Debug("repository holds %d lessons, skipping seed", n)
		return 0, nil
	}

	samples := SampleLessons()
	for i := range samples {
		if err := repo.SaveLesson(ctx, &samples[i]); err != nil {
			return i, fmt.Errorf("seeding lesson %s: %w", samples[i].ID, err)
		}
	}
	log.Info("seeded %d sample lessons", len(samples))
	return len(samples), nil
}

// SampleLessons returns the built-in catalog, newest first.
func SampleLessons() []domain.Lesson {
	base := time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)
	return []domain.Lesson{
		introToMathematics(base.Add(2 * time.Hour)),
		biologyFundamentals(base.Add(time.Hour)),
		creativeWriting(base),
	}
}

func introToMathematics(at time.Time) domain.Lesson {
	return domain.Lesson{
		ID:          "intro-mathematics",
		Name:        "Introduction to Mathematics",
		Description: "The building blocks: symbols, shapes, numbers and parts of a whole.",
		Level:       "middle school",
		Topic:       "Mathematics",
		CreatedAt:   at,
		Steps: []domain.Step{
			{
				Number:      1,
				Description: "Step 1. Algebra uses symbols and letters to represent numbers and quantities in formulas and equations. It helps us solve problems by finding unknown values.",
				ImagePath:   "/images/mathematical-equations-and-formulas.jpg",
			},
			{
				Number:      2,
				Description: "Step 2. Geometry studies shapes, sizes and the properties of figures. Circles, triangles, squares and rectangles each have their own formulas for area and perimeter.",
				ImagePath:   "/images/geometric-shapes-and-patterns.jpg",
			},
			{
				Number:      3,
				Description: "Step 3. Positive numbers, negative numbers and zero represent quantities. The number line helps us compare values.",
				ImagePath:   "/images/number-line-and-integers.jpg",
			},
			{
				Number:      4,
				Description: "Step 4. Fractions represent parts of a whole: a numerator on top and a denominator below.",
				ImagePath:   "/images/fraction-diagrams-and-pie-charts.jpg",
			},
		},
	}
}

func biologyFundamentals(at time.Time) domain.Lesson {
	return domain.Lesson{
		ID:          "biology-fundamentals",
		Name:        "Biology Fundamentals",
		Description: "Cells, energy and how living things grow.",
		Level:       "high school",
		Topic:       "Science",
		CreatedAt:   at,
		Steps: []domain.Step{
			{Number: 1, Description: "Step 1. Every living thing is made of cells, the smallest unit of life."},
			{Number: 2, Description: "Step 2. Plants turn sunlight, water and carbon dioxide into sugar through photosynthesis."},
			{Number: 3, Description: "Step 3. Cells divide to let an organism grow and repair itself."},
		},
	}
}

func creativeWriting(at time.Time) domain.Lesson {
	return domain.Lesson{
		ID:          "creative-writing",
		Name:        "Creative Writing Workshop",
		Description: "Plan, draft and revise a short story.",
		Level:       "middle school",
		Topic:       "Language Arts",
		CreatedAt:   at,
		Steps: []domain.Step{
			{Number: 1, Description: "Step 1. Pick a character and give them something they want."},
			{Number: 2, Description: "Step 2. Put an obstacle between the character and their goal."},
			{Number: 3, Description: "Step 3. Write the ending, then read it aloud and cut every word you do not need."},
		},
	}
}
