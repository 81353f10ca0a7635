package storage

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.LessonRepository = (*GormRepository)(nil)
	_ domain.UserRepository   = (*GormRepository)(nil)
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type userRow struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;not null"`
	Name         string
	PasswordHash string `gorm:"not null"`
	Role         int    `gorm:"not null"`
	CreatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

type lessonRow struct {
	ID          string `gorm:"column:lesson_id;primaryKey;size:36"`
	Name        string `gorm:"column:lesson_name;not null"`
	Description string `gorm:"column:lesson_descriptions"`
	Level       string `gorm:"column:lesson_level"`
	Topic       string `gorm:"column:topic"`
	CreatedAt   time.Time
	Steps       []stepRow `gorm:"foreignKey:LessonID;references:ID"`
}

func (lessonRow) TableName() string { return "lessons" }

type stepRow struct {
	ID          uint   `gorm:"primaryKey"`
	LessonID    string `gorm:"column:lesson_id;index;size:36;not null"`
	Number      int    `gorm:"column:step_number;not null"`
	Description string `gorm:"column:step_description"`
	ImagePath   string `gorm:"column:image_path"`
}

func (stepRow) TableName() string { return "steps" }

// OpenDatabase connects to the configured database. The sqlite driver
// takes a file path or ":memory:"; postgres takes a URL or key=value DSN.
func OpenDatabase(driver, dsn string, log *logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case DriverSQLite, "":
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	gormLog := gormLogger.New(
		stdlog.New(log.Writer(), "[SQL] ", stdlog.Ltime),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLevel(log.GetLevel()),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}
	if dsn == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("getting sql handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func gormLevel(l logger.Level) gormLogger.LogLevel {
	switch l {
	case logger.LevelOff:
		return gormLogger.Silent
	case logger.LevelVerbose:
		return gormLogger.Info
	default:
		return gormLogger.Warn
	}
}

// GormRepository stores users, lessons and steps in a SQL database.
type GormRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewGormRepository migrates the schema and returns a repository over db.
func NewGormRepository(db *gorm.DB, log *logger.Logger) (*GormRepository, error) {
	if err := db.AutoMigrate(&userRow{}, &lessonRow{}, &stepRow{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return &GormRepository{db: db, log: log}, nil
}

// ListLessons returns every lesson newest first, steps in order.
func (r *GormRepository) ListLessons(ctx context.Context) ([]domain.Lesson, error) {
	var rows []lessonRow
	err := r.db.WithContext(ctx).
		Preload("Steps", orderedSteps).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing lessons: %w", err)
	}

	out := make([]domain.Lesson, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	r.log.Debug("listing lessons, count=%d", len(out))
	return out, nil
}

// GetLesson retrieves a lesson by id.
func (r *GormRepository) GetLesson(ctx context.Context, id string) (*domain.Lesson, error) {
	var row lessonRow
	err := r.db.WithContext(ctx).
		Preload("Steps", orderedSteps).
		Where("lesson_id = ?", id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting lesson %s: %w", id, err)
	}
	l := row.toDomain()
	return &l, nil
}

// SaveLesson inserts or replaces a lesson and all of its steps.
func (r *GormRepository) SaveLesson(ctx context.Context, lesson *domain.Lesson) error {
	row := lessonFromDomain(lesson)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Steps").Save(&row).Error; err != nil {
			return fmt.Errorf("saving lesson %s: %w", lesson.ID, err)
		}
		if err := tx.Where("lesson_id = ?", row.ID).Delete(&stepRow{}).Error; err != nil {
			return fmt.Errorf("clearing steps of %s: %w", lesson.ID, err)
		}
		if len(row.Steps) == 0 {
			return nil
		}
		if err := tx.Create(&row.Steps).Error; err != nil {
			return fmt.Errorf("saving steps of %s: %w", lesson.ID, err)
		}
		r.log.Debug("saved lesson %s with %d steps", lesson.ID, len(row.Steps))
		return nil
	})
}

// CountLessons returns the number of stored lessons.
func (r *GormRepository) CountLessons(ctx context.Context) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&lessonRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting lessons: %w", err)
	}
	return int(n), nil
}

// SaveUser stores a new account. Emails are unique, ignoring case.
func (r *GormRepository) SaveUser(ctx context.Context, user *domain.User) error {
	email := strings.ToLower(strings.TrimSpace(user.Email))

	var n int64
	if err := r.db.WithContext(ctx).Model(&userRow{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return fmt.Errorf("checking user %s: %w", email, err)
	}
	if n > 0 {
		return domain.ErrAlreadyExists
	}

	row := userRow{
		ID:           user.ID,
		Email:        email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		Role:         int(user.Role),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("creating user %s: %w", email, err)
	}
	return nil
}

// FindUserByEmail looks an account up by email, ignoring case.
func (r *GormRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row userRow
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return &domain.User{
		ID:           row.ID,
		Email:        row.Email,
		Name:         row.Name,
		PasswordHash: row.PasswordHash,
		Role:         domain.Role(row.Role),
	}, nil
}

// Close releases the underlying connection pool.
func (r *GormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func orderedSteps(db *gorm.DB) *gorm.DB {
	return db.Order("step_number ASC")
}

func lessonFromDomain(l *domain.Lesson) lessonRow {
	row := lessonRow{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Level:       l.Level,
		Topic:       l.Topic,
		CreatedAt:   l.CreatedAt,
		Steps:       make([]stepRow, len(l.Steps)),
	}
	for i, s := range l.Steps {
		row.Steps[i] = stepRow{
			LessonID:    l.ID,
			Number:      s.Number,
			Description: s.Description,
			ImagePath:   s.ImagePath,
		}
	}
	return row
}

func (row lessonRow) toDomain() domain.Lesson {
	l := domain.Lesson{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Level:       row.Level,
		Topic:       row.Topic,
		CreatedAt:   row.CreatedAt,
		Steps:       make([]domain.Step, len(row.Steps)),
	}
	for i, s := range row.Steps {
		l.Steps[i] = domain.Step{
			Number:      s.Number,
			Description: s.Description,
			ImagePath:   s.ImagePath,
		}
	}
	return l
}
