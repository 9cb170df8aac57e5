package database

import (
	"fmt"
	"log"
	"time"

	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Nayeem09864/exam-management-system/internal/domain/entity"
)

// NewPostgresDB открывает подключение к базе бэкенда для режима прямого доступа.
// Схемой владеет бэкенд, поэтому миграции здесь не применяются.
func NewPostgresDB(dsn string, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}
	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	// Консоли хватает небольшого пула: запросы идут только от действий администратора
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// CheckQuestionSchema проверяет, что в базе есть таблицы вопросов бэкенда
func CheckQuestionSchema(db *gorm.DB) error {
	log.Println("[Database] Проверка схемы вопросов...")
	tables := []interface{}{
		&entity.QuestionRow{},
		&entity.QuestionOptionRow{},
		&entity.CorrectAnswerRow{},
		&entity.UserRow{},
	}
	for _, table := range tables {
		if !db.Migrator().HasTable(table) {
			return fmt.Errorf("required table for %T is missing: start the exam backend first so it creates its schema", table)
		}
	}
	log.Println("[Database] Схема вопросов найдена")
	return nil
}
