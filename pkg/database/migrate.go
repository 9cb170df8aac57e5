package database

import (
	"errors"
	"fmt"
	"log"

	migrateV4 "github.com/golang-migrate/migrate/v4"
	migratePostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"
)

// DevSchemaSource - каталог SQL-миграций локальной копии схемы вопросов бэкенда
const DevSchemaSource = "file://migrations"

// NewDevSchemaMigrator создает migrate для локальной схемы вопросов.
// В рабочем окружении схемой владеет бэкенд, миграции нужны только для разработки и тестов режима postgres.
func NewDevSchemaMigrator(db *gorm.DB, sourceURL string) (*migrateV4.Migrate, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("не удалось получить *sql.DB из *gorm.DB: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("не удалось проверить подключение к БД перед миграцией: %w", err)
	}

	driver, err := migratePostgres.WithInstance(sqlDB, &migratePostgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("не удалось создать драйвер postgres для migrate: %w", err)
	}

	m, err := migrateV4.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать экземпляр migrate: %w", err)
	}
	return m, nil
}

// ApplyMigration выполняет команду миграции: up, down или force с версией
func ApplyMigration(m *migrateV4.Migrate, command string, version int) error {
	var err error
	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "force":
		if version < 0 {
			return fmt.Errorf("force requires a non-negative version, got %d", version)
		}
		err = m.Force(version)
	default:
		return fmt.Errorf("unknown migration command %q (expected up, down or force)", command)
	}

	if errors.Is(err, migrateV4.ErrNoChange) {
		log.Println("[Database] Изменений в миграциях не найдено, схема уже актуальна")
		return nil
	}
	if err != nil {
		return fmt.Errorf("ошибка миграции %s: %w", command, err)
	}

	current, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrateV4.ErrNilVersion) {
		return fmt.Errorf("не удалось прочитать версию схемы: %w", verr)
	}
	log.Printf("[Database] Миграция %s выполнена: версия %d, dirty=%v", command, current, dirty)
	return nil
}
