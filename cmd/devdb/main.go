// devdb поднимает локальную копию схемы вопросов бэкенда для режима backend.mode=postgres.
//
//	go run ./cmd/devdb -cmd up
//	go run ./cmd/devdb -cmd force -version 1
package main

import (
	"flag"
	"log"
	"os"

	"github.com/Nayeem09864/exam-management-system/internal/config"
	"github.com/Nayeem09864/exam-management-system/pkg/database"
)

func main() {
	command := flag.String("cmd", "up", "migration command: up, down or force")
	version := flag.Int("version", -1, "target version for force (cleans a dirty state)")
	source := flag.String("source", database.DevSchemaSource, "migrations source URL")
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Database.Host == "" || cfg.Database.DBName == "" {
		log.Fatal("database.host and database.dbname are required (check DATABASE_HOST, DATABASE_DBNAME)")
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), false)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	m, err := database.NewDevSchemaMigrator(db, *source)
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	if err := database.ApplyMigration(m, *command, *version); err != nil {
		log.Fatal(err)
	}
	if *command == "up" {
		if err := database.CheckQuestionSchema(db); err != nil {
			log.Fatal(err)
		}
	}
	log.Println("Готово")
}
