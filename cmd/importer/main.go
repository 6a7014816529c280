package main

import (
	"fmt"
	"log"
	"os"

	"statboard/database"
	"statboard/importer"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: importer <workbook.xlsx> [sqlite-file]")
		fmt.Println("Without a sqlite file the importer connects via DATABASE_URL / DB_* env vars.")
		os.Exit(1)
	}
	workbook := os.Args[1]

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	var db *gorm.DB
	if len(os.Args) >= 3 {
		conn, err := gorm.Open(sqlite.Open(os.Args[2]), &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to open sqlite database:", err)
		}
		if err := database.Migrate(conn); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		database.SetDB(conn)
		db = conn
	} else {
		database.InitDB()
		db = database.GetDB()
	}

	report, err := importer.ImportFile(db, workbook)
	if err != nil {
		log.Fatal("Import failed:", err)
	}

	fmt.Println("\n---------- IMPORT REPORT ----------")
	fmt.Printf("Questions created:  %d\n", report.QuestionsCreated)
	fmt.Printf("Questions updated:  %d\n", report.QuestionsUpdated)
	fmt.Printf("Questions failed:   %d\n", report.QuestionsFailed)
	fmt.Printf("Answers created:    %d\n", report.AnswersCreated)
	fmt.Printf("Answers updated:    %d\n", report.AnswersUpdated)
	fmt.Printf("Answers failed:     %d\n", report.AnswersFailed)
	fmt.Println("-----------------------------------")
}
