// Creates player profiles for users that predate the profile table.
package main

import (
	"fmt"
	"log"

	"statboard/database"
	"statboard/models"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	database.InitDB()
	db := database.GetDB()

	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		log.Fatal("Failed to load users:", err)
	}

	created := 0
	for _, user := range users {
		var profile models.PlayerProfile
		result := db.Where("user_id = ?", user.ID).
			FirstOrCreate(&profile, models.PlayerProfile{UserID: user.ID})
		if result.Error != nil {
			log.Printf("Failed to ensure profile for user %s: %v", user.Username, result.Error)
			continue
		}
		if result.RowsAffected > 0 {
			created++
			fmt.Printf("Created profile for %s\n", user.Username)
		}
	}

	fmt.Printf("\n✓ Checked %d users, created %d profiles\n", len(users), created)
}
