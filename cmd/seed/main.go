package main

import (
	"log"
	"os"
	"time"

	"ai-assistant-be/internal/model"
	"ai-assistant-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeds a demo account with a couple of standing rules so the proactive
// pipeline has something to match right after a fresh migration.
func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Demo Seeder...")

	userId := seedDemoUser(db)
	seedInstructions(db, userId)

	log.Println("✅ Success: Demo seeding completed.")
}

func seedDemoUser(db *gorm.DB) uuid.UUID {
	log.Println("Seeding demo user...")

	var existing model.User
	err := db.Where("email = ?", "demo@example.com").First(&existing).Error
	if err == nil {
		log.Printf("Demo user already exists (%s), skipping", existing.Id)
		return existing.Id
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error: Failed to hash password: %v", err)
	}

	user := model.User{
		Id:           uuid.New(),
		Email:        "demo@example.com",
		PasswordHash: string(hash),
		FullName:     "Demo User",
		Timezone:     "UTC",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Error: Failed to create demo user: %v", err)
	}

	log.Printf("Created demo user %s (demo@example.com / demo-password)", user.Id)
	return user.Id
}

func seedInstructions(db *gorm.DB, userId uuid.UUID) {
	log.Println("Seeding ongoing instructions...")

	instructions := []model.OngoingInstruction{
		{
			Id:          uuid.New(),
			UserId:      userId,
			Instruction: "Whenever an email about an invoice arrives, notify me immediately",
			IsActive:    true,
			Priority:    5,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		},
		{
			Id:          uuid.New(),
			UserId:      userId,
			Instruction: "Always create a reminder one day before a calendar event with a client",
			IsActive:    true,
			Priority:    3,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		},
	}

	for _, instruction := range instructions {
		var count int64
		db.Model(&model.OngoingInstruction{}).
			Where("user_id = ? AND instruction = ?", userId, instruction.Instruction).
			Count(&count)
		if count > 0 {
			log.Printf("Instruction already seeded: %.40s...", instruction.Instruction)
			continue
		}

		if err := db.Create(&instruction).Error; err != nil {
			log.Fatalf("Error: Failed to create instruction: %v", err)
		}
		log.Printf("Created instruction: %.60s", instruction.Instruction)
	}
}
