package boot

import (
	"log"
	"os"
	"time"

	"accesscrate/src/db"
	"accesscrate/src/lib"
	"accesscrate/src/models"
	"accesscrate/src/types"
	"accesscrate/src/utils"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Invitation{},
		&models.Category{},
		&models.Event{},
		&models.Ticket{},
		&models.Payment{},
		&models.PaymentItem{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	EnsureSuperAdmin(db)

	return db
}

// EnsureSuperAdmin seeds the single super-admin account from the environment
// on first boot. Subsequent boots are a no-op.
func EnsureSuperAdmin(db *gorm.DB) {
	email := os.Getenv("SUPER_ADMIN_EMAIL")
	password := os.Getenv("SUPER_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("[boot] Super admin credentials not configured, skipping seed")
		return
	}
	var count int64
	if err := db.
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).
		Error; err != nil {
		log.Printf("[boot] Error checking super admin: %s\n", err.Error())
		return
	}
	if count > 0 {
		return
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("[boot] Error hashing super admin password: %s\n", err.Error())
		return
	}
	admin := models.User{
		Name:     "Super Admin",
		Email:    email,
		Password: hashed,
		Role:     types.ROLE_SUPER_ADMIN,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("[boot] Error seeding super admin: %s\n", err.Error())
	}
}

// InitScheduler registers the lifecycle sweep so stored event and ticket
// flags track the calendar between requests.
func InitScheduler() {
	id, err := lib.CreateCronJob(utils.SweepLifecycle, 10*time.Minute)
	if err != nil {
		log.Printf("Error running job: %s\n", err.Error())
		return
	}
	log.Printf("Lifecycle sweep scheduled, job ID: %s\n", *id)
	lib.StartScheduler()
}
