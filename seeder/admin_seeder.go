package seeder

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"qr-attendance-backend/models"
	"qr-attendance-backend/repository"
)

// SeedAdmin creates the privileged account on first boot. Idempotent: if the
// admin already exists, nothing is written.
func SeedAdmin(workerRepo repository.WorkerRepository) {
	log.Println("Seeding admin account...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminEmail := "admin@attendance.local"
	existing, err := workerRepo.FindWorkerByEmail(ctx, adminEmail)
	if err == nil && existing != nil {
		log.Println("Admin account already exists, skipping seed.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin := &models.Worker{
		ChatID:   1,
		Name:     "Super Admin",
		Role:     models.RoleAdmin,
		Email:    adminEmail,
		Password: string(hashedPassword),
	}

	if _, err := workerRepo.CreateWorker(ctx, admin); err != nil {
		log.Printf("Failed to seed admin account: %v", err)
		return
	}
	log.Printf("Admin account (%s) seeded.", admin.Email)
}
