package config

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"p9e.in/tms/models"
)

// SeedUsers creates the default login accounts. Idempotent; existing
// emails are left untouched.
func SeedUsers() {
	log.Println("Seeding default users...")

	defaultPassword := "Welcome@123"
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return
	}

	usersToSeed := []struct {
		Name  string
		Email string
		Phone string
		Role  string
		Team  string
	}{
		{"Admin", "admin@tms.local", "9999999999", models.RoleAdmin, ""},
		{"North Team Lead", "north.lead@tms.local", "9999999901", models.RoleTeamLead, "North"},
		{"North Executive", "north.exec@tms.local", "9999999902", models.RoleTeamExecutive, "North"},
		{"South Team Lead", "south.lead@tms.local", "9999999903", models.RoleTeamLead, "South"},
		{"South Executive", "south.exec@tms.local", "9999999904", models.RoleTeamExecutive, "South"},
		{"Accounts Desk", "accounts@tms.local", "9999999905", models.RoleAccounts, ""},
	}

	for _, userData := range usersToSeed {
		var existing models.User
		if err := DB.Where("email = ?", userData.Email).First(&existing).Error; err == nil {
			log.Printf("User already exists: %s (%s)", userData.Name, userData.Email)
			continue
		}

		user := models.User{
			Name:         userData.Name,
			Email:        userData.Email,
			Phone:        userData.Phone,
			PasswordHash: string(passwordHash),
			Role:         userData.Role,
			Team:         userData.Team,
			IsActive:     true,
		}
		if err := DB.Create(&user).Error; err != nil {
			log.Printf("Error creating user %s: %v", userData.Name, err)
			continue
		}
		log.Printf("Created user: %s (%s) role=%s", userData.Name, userData.Email, userData.Role)
	}

	log.Println("User seeding completed")
	log.Println("========================================")
	log.Println("DEFAULT CREDENTIALS (change immediately!):")
	log.Println("----------------------------------------")
	log.Println("Admin:          admin@tms.local / Welcome@123")
	log.Println("North Lead:     north.lead@tms.local / Welcome@123")
	log.Println("North Exec:     north.exec@tms.local / Welcome@123")
	log.Println("Accounts:       accounts@tms.local / Welcome@123")
	log.Println("========================================")
}
