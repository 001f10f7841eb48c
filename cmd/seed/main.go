package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"internhub/internal/config"
	"internhub/internal/db"
	"internhub/internal/model"
	"internhub/internal/repository"
)

const seedPassword = "Password123!"

type seedUser struct {
	email     string
	role      model.Role
	firstName string
	lastName  string
}

var seedUsers = []seedUser{
	{email: "acme@example.com", role: model.RoleOrganization, firstName: "Acme", lastName: "Robotics"},
	{email: "globex@example.com", role: model.RoleOrganization, firstName: "Globex", lastName: "Labs"},
	{email: "applicant@example.com", role: model.RoleApplicant, firstName: "Asha", lastName: "Patel"},
	{email: "admin@example.com", role: model.RoleAdmin, firstName: "Site", lastName: "Admin"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Internship{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	internshipRepo := repository.NewInternshipRepository(gormDB)

	users, created, err := seedDemoUsers(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	log.Printf("Users ready (%d created)", created)

	postings, err := seedDemoInternships(ctx, internshipRepo, users)
	if err != nil {
		log.Fatalf("Failed to seed internships: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Internships created: %d", postings)
	log.Printf("  - Demo password for all users: %s", seedPassword)
}

// seedDemoUsers creates the demo accounts if they do not exist yet and
// returns them keyed by email.
func seedDemoUsers(ctx context.Context, repo repository.UserRepository) (map[string]*model.User, int, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), 10)
	if err != nil {
		return nil, 0, err
	}

	users := make(map[string]*model.User, len(seedUsers))
	created := 0
	for _, su := range seedUsers {
		existing, err := repo.FindByEmail(ctx, su.email)
		if err == nil {
			users[su.email] = existing
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return nil, created, err
		}

		user := &model.User{
			ID:           uuid.New(),
			Email:        su.email,
			PasswordHash: string(hash),
			Role:         su.role,
			FirstName:    su.firstName,
			LastName:     su.lastName,
			Active:       true,
		}
		if err := repo.Create(ctx, user); err != nil {
			return nil, created, err
		}
		users[su.email] = user
		created++
	}
	return users, created, nil
}

// seedDemoInternships gives each organization a couple of postings so the
// ownership-scoped listing has something to show per tenant.
func seedDemoInternships(ctx context.Context, repo repository.InternshipRepository, users map[string]*model.User) (int, error) {
	acme := users["acme@example.com"]
	globex := users["globex@example.com"]

	// Skip if already seeded.
	existing, err := repo.ListByOwner(ctx, acme.ID)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		log.Println("Internships already seeded, skipping")
		return 0, nil
	}

	deadline := time.Now().AddDate(0, 2, 0)
	start := time.Now().AddDate(0, 3, 0)

	postings := []model.Internship{
		{
			OwnerID:             acme.ID,
			Title:               "Data Science Internship",
			Description:         "Work on demand-forecasting models with the analytics team.",
			Sector:              "technology",
			LocationCity:        "Mumbai",
			LocationState:       "Maharashtra",
			Skills:              "Python,Data Analysis",
			EducationLevel:      "bachelor",
			StipendAmount:       decimal.NewFromInt(25000),
			StipendCurrency:     "INR",
			Duration:            "3-months",
			PositionsTotal:      5,
			PositionsAvailable:  5,
			ApplicationDeadline: deadline,
			StartDate:           start,
			Status:              model.InternshipStatusActive,
		},
		{
			OwnerID:             acme.ID,
			Title:               "Embedded Systems Internship",
			Description:         "Firmware work on warehouse robots.",
			Sector:              "technology",
			LocationCity:        "Pune",
			LocationState:       "Maharashtra",
			Skills:              "C,RTOS",
			EducationLevel:      "bachelor",
			StipendAmount:       decimal.NewFromInt(30000),
			StipendCurrency:     "INR",
			Duration:            "6-months",
			PositionsTotal:      2,
			PositionsAvailable:  2,
			ApplicationDeadline: deadline,
			StartDate:           start,
			Status:              model.InternshipStatusActive,
		},
		{
			OwnerID:             globex.ID,
			Title:               "Marketing Internship",
			Description:         "Campaign analytics and content planning.",
			Sector:              "marketing",
			LocationCity:        "Bengaluru",
			LocationState:       "Karnataka",
			Skills:              "SEO,Copywriting",
			EducationLevel:      "bachelor",
			StipendAmount:       decimal.NewFromInt(15000),
			StipendCurrency:     "INR",
			Duration:            "3-months",
			PositionsTotal:      3,
			PositionsAvailable:  3,
			ApplicationDeadline: deadline,
			StartDate:           start,
			Status:              model.InternshipStatusActive,
		},
	}

	for i := range postings {
		if err := repo.Create(ctx, &postings[i]); err != nil {
			return i, err
		}
	}
	return len(postings), nil
}
