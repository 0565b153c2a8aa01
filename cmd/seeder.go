package cmd

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	coursedm "github.com/omp-platform/learning-backend/internal/core/datamodel/course"
	mentordm "github.com/omp-platform/learning-backend/internal/core/datamodel/mentor"
	userdm "github.com/omp-platform/learning-backend/internal/core/datamodel/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with an admin account, a mentor, and a demo course for development and testing.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			fmt.Println("Clearing existing data")
			for _, table := range []string{"completed_modules", "enrollments", "payments", "modules", "courses", "mentors", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		seedUser(db, "admin@omp.dev", "Platform Admin", userdm.RoleAdmin, string(hash))
		seedUser(db, "student@omp.dev", "Demo Student", userdm.RoleStudent, string(hash))

		mentorID := seedMentor(db)
		seedCourse(db, mentorID)

		fmt.Println("Seeding complete")
	},
}

func seedUser(db *gorm.DB, email, name, role, hash string) {
	var count int64
	db.Model(&userdm.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		fmt.Printf("user %s already exists\n", email)
		return
	}

	u := &userdm.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := db.Create(u).Error; err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	fmt.Printf("Seeded %s user: %s\n", role, email)
}

func seedMentor(db *gorm.DB) string {
	var existing mentordm.Mentor
	if err := db.Where("name = ?", "Asha Verma").First(&existing).Error; err == nil {
		fmt.Println("mentor already exists")
		return existing.ID
	}

	m := &mentordm.Mentor{
		ID:        uuid.NewString(),
		Name:      "Asha Verma",
		Bio:       "Backend engineer and instructor.",
		Expertise: "Distributed systems",
	}
	if err := db.Create(m).Error; err != nil {
		log.Fatalf("failed to seed mentor: %v", err)
	}
	fmt.Println("Seeded mentor:", m.Name)
	return m.ID
}

func seedCourse(db *gorm.DB, mentorID string) {
	var count int64
	db.Model(&coursedm.Course{}).Where("title = ?", "Backend Engineering with Go").Count(&count)
	if count > 0 {
		fmt.Println("demo course already exists")
		return
	}

	c := &coursedm.Course{
		ID:          uuid.NewString(),
		Title:       "Backend Engineering with Go",
		Description: "Build and operate production backend services.",
		PriceMinor:  49900, // 499 INR
		Currency:    "INR",
		MentorID:    &mentorID,
	}
	if err := db.Create(c).Error; err != nil {
		log.Fatalf("failed to seed course: %v", err)
	}

	modules := []string{
		"HTTP services and routing",
		"Persistence and migrations",
		"Payments and webhooks",
		"Deployment and observability",
	}
	for _, title := range modules {
		m := &coursedm.Module{
			ID:       uuid.NewString(),
			CourseID: c.ID,
			Title:    title,
		}
		if err := db.Create(m).Error; err != nil {
			log.Fatalf("failed to seed module %q: %v", title, err)
		}
	}

	fmt.Printf("Seeded course %q with %d modules\n", c.Title, len(modules))
}
