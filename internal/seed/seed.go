// Package seed provides database seeding utilities for development and
// testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"studydeck/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var categories = []models.Category{
	{Name: "General Discussion", Slug: "general", Description: "Anything goes"},
	{Name: "Course Help", Slug: "course-help", Description: "Questions about course material"},
	{Name: "Study Groups", Slug: "study-groups", Description: "Find and organize study groups"},
	{Name: "Exams", Slug: "exams", Description: "Past papers and exam prep"},
	{Name: "Campus Life", Slug: "campus-life", Description: "Events, clubs and everything else"},
}

var tags = []models.Tag{
	{Name: "homework", Slug: "homework"},
	{Name: "lecture-notes", Slug: "lecture-notes"},
	{Name: "project", Slug: "project"},
	{Name: "exam-prep", Slug: "exam-prep"},
	{Name: "question", Slug: "question"},
	{Name: "resources", Slug: "resources"},
}

var courses = []models.Course{
	{Code: "CS101", Title: "Introduction to Computer Science", IsActive: true},
	{Code: "CS240", Title: "Data Structures and Algorithms", IsActive: true},
	{Code: "MATH201", Title: "Linear Algebra", IsActive: true},
	{Code: "PHYS110", Title: "Classical Mechanics", IsActive: true},
	{Code: "STAT301", Title: "Applied Statistics", IsActive: true},
	{Code: "HIST150", Title: "World History Since 1500", IsActive: false},
}

// Seeder creates demo data.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll deletes every seeded table in dependency order.
func (s *Seeder) ClearAll() error {
	tables := []string{"likes", "reports", "thread_tags", "replies", "threads", "tags", "categories", "courses", "users"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// SeedFixtures inserts the fixed category, tag and course sets.
func (s *Seeder) SeedFixtures() error {
	for i := range categories {
		if err := s.db.FirstOrCreate(&categories[i], models.Category{Slug: categories[i].Slug}).Error; err != nil {
			return err
		}
	}
	for i := range tags {
		if err := s.db.FirstOrCreate(&tags[i], models.Tag{Slug: tags[i].Slug}).Error; err != nil {
			return err
		}
	}
	for i := range courses {
		if err := s.db.FirstOrCreate(&courses[i], models.Course{Code: courses[i].Code}).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedUsers creates n accounts plus one moderator and one admin. All
// seeded accounts share the password "password123".
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n+2)
	for i := 0; i < n; i++ {
		username := strings.ToLower(gofakeit.Username())
		user := &models.User{
			Username:   fmt.Sprintf("%s%d", username, i),
			Email:      fmt.Sprintf("%s%d@example.edu", username, i),
			Password:   string(hashed),
			Role:       models.RoleStudent,
			Bio:        gofakeit.Sentence(8),
			Department: gofakeit.RandomString([]string{"Computer Science", "Mathematics", "Physics", "History", "Biology"}),
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	mod := &models.User{
		Username: "moderator",
		Email:    "moderator@example.edu",
		Password: string(hashed),
		Role:     models.RoleModerator,
	}
	admin := &models.User{
		Username: "admin",
		Email:    "admin@example.edu",
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	for _, u := range []*models.User{mod, admin} {
		if err := s.db.Create(u).Error; err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// SeedThreads creates n threads with replies and likes spread across
// the given users.
func (s *Seeder) SeedThreads(users []*models.User, n int) error {
	if len(users) == 0 {
		return fmt.Errorf("no users to attribute threads to")
	}

	for i := 0; i < n; i++ {
		author := users[s.rand.Intn(len(users))]
		category := categories[s.rand.Intn(len(categories))]

		thread := &models.Thread{
			CategoryID: category.ID,
			AuthorID:   author.ID,
			Title:      strings.TrimSuffix(gofakeit.Sentence(6), "."),
			Content:    gofakeit.Paragraph(1, 3, 8, "\n"),
			CreatedAt:  s.pastTime(60),
		}
		if s.rand.Intn(3) == 0 {
			course := courses[s.rand.Intn(len(courses))]
			thread.CourseID = &course.ID
		}
		if err := s.db.Create(thread).Error; err != nil {
			return err
		}

		if s.rand.Intn(2) == 0 {
			tag := tags[s.rand.Intn(len(tags))]
			if err := s.db.Model(thread).Association("Tags").Append(&tag); err != nil {
				return err
			}
		}

		if err := s.seedEngagement(thread, users); err != nil {
			return err
		}
	}

	log.Printf("Seeded %d threads", n)
	return nil
}

func (s *Seeder) seedEngagement(thread *models.Thread, users []*models.User) error {
	replyCount := s.rand.Intn(6)
	for j := 0; j < replyCount; j++ {
		replier := users[s.rand.Intn(len(users))]
		reply := &models.Reply{
			ThreadID:  thread.ID,
			AuthorID:  replier.ID,
			Content:   gofakeit.Sentence(12),
			CreatedAt: s.pastTime(30),
		}
		if err := s.db.Create(reply).Error; err != nil {
			return err
		}
	}
	if replyCount > 0 {
		if err := s.db.Model(thread).Update("reply_count", replyCount).Error; err != nil {
			return err
		}
	}

	likers := s.rand.Intn(min(len(users), 8))
	for j := 0; j < likers; j++ {
		like := &models.Like{
			UserID:     users[j].ID,
			TargetKind: models.TargetThread,
			TargetID:   thread.ID,
		}
		if err := s.db.Create(like).Error; err != nil {
			return err
		}
	}
	if likers > 0 {
		if err := s.db.Model(thread).Update("like_count", likers).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) pastTime(maxDays int) time.Time {
	daysBack := s.rand.Intn(maxDays)
	hoursBack := s.rand.Intn(24)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)
}
