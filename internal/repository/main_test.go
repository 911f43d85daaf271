package repository

import (
	"fmt"
	"testing"

	"studydeck/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Category{},
		&models.Tag{},
		&models.Thread{},
		&models.Reply{},
		&models.Like{},
		&models.Report{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

var fixtureSeq int

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	fixtureSeq++
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s%d@example.edu", username, fixtureSeq),
		Password: "x",
		Role:     models.RoleStudent,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Slug: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

func createThread(t *testing.T, db *gorm.DB, author *models.User, category *models.Category, title string) *models.Thread {
	t.Helper()
	thread := &models.Thread{
		CategoryID: category.ID,
		AuthorID:   author.ID,
		Title:      title,
		Content:    "content",
	}
	if err := db.Create(thread).Error; err != nil {
		t.Fatalf("create thread: %v", err)
	}
	return thread
}

func threadByID(t *testing.T, db *gorm.DB, id uint) *models.Thread {
	t.Helper()
	var thread models.Thread
	if err := db.First(&thread, id).Error; err != nil {
		t.Fatalf("load thread %d: %v", id, err)
	}
	return &thread
}
