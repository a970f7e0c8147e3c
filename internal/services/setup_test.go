package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/quillpost/backend/internal/cache"
	"github.com/anonto42/quillpost/backend/internal/models"
	"github.com/anonto42/quillpost/backend/internal/repositories"
	"github.com/anonto42/quillpost/backend/pkg/config"
	"gorm.io/gorm"
)

// openTestDB opens a private in-memory SQLite database with the schema applied.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := config.OpenDatabase(config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name),
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// stepClock advances one minute on every reading so posts get distinct times.
type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

type fixture struct {
	db      *gorm.DB
	users   *repositories.GormUserRepository
	follows *repositories.GormFollowRepository
	posts   *repositories.GormPostRepository
	follow  *FollowService
	post    *PostService
	clock   *stepClock
}

func newFixture(t *testing.T, counts cache.CountCache) *fixture {
	t.Helper()
	db := openTestDB(t)

	f := &fixture{
		db:      db,
		users:   repositories.NewGormUserRepository(db),
		follows: repositories.NewGormFollowRepository(db),
		posts:   repositories.NewGormPostRepository(db),
		clock:   &stepClock{t: time.Date(2024, 3, 9, 8, 0, 0, 0, time.Local)},
	}
	f.follow = NewFollowService(f.users, f.follows, counts)
	f.post = NewPostService(f.posts, counts)
	f.post.now = f.clock.Now
	return f
}

func (f *fixture) createUser(t *testing.T, username string) models.User {
	t.Helper()
	u := models.User{Username: username, Email: username + "@example.com"}
	if err := f.users.CreateUser(context.Background(), &u); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func (f *fixture) createPost(t *testing.T, author models.User, title, body string) uint {
	t.Helper()
	id, err := f.post.Create(context.Background(), models.PostInput{Title: title, Body: body}, author.ID)
	if err != nil {
		t.Fatalf("create post %q: %v", title, err)
	}
	return id
}

func assertMessages(t *testing.T, err error, want ...string) {
	t.Helper()
	got := ValidationMessages(err)
	if got == nil {
		t.Fatalf("expected validation error %v, got %v", want, err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected messages %q, got %q", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected messages %q, got %q", want, got)
		}
	}
}
