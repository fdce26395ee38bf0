// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"travelclean/internal/database"
	"travelclean/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "travelclean")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "travelclean")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// uniq returns a short random suffix for test fixtures.
func uniq() string {
	return uuid.NewString()[:8]
}

// testCategory creates a throwaway category and removes it, together with
// its posts, when the test ends.
func testCategory(t *testing.T, db *sql.DB, order int) *models.Category {
	t.Helper()
	s := NewCategoryStore(db)
	suffix := uniq()
	c, err := s.Create(context.Background(), &models.Category{
		Name:         "Test Category " + suffix,
		Slug:         "test-category-" + suffix,
		DisplayOrder: order,
	})
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM posts WHERE category_id = $1", c.ID)
		db.Exec("DELETE FROM categories WHERE id = $1", c.ID)
	})
	return c
}

// newTestPost returns an unsaved published post in the given category.
func newTestPost(categoryID int64, title string) *models.Post {
	p := models.NewPost()
	p.Title = title
	p.Slug = "test-post-" + uniq()
	p.Excerpt = "Excerpt for " + title
	p.Content = "<p>" + title + "</p>"
	p.CategoryID = categoryID
	return p
}
