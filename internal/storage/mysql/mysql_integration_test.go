//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"nightspot/internal/domain"
	mysqlrepo "nightspot/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string     { return &s }
func pint(i int) *int           { return &i }
func pfloat(f float64) *float64 { return &f }

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// ---------- the test ----------
func TestRepo_MySQL_SaveAndList(t *testing.T) {
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=nightspot",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "nightspot")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Arrange — one fully-populated approved venue, one draft
	v := domain.VenueRecord{
		ID:            "v-terraza",
		Name:          "La Terraza",
		Address:       pstr("Av. Principal 1"),
		Description:   pstr("rooftop bar"),
		Category:      2,
		Lat:           pfloat(10.5),
		Lng:           pfloat(-66.9),
		ScheduleOpen:  pstr("18:00:00"),
		ScheduleClose: pstr("02:30:00"),
		Capacity:      pint(80),
		GenreTags:     []string{"salsa", "electronica"},
		AvgRating:     pfloat(4.4),
		Approved:      true,
	}
	if err := repo.SaveVenue(ctx, v); err != nil {
		t.Fatalf("SaveVenue: %v", err)
	}
	if err := repo.SaveVenue(ctx, domain.VenueRecord{ID: "v-draft", Name: "Draft"}); err != nil {
		t.Fatalf("SaveVenue draft: %v", err)
	}

	// Act/Assert — list returns both rows with fields intact
	recs, err := repo.ListVenues(ctx)
	if err != nil {
		t.Fatalf("ListVenues: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}

	got, err := repo.GetVenue(ctx, "v-terraza")
	if err != nil {
		t.Fatalf("GetVenue: %v", err)
	}
	if got.Name != "La Terraza" || !got.Approved || got.Category != 2 {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.ScheduleOpen == nil || *got.ScheduleOpen != "18:00:00" {
		t.Fatalf("schedule_open = %v", got.ScheduleOpen)
	}
	if got.Capacity == nil || *got.Capacity != 80 {
		t.Fatalf("capacity = %v", got.Capacity)
	}
	if len(got.GenreTags) != 2 {
		t.Fatalf("genre_tags = %v", got.GenreTags)
	}

	// Upsert path: same id, changed fields
	v.Capacity = pint(100)
	if err := repo.SaveVenue(ctx, v); err != nil {
		t.Fatalf("SaveVenue update: %v", err)
	}
	got, _ = repo.GetVenue(ctx, "v-terraza")
	if got.Capacity == nil || *got.Capacity != 100 {
		t.Fatalf("capacity after upsert = %v", got.Capacity)
	}

	// Missing id maps to ErrNotFound
	if _, err := repo.GetVenue(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
