package repository

import (
	"strings"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/HughSean/MiniProgram-Backend/internal/domain"
)

// dryRunDB builds SQL through the Postgres dialector without connecting, so
// the statements the guards emit can be pinned in tests.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

// The court row lock is what serializes concurrent interval writes: locks on
// overlapping orders alone lock nothing when the slot is free, letting two
// inserts for the same slot both commit under read committed.
func TestLockCourtTakesRowLock(t *testing.T) {
	db := dryRunDB(t)

	sql := lockCourt(db, "c1").Statement.SQL.String()
	upper := strings.ToUpper(sql)
	if !strings.Contains(sql, "courts") {
		t.Errorf("court lock queries %q, want the courts table", sql)
	}
	if !strings.Contains(upper, "FOR UPDATE") {
		t.Errorf("court lock %q carries no FOR UPDATE clause", sql)
	}
}

func TestOverlapScanPredicate(t *testing.T) {
	db := dryRunDB(t)
	start := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	var clash domain.Order
	sql := overlapScan(db.Session(&gorm.Session{NewDB: true}), "c1", "", start, end).
		Take(&clash).Statement.SQL.String()
	for _, frag := range []string{"court_id = ", "start_time < ", "end_time > "} {
		if !strings.Contains(sql, frag) {
			t.Errorf("overlap scan %q missing %q", sql, frag)
		}
	}
	if strings.Contains(sql, "id <> ") {
		t.Errorf("overlap scan without exclusion %q excludes an id", sql)
	}

	var clash2 domain.Order
	sql = overlapScan(db.Session(&gorm.Session{NewDB: true}), "c1", "o9", start, end).
		Take(&clash2).Statement.SQL.String()
	if !strings.Contains(sql, "id <> ") {
		t.Errorf("overlap scan with exclusion %q does not exclude the edited order", sql)
	}
}
