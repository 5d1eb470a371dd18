package security_test

import (
	"testing"

	"github.com/garooinc/itzana-insights/internal/security"
)

func TestSQLValidatorAllowsReads(t *testing.T) {
	v := security.NewSQLValidator()
	queries := []string{
		"SELECT ROOM_TYPE, avg(RATE) FROM reservations GROUP BY ROOM_TYPE",
		"select count(*) from reservations where ARRIVAL >= '2025-01-01'",
		"WITH monthly AS (SELECT strftime('%Y-%m', ARRIVAL) AS m FROM reservations) SELECT m, count(*) FROM monthly GROUP BY m",
	}
	for _, q := range queries {
		if msg := v.Validate(q); msg != "" {
			t.Errorf("Validate(%q) = %q, want allowed", q, msg)
		}
	}
}

func TestSQLValidatorRejectsWrites(t *testing.T) {
	v := security.NewSQLValidator()
	queries := []string{
		"UPDATE reservations SET RATE = 0",
		"DELETE FROM reservations",
		"DROP TABLE reservations",
		"INSERT INTO reservations VALUES ('x')",
		"",
	}
	for _, q := range queries {
		if msg := v.Validate(q); msg == "" {
			t.Errorf("Validate(%q) allowed, want rejected", q)
		}
	}
}

func TestSQLValidatorRejectsInjection(t *testing.T) {
	v := security.NewSQLValidator()
	queries := []string{
		"SELECT * FROM reservations; DROP TABLE reservations",
		"SELECT * FROM reservations WHERE GUEST = '' OR 1=1",
		"SELECT * FROM reservations UNION SELECT * FROM groupedaccounts",
		"SELECT * FROM reservations WHERE GUEST = 'a'--' AND RATE > 0",
		"SELECT SLEEP(10)",
	}
	for _, q := range queries {
		if msg := v.Validate(q); msg == "" {
			t.Errorf("Validate(%q) allowed, want rejected", q)
		}
	}
}

func TestAuditLoggerDisabled(t *testing.T) {
	// Disabled logger must be a no-op that never panics.
	a := security.NewAuditLogger(false)
	a.LogPipelineRun("q", "SELECT 1", 0, false, false, 10, true, "")
	a.LogReload(map[string]int{"reservations": 3}, 5, true, "")
}
