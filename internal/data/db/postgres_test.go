package db

import "testing"

func TestPostgresDSNPrefersExplicitDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://u:p@db:5432/x")
	if got := postgresDSN(); got != "postgres://u:p@db:5432/x" {
		t.Fatalf("postgresDSN: got=%q", got)
	}
}

func TestPostgresDSNFromParts(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("POSTGRES_USER", "pin")
	t.Setenv("POSTGRES_PASSWORD", "pw")
	t.Setenv("POSTGRES_HOST", "pg")
	t.Setenv("POSTGRES_PORT", "6543")
	t.Setenv("POSTGRES_NAME", "pins")
	t.Setenv("POSTGRES_SSLMODE", "")
	want := "postgres://pin:pw@pg:6543/pins?sslmode=disable"
	if got := postgresDSN(); got != want {
		t.Fatalf("postgresDSN: want=%q got=%q", want, got)
	}
}
