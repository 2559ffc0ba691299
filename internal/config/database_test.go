package config

import "testing"

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(DatabaseConfig{
		Host:     "db",
		Port:     "3307",
		User:     "dash",
		Password: "pw",
		DBName:   "edupayhub",
	})
	expect := "dash:pw@tcp(db:3307)/edupayhub?charset=utf8mb4&parseTime=True&loc=Local"
	if dsn != expect {
		t.Fatalf("expected %s, got %s", expect, dsn)
	}
}
