package db

import (
	"strings"
	"testing"

	"github.com/jmallard/daybook/internal/config"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		dc   config.DatabaseConfig
		want string
	}{
		{
			name: "default local",
			dc:   config.DatabaseConfig{User: "root", Host: "127.0.0.1", Port: 3306, Name: "daybook"},
			want: "root@tcp(127.0.0.1:3306)/daybook?parseTime=true",
		},
		{
			name: "with password",
			dc:   config.DatabaseConfig{User: "app", Password: "s3cret", Host: "10.0.0.5", Port: 3307, Name: "daybook_prod"},
			want: "app:s3cret@tcp(10.0.0.5:3307)/daybook_prod?parseTime=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DSN(tt.dc)
			if got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDSN_ParseTimeFlag(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{User: "root", Host: "localhost", Port: 3306, Name: "test"})
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("DSN missing parseTime=true: %s", dsn)
	}
}

func TestConnect_Sqlite(t *testing.T) {
	gdb, err := Connect(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if err := AutoMigrate(gdb); err != nil {
		t.Fatalf("AutoMigrate() error: %v", err)
	}
	if !gdb.Migrator().HasTable("items") {
		t.Error("items table missing after migration")
	}
	if !gdb.Migrator().HasTable("item_completions") {
		t.Error("item_completions table missing after migration")
	}
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect(config.DatabaseConfig{Driver: "postgres"})
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
	if !strings.Contains(err.Error(), "unsupported driver") {
		t.Errorf("error = %q, want to mention the driver", err.Error())
	}
}

func TestConnectAdmin_RequiresMysql(t *testing.T) {
	_, err := ConnectAdmin(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	if err == nil {
		t.Fatal("expected error for sqlite admin connect")
	}
}

func TestAllModels_Count(t *testing.T) {
	models := AllModels()
	if len(models) != 7 {
		t.Errorf("AllModels() returned %d models, want 7", len(models))
	}
}
