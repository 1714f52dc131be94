package db

import (
	"path"
	"strings"
	"testing"
)

func TestMigrationFilesOrdered(t *testing.T) {
	files, err := MigrationFiles()
	if err != nil {
		t.Fatalf("list migrations: %v", err)
	}
	if len(files) < 2 {
		t.Fatalf("expected at least 2 migrations, got %v", files)
	}
	for i := 1; i < len(files); i++ {
		if path.Base(files[i-1]) >= path.Base(files[i]) {
			t.Fatalf("migrations out of order: %v", files)
		}
	}
	for _, f := range files {
		b, err := migrations.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if strings.TrimSpace(string(b)) == "" {
			t.Fatalf("empty migration %s", f)
		}
	}
}

func TestTenantNamesUniqueByKey(t *testing.T) {
	files, err := MigrationFiles()
	if err != nil {
		t.Fatalf("list migrations: %v", err)
	}
	var all strings.Builder
	for _, f := range files {
		b, err := migrations.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		all.Write(b)
		all.WriteString("\n")
	}
	schema := all.String()
	if !strings.Contains(schema, "ADD COLUMN IF NOT EXISTS name_key") {
		t.Fatal("tenants.name_key column missing")
	}
	if !strings.Contains(schema, "UNIQUE INDEX IF NOT EXISTS tenants_name_key_uniq ON tenants (name_key)") {
		t.Fatal("name_key is not unique")
	}
	created := strings.Index(schema, "tenants_name_uniq ON tenants (lower(name))")
	dropped := strings.Index(schema, "DROP INDEX IF EXISTS tenants_name_uniq")
	if created < 0 || dropped < created {
		t.Fatal("lower(name) index must be dropped after it is created")
	}
}
