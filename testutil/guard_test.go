package testutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fatalRecorder struct {
	testing.TB
	msg string
}

func (f *fatalRecorder) Helper() {}

func (f *fatalRecorder) Fatalf(format string, args ...any) {
	f.msg = fmt.Sprintf(format, args...)
}

func writeFile(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestPredicates(t *testing.T) {
	cases := []struct {
		name string
		fn   func(string) bool
		in   string
		want bool
	}{
		{"domain", DomainImportForbidden, "sembako/pkg/domain", true},
		{"domain versioned", DomainImportForbidden, "example.com/mod/pkg/domain@v1", true},
		{"not domain", DomainImportForbidden, "sembako/pkg/domainx", false},
		{"internal", InternalImportForbidden, "sembako/internal/core", true},
		{"not internal", InternalImportForbidden, "sembako/pkg/domain", false},
		{"mysql", DriverImportForbidden, "github.com/go-sql-driver/mysql", true},
		{"pgx stdlib", DriverImportForbidden, "github.com/jackc/pgx/v5/stdlib", true},
		{"s3", DriverImportForbidden, "github.com/aws/aws-sdk-go-v2/service/s3", true},
		{"uuid", DriverImportForbidden, "github.com/google/uuid", false},
	}
	for _, c := range cases {
		if got := c.fn(c.in); got != c.want {
			t.Fatalf("%s: predicate(%q)=%v want %v", c.name, c.in, got, c.want)
		}
	}
}

func TestAssertNoDirectImportsIgnoresTests(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.go", "package tmp\nimport \"fmt\"\nfunc X() { fmt.Println(1) }\n")
	writeFile(t, dir, "x_test.go", "package tmp\nimport \"sembako/internal/core\"\n")
	AssertNoDirectImports(t, dir, InternalImportForbidden, "tests are exempt")
}

func TestAssertNoDirectImportsReportsViolation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.go", "package tmp\nimport _ \"sembako/internal/core\"\n")
	rec := &fatalRecorder{TB: t}
	AssertNoDirectImports(rec, dir, InternalImportForbidden, "domain purity")
	if !strings.Contains(rec.msg, "sembako/internal/core (in x.go)") {
		t.Fatalf("expected violation to be reported, got %q", rec.msg)
	}
}

func TestAssertNoTransitiveDependency(t *testing.T) {
	prev := goListDeps
	defer func() { goListDeps = prev }()
	goListDeps = func(string) ([]byte, error) {
		return []byte("context\nsembako/pkg/domain\nmodernc.org/sqlite\n"), nil
	}

	AssertNoTransitiveDependency(t, "./...", func(string) bool { return false }, "none")

	rec := &fatalRecorder{TB: t}
	AssertNoTransitiveDependency(rec, "./...", DriverImportForbidden, "drivers")
	if !strings.Contains(rec.msg, "modernc.org/sqlite") {
		t.Fatalf("expected sqlite violation, got %q", rec.msg)
	}

	goListDeps = func(string) ([]byte, error) { return []byte("boom"), errors.New("exit 1") }
	rec = &fatalRecorder{TB: t}
	AssertNoTransitiveDependency(rec, "./...", DriverImportForbidden, "drivers")
	if rec.msg == "" {
		t.Fatalf("expected go list failure to be reported")
	}
}
