package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// CreateDeckFile writes a deck list file into a temp directory
func CreateDeckFile(t *testing.T, lines ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "decks.txt")
	CreateTestFile(t, path, []byte(strings.Join(lines, "\n")+"\n"))
	return path
}

// CreateCredentialsFile writes a placeholder service account key
func CreateCredentialsFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "service_account.json")
	CreateTestFile(t, path, []byte(`{"type": "service_account"}`))
	return path
}

// AssertCalls checks recorded mock calls match exactly
func AssertCalls(t *testing.T, got, want []string) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("Call count mismatch\nExpected: %q\nActual: %q", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Call %d mismatch\nExpected: %q\nActual: %q", i, want[i], got[i])
		}
	}
}

// SetEnv sets environment variables for the duration of a test
func SetEnv(t *testing.T, vars map[string]string) {
	t.Helper()

	for k, v := range vars {
		t.Setenv(k, v)
	}
}
