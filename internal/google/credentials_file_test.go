package google

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCredentialsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCredentialsFileInstalled(t *testing.T) {
	path := writeCredentialsFile(t, `{
		"installed": {
			"client_id": "id-1",
			"client_secret": "secret-1",
			"redirect_uris": ["http://localhost:8080/auth/callback"]
		}
	}`)

	creds, err := LoadCredentialsFile(path)
	if err != nil {
		t.Fatalf("LoadCredentialsFile: %v", err)
	}
	if creds.ClientID != "id-1" {
		t.Errorf("expected client id id-1, got %q", creds.ClientID)
	}
	if creds.RedirectURI != "http://localhost:8080/auth/callback" {
		t.Errorf("unexpected redirect uri %q", creds.RedirectURI)
	}
}

func TestLoadCredentialsFileWeb(t *testing.T) {
	path := writeCredentialsFile(t, `{
		"web": {"client_id": "id-2", "client_secret": "secret-2"}
	}`)

	creds, err := LoadCredentialsFile(path)
	if err != nil {
		t.Fatalf("LoadCredentialsFile: %v", err)
	}
	if creds.ClientID != "id-2" {
		t.Errorf("expected client id id-2, got %q", creds.ClientID)
	}
}

func TestLoadCredentialsFileRejectsEmpty(t *testing.T) {
	path := writeCredentialsFile(t, `{}`)
	if _, err := LoadCredentialsFile(path); err == nil {
		t.Error("expected error for credentials file without client")
	}
}
