package google

import (
	"encoding/json"
	"fmt"
	"os"
)

// clientFile mirrors the credentials JSON downloaded from the Google
// Cloud console. Both the installed-app and web-app variants are
// accepted.
type clientFile struct {
	Installed *clientSection `json:"installed"`
	Web       *clientSection `json:"web"`
}

type clientSection struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	RedirectURIs []string `json:"redirect_uris"`
}

// LoadCredentialsFile reads an OAuth client credentials JSON file.
func LoadCredentialsFile(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("reading credentials file: %w", err)
	}

	var f clientFile
	if err := json.Unmarshal(data, &f); err != nil {
		return Credentials{}, fmt.Errorf("parsing credentials file %s: %w", path, err)
	}

	section := f.Installed
	if section == nil {
		section = f.Web
	}
	if section == nil || section.ClientID == "" || section.ClientSecret == "" {
		return Credentials{}, fmt.Errorf("credentials file %s has no installed or web client", path)
	}

	creds := Credentials{
		ClientID:     section.ClientID,
		ClientSecret: section.ClientSecret,
	}
	if len(section.RedirectURIs) > 0 {
		creds.RedirectURI = section.RedirectURIs[0]
	}
	return creds, nil
}
