package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const defaultSecretsDir = "/run/secrets"

// ReadSecret reads a Docker secret from SECRETS_DIR (default /run/secrets).
// When the file is missing it falls back to the upper-cased env variable
// so the service can run outside of compose.
func ReadSecret(secretName string) (string, error) {
	dir := os.Getenv("SECRETS_DIR")
	if dir == "" {
		dir = defaultSecretsDir
	}
	filePath := filepath.Join(dir, secretName)

	secretBytes, err := os.ReadFile(filePath)
	if err != nil {
		if v := strings.TrimSpace(os.Getenv(strings.ToUpper(secretName))); v != "" {
			return v, nil
		}
		return "", fmt.Errorf("failed to read secret file %s: %w", filePath, err)
	}
	secret := strings.TrimSpace(string(secretBytes))
	if secret == "" {
		return "", fmt.Errorf("secret file %s is empty", filePath)
	}
	return secret, nil
}
