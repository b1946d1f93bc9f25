package driver_test

import (
	"os"
	"path/filepath"
)

func newTempRuleFile(content string) (string, error) {
	dir, err := os.MkdirTemp("", "mlox-driver-acceptance-*")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "rules.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
