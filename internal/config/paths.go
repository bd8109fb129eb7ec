package config

import (
	"os"
	"path/filepath"
)

// defaultSQLitePath returns ~/.ferveu/session.db, or a relative path when the
// home directory cannot be resolved.
func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".ferveu", "session.db")
	}
	return filepath.Join(home, ".ferveu", "session.db")
}
