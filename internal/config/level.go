package config

import "gitconf/internal/config/filestore"

// Level names the origin of a backend, from least to most specific.
type Level = filestore.Level

const (
	LevelDefault  = filestore.LevelDefault
	LevelSystem   = filestore.LevelSystem
	LevelXDG      = filestore.LevelXDG
	LevelGlobal   = filestore.LevelGlobal
	LevelLocal    = filestore.LevelLocal
	LevelWorktree = filestore.LevelWorktree
	LevelApp      = filestore.LevelApp
	LevelEnv      = filestore.LevelEnv
)

// ParseLevel returns the Level called name ("local", "global", ...).
func ParseLevel(name string) (Level, error) {
	return filestore.ParseLevel(name)
}
