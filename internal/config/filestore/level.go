package filestore

import (
	"fmt"
	"strings"
)

// Level names where a backend sits in the usual git precedence order.
// Larger values are more specific.
type Level int

const (
	LevelDefault Level = iota
	LevelSystem
	LevelXDG
	LevelGlobal
	LevelLocal
	LevelWorktree
	LevelApp
	LevelEnv
)

var levelNames = map[Level]string{
	LevelDefault:  "default",
	LevelSystem:   "system",
	LevelXDG:      "xdg",
	LevelGlobal:   "global",
	LevelLocal:    "local",
	LevelWorktree: "worktree",
	LevelApp:      "app",
	LevelEnv:      "env",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel returns the Level called name.
func ParseLevel(name string) (Level, error) {
	for l, n := range levelNames {
		if strings.EqualFold(n, name) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown config level %q", name)
}
