package prospect

import "strings"

const (
	LevelAAA   = "AAA"
	LevelAA    = "AA"
	LevelHighA = "A+"
	LevelA     = "A"
	LevelRk    = "Rk"
	LevelFRk   = "FRk"
)

// levelOrder ranks minor-league tiers highest first.
var levelOrder = []string{LevelAAA, LevelAA, LevelHighA, LevelA, LevelRk, LevelFRk}

// ReduceLevel picks the single highest tier out of a comma-joined level list,
// e.g. "AA,AAA" reduces to "AAA". Unrecognized tokens pass through unchanged.
func ReduceLevel(raw string) string {
	if raw == "" {
		return raw
	}

	parts := strings.Split(raw, ",")
	tokens := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		tokens[strings.TrimSpace(part)] = struct{}{}
	}

	for _, level := range levelOrder {
		if _, ok := tokens[level]; ok {
			return level
		}
	}

	return raw
}

// LevelIndex returns the position of a level in the hierarchy, highest tier
// first, or len(levelOrder) for levels outside it. Used for stable breakdown
// ordering only.
func LevelIndex(level string) int {
	for i, l := range levelOrder {
		if l == level {
			return i
		}
	}
	return len(levelOrder)
}
