package model

import (
	"encoding/json"
	"fmt"
)

// Level classifies a note's priority. The numeric weight is part of the
// enum's definition but nothing orders notes by it.
type Level int

const (
	LevelLow Level = iota + 1
	LevelMedium
	LevelHigh
)

var levelNames = map[Level]string{
	LevelLow:    "LOW",
	LevelMedium: "MEDIUM",
	LevelHigh:   "HIGH",
}

// ParseLevel converts a wire value ("LOW", "MEDIUM", "HIGH") to a Level.
func ParseLevel(s string) (Level, error) {
	for l, name := range levelNames {
		if name == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("invalid level %q", s)
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Weight returns the level's numeric weight (LOW=1, MEDIUM=2, HIGH=3).
func (l Level) Weight() int {
	return int(l)
}

func (l Level) MarshalJSON() ([]byte, error) {
	name, ok := levelNames[l]
	if !ok {
		return nil, fmt.Errorf("invalid level %d", int(l))
	}
	return json.Marshal(name)
}

func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("level must be one of LOW, MEDIUM, HIGH")
	}
	parsed, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
