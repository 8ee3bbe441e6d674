package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Skill names one axis of a learner's skill vector.
type Skill string

const (
	SkillReading    Skill = "reading"
	SkillWriting    Skill = "writing"
	SkillSpeaking   Skill = "speaking"
	SkillGrammar    Skill = "grammar"
	SkillVocabulary Skill = "vocabulary"
	SkillListening  Skill = "listening"
)

const (
	// DefaultSkillLevel is assigned to every skill at profile creation and reset.
	DefaultSkillLevel = 10.0
	// MaxSkillLevel caps every skill on all write paths.
	MaxSkillLevel = 100.0
)

// AllSkills returns the skills in display order.
func AllSkills() []Skill {
	return []Skill{SkillReading, SkillWriting, SkillSpeaking, SkillGrammar, SkillVocabulary, SkillListening}
}

// ParseSkill normalizes a skill name.
func ParseSkill(s string) (Skill, bool) {
	sk := Skill(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllSkills() {
		if sk == known {
			return sk, true
		}
	}
	return "", false
}

// SkillVector holds one proficiency value per skill. Values stay within
// [0, MaxSkillLevel].
type SkillVector struct {
	Reading    float64
	Writing    float64
	Speaking   float64
	Grammar    float64
	Vocabulary float64
	Listening  float64
}

// DefaultSkillVector returns a vector with every skill at DefaultSkillLevel.
func DefaultSkillVector() SkillVector {
	var v SkillVector
	for _, s := range AllSkills() {
		v.Set(s, DefaultSkillLevel)
	}
	return v
}

func (v SkillVector) Get(s Skill) float64 {
	switch s {
	case SkillReading:
		return v.Reading
	case SkillWriting:
		return v.Writing
	case SkillSpeaking:
		return v.Speaking
	case SkillGrammar:
		return v.Grammar
	case SkillVocabulary:
		return v.Vocabulary
	case SkillListening:
		return v.Listening
	}
	return 0
}

// Set stores a clamped value. Unknown skills are ignored.
func (v *SkillVector) Set(s Skill, value float64) {
	value = ClampSkill(value)
	switch s {
	case SkillReading:
		v.Reading = value
	case SkillWriting:
		v.Writing = value
	case SkillSpeaking:
		v.Speaking = value
	case SkillGrammar:
		v.Grammar = value
	case SkillVocabulary:
		v.Vocabulary = value
	case SkillListening:
		v.Listening = value
	}
}

// Mean is the average over all skills.
func (v SkillVector) Mean() float64 {
	skills := AllSkills()
	sum := 0.0
	for _, s := range skills {
		sum += v.Get(s)
	}
	return sum / float64(len(skills))
}

// Map returns the vector keyed by skill name.
func (v SkillVector) Map() map[Skill]float64 {
	out := make(map[Skill]float64, len(AllSkills()))
	for _, s := range AllSkills() {
		out[s] = v.Get(s)
	}
	return out
}

// ClampSkill bounds a skill value to [0, MaxSkillLevel]. NaN becomes 0.
func ClampSkill(value float64) float64 {
	switch {
	case math.IsNaN(value), value < 0:
		return 0
	case value > MaxSkillLevel:
		return MaxSkillLevel
	}
	return value
}

func (v SkillVector) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Map())
}

// UnmarshalJSON accepts legacy records: missing skills fall back to the
// default level, unknown keys are dropped and numeric strings are accepted.
func (v *SkillVector) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decode skill vector: %w", err)
	}
	out := DefaultSkillVector()
	for key, val := range raw {
		skill, ok := ParseSkill(key)
		if !ok {
			continue
		}
		switch n := val.(type) {
		case float64:
			out.Set(skill, n)
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				out.Set(skill, f)
			}
		}
	}
	*v = out
	return nil
}

// ParseSkillVector decodes a stored skill vector. Empty input yields defaults.
func ParseSkillVector(s string) (SkillVector, error) {
	if strings.TrimSpace(s) == "" || s == "null" {
		return DefaultSkillVector(), nil
	}
	var v SkillVector
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return SkillVector{}, err
	}
	return v, nil
}
