// Package catalog loads and validates lesson catalogs authored as YAML.
package catalog

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vytor/lingoflash/internal/models"
)

type lessonDoc struct {
	ID            int64              `yaml:"id"`
	Order         int                `yaml:"order"`
	Title         string             `yaml:"title"`
	Description   string             `yaml:"description"`
	Complexity    float64            `yaml:"complexity"`
	Skills        map[string]float64 `yaml:"skills"`
	XPReward      int                `yaml:"xp_reward"`
	Prerequisites []int64            `yaml:"prerequisites"`
}

type catalogDoc struct {
	Lessons []lessonDoc `yaml:"lessons"`
}

// LoadFile reads a catalog file and validates it.
func LoadFile(path string) ([]models.Lesson, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a catalog document and validates it.
func Load(r io.Reader) ([]models.Lesson, error) {
	var doc catalogDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	lessons := make([]models.Lesson, 0, len(doc.Lessons))
	var errs []string
	for _, d := range doc.Lessons {
		l := models.Lesson{
			ID:             d.ID,
			OrderIndex:     d.Order,
			Title:          d.Title,
			Description:    d.Description,
			Complexity:     d.Complexity,
			XPReward:       d.XPReward,
			Prerequisites:  d.Prerequisites,
			SkillsTargeted: make(map[models.Skill]float64, len(d.Skills)),
		}
		for name, w := range d.Skills {
			skill, ok := models.ParseSkill(name)
			if !ok {
				errs = append(errs, fmt.Sprintf("lesson %d: unknown skill %q", d.ID, name))
				continue
			}
			l.SkillsTargeted[skill] = w
		}
		lessons = append(lessons, l)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid catalog:\n  %s", strings.Join(errs, "\n  "))
	}
	if err := Validate(lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

// Validate performs all structural checks on the lessons and returns one
// error describing every problem found.
func Validate(lessons []models.Lesson) error {
	var errs []string

	ids := make(map[int64]bool, len(lessons))
	for _, l := range lessons {
		if l.ID <= 0 {
			errs = append(errs, fmt.Sprintf("lesson %q: id must be positive", l.Title))
		}
		if ids[l.ID] {
			errs = append(errs, fmt.Sprintf("duplicate lesson id %d", l.ID))
		}
		ids[l.ID] = true

		if strings.TrimSpace(l.Title) == "" {
			errs = append(errs, fmt.Sprintf("lesson %d: title is required", l.ID))
		}
		if !(l.Complexity > 0) {
			errs = append(errs, fmt.Sprintf("lesson %d: complexity must be positive", l.ID))
		}
		if l.XPReward < 0 {
			errs = append(errs, fmt.Sprintf("lesson %d: xp_reward cannot be negative", l.ID))
		}
		for skill, w := range l.SkillsTargeted {
			if _, ok := models.ParseSkill(string(skill)); !ok {
				errs = append(errs, fmt.Sprintf("lesson %d: unknown skill %q", l.ID, skill))
			}
			if w < 0 || w > 1 {
				errs = append(errs, fmt.Sprintf("lesson %d: weight for %s must be within [0, 1]", l.ID, skill))
			}
		}
	}

	for _, l := range lessons {
		for _, p := range l.Prerequisites {
			if p == l.ID {
				errs = append(errs, fmt.Sprintf("lesson %d lists itself as a prerequisite", l.ID))
			} else if !ids[p] {
				errs = append(errs, fmt.Sprintf("lesson %d references missing prerequisite %d", l.ID, p))
			}
		}
	}

	if cyclic := cycleMembers(lessons, ids); len(cyclic) > 0 {
		parts := make([]string, len(cyclic))
		for i, id := range cyclic {
			parts[i] = fmt.Sprint(id)
		}
		errs = append(errs, "prerequisite cycle involving lessons: "+strings.Join(parts, ", "))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid catalog:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// cycleMembers runs Kahn's algorithm over the prerequisite graph and returns
// the ids that never reach in-degree zero.
func cycleMembers(lessons []models.Lesson, ids map[int64]bool) []int64 {
	inDegree := make(map[int64]int, len(lessons))
	dependents := make(map[int64][]int64)
	for _, l := range lessons {
		for _, p := range l.Prerequisites {
			if !ids[p] || p == l.ID {
				continue
			}
			inDegree[l.ID]++
			dependents[p] = append(dependents[p], l.ID)
		}
	}

	var queue []int64
	for _, l := range lessons {
		if inDegree[l.ID] == 0 {
			queue = append(queue, l.ID)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, dep := range dependents[id] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	var stuck []int64
	for id, deg := range inDegree {
		if deg > 0 {
			stuck = append(stuck, id)
		}
	}
	sort.Slice(stuck, func(i, j int) bool { return stuck[i] < stuck[j] })
	return stuck
}
