/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package roster

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// SkillsDB maps an employee alias to the skills the store has on file.
// It is a plain lookup table: loaded once per run and never mutated,
// so concurrent runs can each hold their own copy safely.
type SkillsDB map[string][]string

type skillsFile struct {
	Employees []struct {
		Alias  string   `json:"alias"`
		Skills []string `json:"skills"`
	} `json:"employees"`
}

// ParseSkillsDB reads the skills database JSON and validates every skill
// against the vocabulary.
func ParseSkillsDB(r io.Reader, vocabulary []string) (SkillsDB, error) {
	var file skillsFile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse skills database: %w", err)
	}
	if file.Employees == nil {
		return nil, fmt.Errorf("invalid skills database: missing employees key")
	}

	known := make(map[string]struct{}, len(vocabulary))
	for _, s := range vocabulary {
		known[s] = struct{}{}
	}

	db := make(SkillsDB, len(file.Employees))
	for _, emp := range file.Employees {
		if emp.Alias == "" {
			return nil, fmt.Errorf("invalid skills database: employee with empty alias")
		}
		if len(emp.Skills) == 0 {
			return nil, fmt.Errorf("invalid skills database: employee %s has no skills", emp.Alias)
		}
		if _, dup := db[emp.Alias]; dup {
			return nil, fmt.Errorf("invalid skills database: duplicate alias %s", emp.Alias)
		}
		for _, skill := range emp.Skills {
			if _, ok := known[skill]; !ok {
				return nil, fmt.Errorf("invalid skills for employee %s: %s", emp.Alias, skill)
			}
		}
		skills := make([]string, len(emp.Skills))
		copy(skills, emp.Skills)
		sort.Strings(skills)
		db[emp.Alias] = skills
	}

	return db, nil
}

// LoadSkillsDB reads the skills database from a file path.
func LoadSkillsDB(path string, vocabulary []string) (SkillsDB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open skills database: %w", err)
	}
	defer f.Close()
	return ParseSkillsDB(f, vocabulary)
}

// Has reports whether the alias holds the given skill.
func (db SkillsDB) Has(alias, skill string) bool {
	for _, s := range db[alias] {
		if s == skill {
			return true
		}
	}
	return false
}
