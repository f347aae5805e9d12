/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package roster

import (
	"strings"
	"testing"
	"time"
)

var testVocabulary = []string{"ENT", "CSH", "CSS", "ACO"}

func testSkills(t *testing.T) SkillsDB {
	t.Helper()
	db, err := ParseSkillsDB(strings.NewReader(`{
		"employees": [
			{"alias": "kempkyan", "skills": ["CSH", "CSS"]},
			{"alias": "fizzyfiz", "skills": ["ENT"]}
		]
	}`), testVocabulary)
	if err != nil {
		t.Fatalf("parse skills: %v", err)
	}
	return db
}

func TestParseCSV(t *testing.T) {
	csv := "Alias,Start Time,End Time\n" +
		"kempkyan,2026-03-02 09:00,2026-03-02 17:00\n" +
		"fizzyfiz,2026-03-02 10:30,2026-03-02 15:00\n"

	records, err := ParseCSV(strings.NewReader(csv), testSkills(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	first := records[0]
	if first.Alias != "kempkyan" {
		t.Fatalf("alias = %s, want kempkyan", first.Alias)
	}
	if !first.HasSkill("CSS") || first.HasSkill("ENT") {
		t.Fatalf("unexpected skills %v", first.Skills)
	}
	want, _ := time.Parse(TimeLayout, "2026-03-02 09:00")
	if !first.Start.Equal(want) {
		t.Fatalf("start = %v, want %v", first.Start, want)
	}
}

func TestParseCSVErrors(t *testing.T) {
	cases := []struct {
		name string
		csv  string
		want string
	}{
		{
			name: "empty file",
			csv:  "",
			want: "roster CSV is empty",
		},
		{
			name: "missing column",
			csv:  "Alias,Start Time\nkempkyan,2026-03-02 09:00\n",
			want: `missing required column "End Time"`,
		},
		{
			name: "unknown alias",
			csv: "Alias,Start Time,End Time\n" +
				"stranger,2026-03-02 09:00,2026-03-02 17:00\n",
			want: "line 2: unknown employee alias stranger",
		},
		{
			name: "duplicate alias",
			csv: "Alias,Start Time,End Time\n" +
				"kempkyan,2026-03-02 09:00,2026-03-02 12:00\n" +
				"kempkyan,2026-03-02 12:00,2026-03-02 17:00\n",
			want: "line 3: duplicate alias kempkyan (first on line 2)",
		},
		{
			name: "bad start time",
			csv: "Alias,Start Time,End Time\n" +
				"kempkyan,nine,2026-03-02 17:00\n",
			want: "line 2: invalid start time for kempkyan",
		},
		{
			name: "inverted window",
			csv: "Alias,Start Time,End Time\n" +
				"kempkyan,2026-03-02 17:00,2026-03-02 09:00\n",
			want: "line 2: shift for kempkyan ends before it starts",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tc.csv), testSkills(t))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestParseSkillsDB(t *testing.T) {
	db := testSkills(t)

	if len(db) != 2 {
		t.Fatalf("employees = %d, want 2", len(db))
	}
	if !db.Has("kempkyan", "CSH") {
		t.Fatal("kempkyan should have CSH")
	}
	if db.Has("kempkyan", "ACO") {
		t.Fatal("kempkyan should not have ACO")
	}
	if db.Has("stranger", "CSH") {
		t.Fatal("unknown alias should have no skills")
	}
}

func TestParseSkillsDBErrors(t *testing.T) {
	cases := []struct {
		name string
		json string
		want string
	}{
		{
			name: "not json",
			json: "not json",
			want: "parse skills database",
		},
		{
			name: "missing employees key",
			json: `{"staff": []}`,
			want: "missing employees key",
		},
		{
			name: "empty alias",
			json: `{"employees": [{"alias": "", "skills": ["CSH"]}]}`,
			want: "employee with empty alias",
		},
		{
			name: "no skills",
			json: `{"employees": [{"alias": "kempkyan", "skills": []}]}`,
			want: "employee kempkyan has no skills",
		},
		{
			name: "duplicate alias",
			json: `{"employees": [
				{"alias": "kempkyan", "skills": ["CSH"]},
				{"alias": "kempkyan", "skills": ["ENT"]}
			]}`,
			want: "duplicate alias kempkyan",
		},
		{
			name: "unknown skill",
			json: `{"employees": [{"alias": "kempkyan", "skills": ["XYZ"]}]}`,
			want: "invalid skills for employee kempkyan: XYZ",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSkillsDB(strings.NewReader(tc.json), testVocabulary)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}
