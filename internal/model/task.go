package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Family groups the supported Office document kinds. It selects the output
// suffix and decides whether prepare-for-print applies.
type Family string

const (
	FamilyExcel      Family = "excel"
	FamilyWord       Family = "word"
	FamilyPowerPoint Family = "powerpoint"
)

var familyExtensions = map[Family][]string{
	FamilyExcel:      {".xls", ".xlsx", ".xlsm", ".xlsb"},
	FamilyWord:       {".doc", ".docx", ".docm", ".dotx", ".dotm"},
	FamilyPowerPoint: {".ppt", ".pptx", ".pptm", ".ppsx", ".ppsm", ".potx", ".potm"},
}

// FamilyOf returns the document family for a path, or "" when the
// extension is not a supported Office format.
func FamilyOf(path string) Family {
	ext := strings.ToLower(filepath.Ext(path))
	for family, exts := range familyExtensions {
		for _, e := range exts {
			if e == ext {
				return family
			}
		}
	}
	return ""
}

// ParseFamily maps a user-facing name onto a Family.
func ParseFamily(s string) (Family, error) {
	f := Family(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := familyExtensions[f]; !ok {
		return "", fmt.Errorf("unknown document family %q", s)
	}
	return f, nil
}

// Extensions returns the file extensions belonging to the family.
func (f Family) Extensions() []string {
	return familyExtensions[f]
}

// Task is one unit of work: one input converted to one output under one
// deadline. It is fully resolved before dispatch (absolute paths, merged
// engine configuration) and immutable afterwards. The supervisor serializes
// it as JSON onto the worker's stdin.
type Task struct {
	ID       string        `json:"id"`
	Input    string        `json:"input"`
	Output   string        `json:"output"`
	Family   Family        `json:"family"`
	Language string        `json:"language,omitempty"`
	Deadline time.Duration `json:"deadline"`
	Engine   Engine        `json:"engine"`
}
