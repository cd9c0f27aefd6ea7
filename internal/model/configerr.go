package model

import (
	"fmt"
	"regexp"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// CueErrorDetail is one humanized schema violation. CUE errors are precise
// but phrased for CUE users; this form names the config path and a stable
// code a caller can branch or log on.
type CueErrorDetail struct {
	Path    string // e.g. service.schedule.cron
	Code    string // unknown_field | missing_required | type_mismatch | ...
	Message string
	Line    int
	Column  int
}

func (d CueErrorDetail) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s (line %d, column %d): %s", d.Path, d.Line, d.Column, d.Message)
	}
	if d.Path != "" {
		return d.Path + ": " + d.Message
	}
	return d.Message
}

var (
	reIncomplete  = regexp.MustCompile(`(?i)incomplete value`)
	reNotAllowed  = regexp.MustCompile(`(?i)not allowed|unknown field`)
	reConflict    = regexp.MustCompile(`(?i)conflicting values|cannot unify|incompatible`)
	reExpectedGot = regexp.MustCompile(`(?i)expected .* got .*`)
)

// CueErrDetails explodes a LoadConfig error into per-field messages suitable
// for logging one by one. Non-CUE errors yield a single detail.
func CueErrDetails(err error) []CueErrorDetail {
	if err == nil {
		return nil
	}

	var out []CueErrorDetail
	seen := make(map[string]struct{})
	for _, e := range cueerrors.Errors(err) {
		raw, args := e.Msg()
		msg := fmt.Sprintf(raw, args...)
		path := normalizePath(e.Path())
		code, human := classify(msg, path)

		d := CueErrorDetail{
			Path:    path,
			Code:    code,
			Message: human,
		}
		for _, pos := range cueerrors.Positions(e) {
			if pos.Filename() == "" {
				continue
			}
			d.Line = pos.Line()
			d.Column = pos.Column()
			break
		}

		key := fmt.Sprintf("%s:%d:%d:%s", d.Path, d.Line, d.Column, d.Code)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, d)
	}

	if len(out) == 0 {
		out = append(out, CueErrorDetail{Code: "validation_error", Message: err.Error()})
	}
	return out
}

func classify(raw, path string) (code, msg string) {
	switch {
	case reNotAllowed.MatchString(raw):
		return "unknown_field", fmt.Sprintf("field %s is not allowed", last(path))
	case reIncomplete.MatchString(raw):
		return "missing_required", fmt.Sprintf("field %s is required", last(path))
	case reConflict.MatchString(raw):
		return "conflicting_values", fmt.Sprintf("invalid value for %s: %s", last(path), raw)
	case reExpectedGot.MatchString(raw):
		return "type_mismatch", fmt.Sprintf("field %s has wrong type: %s", last(path), raw)
	default:
		return "validation_error", raw
	}
}

func normalizePath(p []string) string {
	if len(p) == 0 {
		return ""
	}
	// drop the leading #Config definition
	if strings.HasPrefix(p[0], "#") {
		p = p[1:]
	}
	return strings.Join(p, ".")
}

func last(p string) string {
	if p == "" {
		return "value"
	}
	if i := strings.LastIndexByte(p, '.'); i >= 0 {
		return p[i+1:]
	}
	return p
}
