// Package redact scrubs the oracle team token out of request/response
// bodies before they are persisted to api_logs: a compiled regex plus its
// replacement, applied defensively so a scrub never fails the caller.
package redact

import "regexp"

// CompiledPattern is a pre-compiled regex and its replacement text.
type CompiledPattern struct {
	Name        string
	Regex       *regexp.Regexp
	Replacement string
}

// idPattern matches the team token field in both the oracle request bodies
// this system constructs ("id":"...") and any upstream response that might
// echo it back.
var idPattern = CompiledPattern{
	Name:        "upstream_team_token",
	Regex:       regexp.MustCompile(`"id"\s*:\s*"[^"]*"`),
	Replacement: `"id":"***"`,
}

// Scrub returns a copy of body with the team token field replaced. It never
// errors: if body isn't valid JSON the regex simply finds no match and the
// original bytes are returned unchanged, since raw bodies must still be
// persisted verbatim for replay even when scrubbing can't apply.
func Scrub(body []byte) []byte {
	return idPattern.Regex.ReplaceAll(body, []byte(idPattern.Replacement))
}
