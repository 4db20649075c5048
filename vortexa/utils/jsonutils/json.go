package jsonutils

import (
	"regexp"
	"strings"
)

var (
	reFence = regexp.MustCompile("(?s)```json(.*?)```")
	reObj   = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON pulls a JSON object out of generative-model output.
//
// Priority:
// 1. Triple-backtick fenced ```json ... ```
// 2. Any {...} JSON object (greedy, first { to last })
//
// Models routinely wrap otherwise valid JSON in markdown fences or prose;
// this strips both. Invisible Unicode characters (BOM, zero-width) are
// removed first.
func ExtractJSON(input string) string {
	input = strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == '\uFEFF' || r == '\u200B' || r == '\u200C' || r == '\u200D' {
			return -1
		}
		return r
	}, input))

	if match := reFence.FindStringSubmatch(input); len(match) > 1 {
		return strings.TrimSpace(match[1])
	}
	if match := reObj.FindString(input); match != "" {
		return strings.TrimSpace(match)
	}
	return input
}
