package llmadvisor

import (
	"regexp"
	"strings"
)

var regexPatternsBlockRE = regexp.MustCompile(`(?is)REGEX_PATTERNS\s*:\s*(.+?)(?:\n\s*\n|$)`)
var thinkBodyRE = regexp.MustCompile(`(?is)<think>(.*?)</think>`)
var slashPatternRE = regexp.MustCompile(`/((?:[^/\\]|\\.)+)/([a-zA-Z]*)`)

// ExtractRegexPatterns applies the three-tier pattern parser described in
// §4.4.3: a structured "REGEX_PATTERNS:" block first, then a scan of any
// <think> body, then a free-form "/body/flags" scan over the whole
// response. Each returned string is normalized to "/body/flags" form.
// Malformed-pattern rejection is the caller's responsibility (it depends
// on PatternGenerator's own thresholds).
func ExtractRegexPatterns(response string) []string {
	if block := regexPatternsBlockRE.FindStringSubmatch(response); block != nil {
		if found := scanSlashPatterns(block[1]); len(found) > 0 {
			return found
		}
	}

	if think := thinkBodyRE.FindStringSubmatch(response); think != nil {
		if found := scanSlashPatterns(think[1]); len(found) > 0 {
			return found
		}
	}

	return scanSlashPatterns(response)
}

func scanSlashPatterns(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		for _, m := range slashPatternRE.FindAllStringSubmatch(line, -1) {
			body, flags := m[1], m[2]
			out = append(out, "/"+body+"/"+flags)
		}
	}
	return out
}
