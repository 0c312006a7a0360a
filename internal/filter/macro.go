package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// macros are named sub-expressions usable as %{NAME} inside a --regex pattern.
var macros = map[string]string{
	"IP":         `(?:\d{1,3}\.){3}\d{1,3}`,
	"WORD":       `\w+`,
	"INT":        `[+-]?\d+`,
	"NUMBER":     `[+-]?(?:\d+\.?\d*|\.\d+)`,
	"NOTSPACE":   `\S+`,
	"TIMESTAMP":  `\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?`,
	"LOGLEVEL":   `(?:DEBUG|INFO|WARN(?:ING)?|ERROR|ERR|FATAL|PANIC|CRITICAL|TRACE)`,
	"PATH":       `(?:/[\w.]+)+`,
	"URI":        `\S+://\S+`,
	"UUID":       `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
	"HTTPMETHOD": `(?:GET|POST|PUT|DELETE|PATCH|HEAD|OPTIONS|CONNECT|TRACE)`,
	"STATUSCODE": `\d{3}`,
	"DURATION":   `\d+(?:\.\d+)?(?:ns|us|µs|ms|s|m|h)`,
}

var macroRe = regexp.MustCompile(`%\{(\w+)\}`)

// expandMacros replaces every %{NAME} with a non-capturing group of its expression.
func expandMacros(pattern string) (string, error) {
	if !strings.Contains(pattern, "%{") {
		return pattern, nil
	}

	var unknown string
	out := macroRe.ReplaceAllStringFunc(pattern, func(tok string) string {
		name := macroRe.FindStringSubmatch(tok)[1]
		expr, ok := macros[name]
		if !ok {
			if unknown == "" {
				unknown = name
			}
			return tok
		}
		return "(?:" + expr + ")"
	})
	if unknown != "" {
		return "", fmt.Errorf("unknown pattern macro %%{%s}", unknown)
	}
	return out, nil
}
