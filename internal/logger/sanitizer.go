package logger

import (
	"fmt"
	"regexp"
	"strings"
)

// Sanitizer scrubs secrets, and optionally home-directory user names, from log records.
//
// Only values under sensitive keys are masked wholesale. Other string values
// pass through the pattern rules, so a path arg like "path", "/home/ann/x"
// becomes "/home/***/x" when home masking is on.
type Sanitizer struct {
	rules []sanitizeRule
}

type sanitizeRule struct {
	pattern     *regexp.Regexp
	replacement string
}

var (
	secretRules = []sanitizeRule{
		{regexp.MustCompile(`(?i)password=\S+`), "password=***"},
		{regexp.MustCompile(`(?i)token=\S+`), "token=***"},
		{regexp.MustCompile(`(?i)api[_-]?key=\S+`), "api_key=***"},
	}

	homeRules = []sanitizeRule{
		{regexp.MustCompile(`(?i)([A-Z]:\\Users\\)[^\\]+`), "${1}***"},
		{regexp.MustCompile(`/home/[^/]+`), "/home/***"},
		{regexp.MustCompile(`/Users/[^/]+`), "/Users/***"},
	}

	sensitiveKeys = []string{"password", "passwd", "token", "secret", "api_key", "apikey", "credential"}
)

// NewSanitizer creates a sanitizer; maskHome enables home-path masking
func NewSanitizer(maskHome bool) *Sanitizer {
	rules := append([]sanitizeRule(nil), secretRules...)
	if maskHome {
		rules = append(rules, homeRules...)
	}
	return &Sanitizer{rules: rules}
}

// Sanitize applies every rule to input
func (s *Sanitizer) Sanitize(input string) string {
	for _, rule := range s.rules {
		input = rule.pattern.ReplaceAllString(input, rule.replacement)
	}
	return input
}

// SanitizeArgs returns a scrubbed copy of slog-style key/value args
func (s *Sanitizer) SanitizeArgs(args []any) []any {
	if len(args) == 0 {
		return args
	}

	result := make([]any, len(args))
	copy(result, args)

	for i := 0; i < len(result)-1; i += 2 {
		key, ok := result[i].(string)
		if !ok {
			continue
		}

		var value string
		switch v := result[i+1].(type) {
		case string:
			value = v
		case error:
			value = v.Error()
		default:
			continue
		}

		if isSensitiveKey(key) {
			result[i+1] = maskValue(value)
		} else {
			result[i+1] = s.Sanitize(value)
		}
	}

	return result
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, sk := range sensitiveKeys {
		if strings.Contains(lower, sk) {
			return true
		}
	}
	return false
}

// maskValue keeps the first character, and the last one for longer values
func maskValue(value string) string {
	if len(value) <= 2 {
		return "***"
	}
	if len(value) <= 8 {
		return fmt.Sprintf("%c***", value[0])
	}
	return fmt.Sprintf("%c***%c", value[0], value[len(value)-1])
}
