package logx

import (
	"regexp"
)

type SensitiveDataMaskerInterface interface {
	Mask(input []byte) []byte
}

//nolint:gochecknoglobals
var sensitiveDataPatterns = []*regexp.Regexp{
	// HTTP headers.
	regexp.MustCompile(`(?s)(Authorization: \w+ ).+?(\r)`),
	// JSON fields.
	regexp.MustCompile(`(?s)("[Pp]assword":\s?").+?(")`),
	regexp.MustCompile(`(?s)("(?:access|refresh)_?[Tt]oken":\s?").+?(")`),
	regexp.MustCompile(`(?s)("init_?[Dd]ata":\s?").+?(")`),
	regexp.MustCompile(`(?s)("first_?[Nn]ame":\s?").+?(")`),
	regexp.MustCompile(`(?s)("last_?[Nn]ame":\s?").+?(")`),
	regexp.MustCompile(`(?s)("username":\s?").+?(")`),
}

type SensitiveDataMasker struct{}

func NewSensitiveDataMasker() SensitiveDataMasker {
	return SensitiveDataMasker{}
}

func (s SensitiveDataMasker) Mask(input []byte) []byte {
	for _, pattern := range sensitiveDataPatterns {
		input = pattern.ReplaceAll(input, []byte("${1}[MASKED]${2}"))
	}

	return input
}
