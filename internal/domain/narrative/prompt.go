// Package narrative turns a student's records into a markdown report by
// prompting a hosted language model and unwrapping its answer.
package narrative

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/okian/recupero/internal/domain/record"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

// Locale selects the language of the prompt and therefore of the report.
type Locale string

// Supported locales.
const (
	LocaleES Locale = "es"
	LocaleEN Locale = "en"
)

// DefaultLocale matches the language of the worksheet.
const DefaultLocale = LocaleES

var prompts = template.Must(template.ParseFS(promptFS, "prompts/*.tmpl"))

// ParseLocale validates a locale name. The empty string yields DefaultLocale.
func ParseLocale(s string) (Locale, error) {
	switch l := Locale(strings.ToLower(strings.TrimSpace(s))); l {
	case "":
		return DefaultLocale, nil
	case LocaleES, LocaleEN:
		return l, nil
	default:
		return "", fmt.Errorf("unknown locale %q", s)
	}
}

type promptData struct {
	Total    int
	Resolved int
	Pending  int
	Records  string
}

// BuildPrompt renders the fixed six-section prompt for set. The counts come
// from summary so the tiles and the prompt never disagree.
func BuildPrompt(locale Locale, set record.Set, summary record.Summary) (string, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	t := prompts.Lookup(string(locale) + ".tmpl")
	if t == nil {
		return "", fmt.Errorf("no prompt for locale %q", locale)
	}

	var b strings.Builder
	err := t.Execute(&b, promptData{
		Total:    summary.Total,
		Resolved: summary.Resolved,
		Pending:  summary.Pending,
		Records:  set.String(),
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return b.String(), nil
}
