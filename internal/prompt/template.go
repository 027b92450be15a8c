package prompt

import (
	"embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/semver/v3"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("prompt").ParseFS(templateFS, "templates/*.tmpl"))

var (
	// ErrUnknownStrategy is returned for a template strategy that does not exist.
	ErrUnknownStrategy = errors.New("unknown template strategy")
	// ErrTemplateVersion is returned when a strategy's template text does not
	// satisfy the requested version constraint.
	ErrTemplateVersion = errors.New("template version not satisfied")
)

// Strategy selects the template text used to compose the instruction. There is
// no default: callers pick one explicitly.
type Strategy int

const (
	// StrategyGerrit is the structured, numbered Gerrit-style template.
	StrategyGerrit Strategy = iota + 1
	// StrategyStepwise is the freeform step-by-step template.
	StrategyStepwise
)

// ParseStrategy maps a configuration value to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gerrit":
		return StrategyGerrit, nil
	case "stepwise":
		return StrategyStepwise, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

func (s Strategy) String() string {
	switch s {
	case StrategyGerrit:
		return "gerrit"
	case StrategyStepwise:
		return "stepwise"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Version is bumped whenever the strategy's template text changes.
func (s Strategy) Version() (*semver.Version, error) {
	switch s {
	case StrategyGerrit:
		return semver.MustParse("2.0.0"), nil
	case StrategyStepwise:
		return semver.MustParse("1.0.0"), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownStrategy, s)
	}
}

// templateData is what the strategy templates can reference.
type templateData struct {
	Draft     string
	MaxLength int
	Format    string
	Language  string
}

func (s Strategy) render(section string, data templateData) (string, error) {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, s.String()+"."+section, data); err != nil {
		return "", fmt.Errorf("render %s %s section: %w", s, section, err)
	}
	return strings.TrimSpace(sb.String()), nil
}
