package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultMaxLength is the subject length ceiling used when the caller has no
// preference of its own.
const DefaultMaxLength = 50

// ErrInvalidMaxLength is returned when the requested subject length is not positive.
var ErrInvalidMaxLength = errors.New("max length must be positive")

// Request holds everything the commit instruction is built from.
type Request struct {
	// Locale is a language tag such as "en" or "pt-BR". It is only described
	// to the model, nothing checks the answer's language.
	Locale string
	// MaxLength is the subject line ceiling communicated to the model.
	MaxLength  int
	Convention Convention
	// Draft is the diff or note the message is written from. May be empty.
	Draft string
}

// Option configures a Builder.
type Option func(*options)

type options struct {
	versionConstraint string
}

// WithVersionConstraint pins the accepted template text version, e.g. "^2".
func WithVersionConstraint(constraint string) Option {
	return func(o *options) {
		o.versionConstraint = constraint
	}
}

// Builder composes commit instructions with one template strategy. A Builder
// holds no mutable state and is safe for concurrent use.
type Builder struct {
	strategy Strategy
	version  *semver.Version
}

// NewBuilder returns a Builder for strategy.
func NewBuilder(strategy Strategy, opts ...Option) (*Builder, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	version, err := strategy.Version()
	if err != nil {
		return nil, err
	}

	if c := strings.TrimSpace(o.versionConstraint); c != "" {
		constraint, err := semver.NewConstraint(c)
		if err != nil {
			return nil, fmt.Errorf("parse template version constraint %q: %w", c, err)
		}
		if !constraint.Check(version) {
			return nil, fmt.Errorf("%w: %s template is %s, want %s", ErrTemplateVersion, strategy, version, c)
		}
	}

	return &Builder{strategy: strategy, version: version}, nil
}

// Strategy returns the template strategy used by b.
func (b *Builder) Strategy() Strategy {
	return b.strategy
}

// Version returns the version of the template text used by b.
func (b *Builder) Version() *semver.Version {
	return b.version
}

// Build returns the instruction text for req.
func (b *Builder) Build(req Request) (string, error) {
	if req.MaxLength <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidMaxLength, req.MaxLength)
	}
	if !req.Convention.valid() {
		return "", fmt.Errorf("%w: %v", ErrUnknownConvention, req.Convention)
	}

	data := templateData{
		Draft:     req.Draft,
		MaxLength: req.MaxLength,
		Format:    req.Convention.formatInstruction(),
		Language:  languageName(req.Locale),
	}

	sections := make([]string, 0, 5)
	for _, name := range []string{"framing", "draft", "structure"} {
		s, err := b.strategy.render(name, data)
		if err != nil {
			return "", err
		}
		sections = append(sections, s)
	}

	sections = append(sections, req.Convention.DescribeTypes())

	guidelines, err := b.strategy.render("guidelines", data)
	if err != nil {
		return "", err
	}
	sections = append(sections, guidelines)

	return compose(sections, req.Draft), nil
}

// compose joins the non-empty sections with blank lines and puts the draft
// last, untouched.
func compose(sections []string, draft string) string {
	var b strings.Builder
	for _, s := range sections {
		if s == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(s)
	}
	if draft != "" {
		b.WriteString("\n\n")
		b.WriteString(draft)
	}
	if !strings.HasSuffix(b.String(), "\n") {
		b.WriteByte('\n')
	}
	return b.String()
}

// languageName describes locale in English. Tags that do not parse are passed
// through as given.
func languageName(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return ""
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return locale
	}
	name := display.Tags(language.English).Name(tag)
	if name == "" {
		return locale
	}
	return fmt.Sprintf("%s (%s)", name, tag)
}
