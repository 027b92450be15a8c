package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownConvention is returned when a convention name or value is not one of
// the supported commit conventions.
var ErrUnknownConvention = errors.New("unknown commit convention")

// Convention selects the commit message convention the model must follow.
type Convention int

const (
	// Plain asks for a free-form commit message.
	Plain Convention = iota
	// Conventional asks for a Conventional Commits header.
	Conventional
)

// ParseConvention maps a configuration value to a Convention. The empty string
// selects Plain.
func ParseConvention(s string) (Convention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain":
		return Plain, nil
	case "conventional":
		return Conventional, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownConvention, s)
	}
}

func (c Convention) String() string {
	switch c {
	case Plain:
		return "plain"
	case Conventional:
		return "conventional"
	default:
		return fmt.Sprintf("Convention(%d)", int(c))
	}
}

func (c Convention) valid() bool {
	return c == Plain || c == Conventional
}

// Format returns the one-line shape the model has to answer with.
func (c Convention) Format() string {
	switch c {
	case Plain:
		return "<commit message>"
	case Conventional:
		return "<type>(<optional scope>): <commit message>"
	default:
		panic(fmt.Sprintf("prompt: %v has no format", c))
	}
}

func (c Convention) formatInstruction() string {
	return "The output response must be in format:\n" + c.Format()
}
