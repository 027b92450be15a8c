package prompt

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// TypeEntry is one commit type label offered to the model.
type TypeEntry struct {
	Label       string
	Description string
}

// Labels and descriptions follow commitlint's config-conventional. Downstream
// parsers match on these labels, keep the wording as is.
var typeCatalog = [...]TypeEntry{
	{Label: "docs", Description: "Documentation only changes"},
	{Label: "style", Description: "Changes that do not affect the meaning of the code (white-space, formatting, missing semicolons, etc.)"},
	{Label: "refactor", Description: "A code change that neither fixes a bug nor adds a feature"},
	{Label: "perf", Description: "A code change that improves performance"},
	{Label: "test", Description: "Adding missing tests or correcting existing tests"},
	{Label: "build", Description: "Changes that affect the build system or external dependencies"},
	{Label: "ci", Description: "Changes to CI configuration files and scripts"},
	{Label: "chore", Description: "Other changes that don't modify source or test files"},
	{Label: "revert", Description: "Reverts a previous commit"},
	{Label: "feat", Description: "A new feature"},
	{Label: "fix", Description: "A bug fix"},
}

// Types returns the conventional commit types in catalog order.
func Types() []TypeEntry {
	return slices.Clone(typeCatalog[:])
}

// IsType reports whether label is a catalog label.
func IsType(label string) bool {
	for _, e := range typeCatalog {
		if e.Label == label {
			return true
		}
	}
	return false
}

// DescribeTypes returns the type catalog section for c, or "" when the
// convention has no type catalog.
func (c Convention) DescribeTypes() string {
	switch c {
	case Plain:
		return ""
	case Conventional:
		return "Choose exactly one type from the type-to-description JSON below that best describes the git diff:\n" + catalogJSON()
	default:
		panic(fmt.Sprintf("prompt: %v has no type catalog", c))
	}
}

// catalogJSON renders the catalog as an indented JSON object. A map would lose
// the catalog order, so entries are written one by one.
func catalogJSON() string {
	var b strings.Builder
	b.WriteString("{\n")
	for i, e := range typeCatalog {
		b.WriteString("  ")
		b.WriteString(quote(e.Label))
		b.WriteString(": ")
		b.WriteString(quote(e.Description))
		if i < len(typeCatalog)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("}")
	return b.String()
}

func quote(s string) string {
	raw, err := json.Marshal(s)
	if err != nil {
		// strings always marshal
		panic(err)
	}
	return string(raw)
}
