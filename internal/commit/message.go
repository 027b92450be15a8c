package commit

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/riskibarqy/go-commitdraft/internal/prompt"
	"github.com/riskibarqy/go-commitdraft/internal/util"
)

// ErrEmptyResponse is returned when the model answered with nothing usable.
var ErrEmptyResponse = errors.New("empty response")

const fallbackSubject = "update project files"

// Message holds the final headline and body to be presented or committed.
type Message struct {
	Headline string
	Body     string
}

// String renders the message the way git stores it.
func (m Message) String() string {
	if m.Body == "" {
		return m.Headline
	}
	return m.Headline + "\n\n" + m.Body
}

// Exceeds reports whether the headline is longer than n characters.
func (m Message) Exceeds(n int) bool {
	return n > 0 && utf8.RuneCountInString(m.Headline) > n
}

// Rules describe what the message was asked to look like.
type Rules struct {
	Convention prompt.Convention
}

var (
	typeAliases = map[string]string{
		"feature": "feat",
		"bugfix":  "fix",
		"doc":     "docs",
		"tests":   "test",
		"testing": "test",
		"chores":  "chore",
	}
	headerPattern   = regexp.MustCompile(`^([A-Za-z][\w-]*)(\([^)]*\))?(!)?:\s*(.+)$`)
	fencePattern    = regexp.MustCompile("(?m)^\\s*```[A-Za-z]*\\s*$")
	listPrefix      = regexp.MustCompile(`^(?:[-*]\s+|\d+[.)]\s+)`)
	labelledHeading = regexp.MustCompile(`(?i)^(?:commit message|subject|header)\s*:\s*`)
	typeWord        = typeWordPattern()
)

// typeWordPattern matches any catalog label as a whole word.
func typeWordPattern() *regexp.Regexp {
	types := prompt.Types()
	labels := make([]string, 0, len(types))
	for _, e := range types {
		labels = append(labels, regexp.QuoteMeta(e.Label))
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(labels, "|") + `)\b`)
}

// Parse turns the model's plain-text answer into a Message that follows rules.
func Parse(raw string, rules Rules) (Message, error) {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.TrimSpace(fencePattern.ReplaceAllString(text, ""))
	if text == "" {
		return Message{}, ErrEmptyResponse
	}

	first, rest, _ := strings.Cut(text, "\n")
	headline := cleanHeadline(first)
	if headline == "" {
		return Message{}, ErrEmptyResponse
	}

	if rules.Convention == prompt.Conventional {
		headline = normaliseHeader(headline, raw)
	}

	return Message{
		Headline: headline,
		Body:     sanitizeBody(rest),
	}, nil
}

// Fallback builds a Message from an answer Parse could not use.
func Fallback(raw string, rules Rules) Message {
	subject := fallbackSubject
	if rules.Convention == prompt.Conventional {
		subject = detectCommitType(raw) + ": " + subject
	}
	return Message{Headline: subject}
}

func cleanHeadline(s string) string {
	s = listPrefix.ReplaceAllString(s, "")
	s = labelledHeading.ReplaceAllString(s, "")
	s = strings.Trim(s, "\"'`")
	s = util.CondenseSpaces(strings.TrimSpace(s))
	return strings.TrimRight(s, ".")
}

// normaliseHeader makes sure the headline starts with a catalog type. An
// unknown leading word such as "parser:" is kept as the scope.
func normaliseHeader(headline, raw string) string {
	m := headerPattern.FindStringSubmatch(headline)
	if m == nil {
		return detectCommitType(raw) + ": " + headline
	}
	typ, scope, bang, subject := m[1], m[2], m[3], strings.TrimSpace(m[4])
	label, ok := normaliseCommitType(typ)
	if !ok {
		label = detectCommitType(raw)
		if scope == "" {
			scope = "(" + strings.ToLower(typ) + ")"
		}
	}
	return label + scope + bang + ": " + subject
}

func normaliseCommitType(t string) (string, bool) {
	candidate := strings.ToLower(strings.TrimSpace(t))
	if prompt.IsType(candidate) {
		return candidate, true
	}
	if mapped, ok := typeAliases[candidate]; ok {
		return mapped, true
	}
	for _, e := range prompt.Types() {
		if strings.HasPrefix(candidate, e.Label+"-") {
			return e.Label, true
		}
	}
	return "", false
}

// detectCommitType returns the first catalog label that appears as a word in
// raw, or chore.
func detectCommitType(raw string) string {
	if m := typeWord.FindStringSubmatch(raw); m != nil {
		return strings.ToLower(m[1])
	}
	return "chore"
}

func sanitizeBody(body string) string {
	return util.SquashBlankLines(body)
}
