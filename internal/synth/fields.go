package synth

import (
	"fmt"
	"regexp"
	"strings"
)

// Field describes a recognised form field: the keyword that identifies it in
// step text, the element id behind its selector chain, and the value typed
// when the step quotes none.
type Field struct {
	Keyword string
	ID      string
	Default string
}

// Selector returns the field's fallback chain: id, id attribute, name attribute.
func (f Field) Selector() string {
	return fmt.Sprintf("#%s, [id='%s'], [name='%s']", f.ID, f.ID, f.ID)
}

var (
	FieldUsername        = Field{Keyword: "username", ID: "username", Default: "testuser"}
	FieldEmail           = Field{Keyword: "email", ID: "email", Default: "user@example.com"}
	FieldPassword        = Field{Keyword: "password", ID: "password", Default: "P@ssw0rd"}
	FieldConfirmPassword = Field{Keyword: "confirm password", ID: "confirmPassword", Default: "P@ssw0rd"}
)

// Fields returns the known fields in form order. Rules that act on every
// field (clearing, asserting empty) emit in this order.
func Fields() []Field {
	return []Field{FieldUsername, FieldEmail, FieldPassword, FieldConfirmPassword}
}

// Binding is a resolved field together with the value to use for it.
type Binding struct {
	Field    Field
	Selector string
	Value    string
}

// FieldResolver recognises form fields in step text.
type FieldResolver struct{}

// Resolve finds every field a step talks about and the value each one
// carries, in form order.
//
// A quoted literal belongs to the field named most recently before it, so
// "enter username 'alice' and password 'pw'" binds alice and pw separately.
// When the step names a single field, that field takes the first literal
// wherever it appears. A field left without a literal gets its default.
// Keywords inside quotes are values, not mentions. No match is not an error,
// it simply means there is no field action to emit.
func (FieldResolver) Resolve(s Step) []Binding {
	text := quoteNormalizer.Replace(s.Text)
	fields := Fields()
	var (
		mentioned = make([]bool, len(fields))
		values    = make([]string, len(fields))
		bound     = make([]bool, len(fields))
		first     string
		current   = -1
		prev      int
	)

	// scan records the mentions in one unquoted stretch of text and moves
	// current to the field named last.
	scan := func(gap string) {
		last := -1
		for i, at := range lastMentions(fold(gap)) {
			if at < 0 {
				continue
			}
			mentioned[i] = true
			if last < 0 || at > last {
				last, current = at, i
			}
		}
	}

	for _, m := range quoteRegex.FindAllStringSubmatchIndex(text, -1) {
		scan(text[prev:m[0]])
		literal := text[m[2]:m[3]]
		if first == "" {
			first = literal
		}
		if current >= 0 && !bound[current] {
			values[current], bound[current] = literal, true
		}
		current = -1
		prev = m[1]
	}
	scan(text[prev:])

	count := 0
	for _, ok := range mentioned {
		if ok {
			count++
		}
	}

	var out []Binding
	for i, f := range fields {
		if !mentioned[i] {
			continue
		}
		value := f.Default
		switch {
		case bound[i]:
			value = values[i]
		case count == 1 && first != "":
			value = first
		}
		out = append(out, Bind(f, value))
	}
	return out
}

// confirmMask hides "confirm password" while looking for a bare "password".
var confirmMask = strings.Repeat("_", len(FieldConfirmPassword.Keyword))

// lastMentions returns, for each entry of Fields(), the offset of that
// field's last mention in folded text, or -1 when it is not mentioned.
//
// "password" only counts outside "confirm password", and not at all when a
// loose "confirm" remains ("confirm your password" names neither field).
func lastMentions(folded string) []int {
	masked := strings.ReplaceAll(folded, FieldConfirmPassword.Keyword, confirmMask)
	fields := Fields()
	at := make([]int, len(fields))
	for i, f := range fields {
		switch f {
		case FieldPassword:
			at[i] = -1
			if !strings.Contains(masked, "confirm") {
				at[i] = strings.LastIndex(masked, f.Keyword)
			}
		default:
			at[i] = strings.LastIndex(folded, f.Keyword)
		}
	}
	return at
}

// Bind pairs a field with an explicit value.
func Bind(f Field, value string) Binding {
	return Binding{Field: f, Selector: f.Selector(), Value: value}
}

var (
	quoteRegex = regexp.MustCompile(`'([^']+)'`)
	// Typographic single quotes count as plain ones.
	quoteNormalizer = strings.NewReplacer("‘", "'", "’", "'")
)

// QuotedLiteral returns the first non-empty single-quoted substring of text.
func QuotedLiteral(text string) (string, bool) {
	m := quoteRegex.FindStringSubmatch(quoteNormalizer.Replace(text))
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}
