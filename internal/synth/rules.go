package synth

import "github.com/xkilldash9x/qaforge/api/schemas"

// Selector chains used by the rule sets. Each is a comma-joined list of
// alternatives tried in order by the automation runtime.
const (
	SelectorForms   = "form, input, textarea"
	SelectorButtons = "button, .btn, [role='button']"
	SelectorNav     = "nav, .nav, .menu, header"
	SelectorSubmit  = "button[type='submit'], input[type='submit']"
	SelectorError   = ".error, .error-message, .alert-danger, [role='alert']"
	SelectorSuccess = ".success, .alert-success, .message-success"
	SelectorContent = "main, .main, #main, .content"
	SelectorHeading = "h1, .title, .heading"
	SelectorBody    = "body"
)

const (
	DefaultErrorText   = "Error"
	DefaultSuccessText = "Registration successful!"
	PlaceholderHeading = "expected content"
)

// Predicate decides whether a rule fires for a step.
type Predicate func(Step) bool

// Builder produces the actions of a rule that fired.
type Builder func(Step) []schemas.Action

// Rule is one heuristic: when Match holds, Build's actions are appended.
type Rule struct {
	Name  string
	Match Predicate
	Build Builder
}

// RuleSet is an ordered list of rules. Rules are cumulative; every rule that
// matches contributes, in list order.
type RuleSet []Rule

// Apply runs every matching rule against the step.
func (rs RuleSet) Apply(s Step) []schemas.Action {
	var out []schemas.Action
	for _, r := range rs {
		if r.Match(s) {
			out = append(out, r.Build(s)...)
		}
	}
	return out
}

// Names lists the rule names in order.
func (rs RuleSet) Names() []string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.Name
	}
	return names
}

// -- Predicate and builder helpers --

func mentions(keywords ...string) Predicate {
	return func(s Step) bool { return s.Contains(keywords...) }
}

func emit(a schemas.Action) Builder {
	return func(Step) []schemas.Action {
		out := a
		if a.Text != nil {
			text := *a.Text
			out.Text = &text
		}
		return []schemas.Action{out}
	}
}

func perField(build func(Field) schemas.Action) Builder {
	return func(Step) []schemas.Action {
		fields := Fields()
		out := make([]schemas.Action, len(fields))
		for i, f := range fields {
			out[i] = build(f)
		}
		return out
	}
}

// interactionVerbs mark a step as an instruction to type something.
var interactionVerbs = []string{"enter", "type", "input", "provide", "set"}

// -- Rule sets --

// CapabilityRules probe that the major page elements exist.
func CapabilityRules() RuleSet {
	return RuleSet{
		{Name: "forms", Match: mentions("form", "input"), Build: emit(schemas.AssertVisible(SelectorForms))},
		{Name: "buttons", Match: mentions("button", "click"), Build: emit(schemas.AssertVisible(SelectorButtons))},
		{Name: "navigation", Match: mentions("navigation", "menu"), Build: emit(schemas.AssertVisible(SelectorNav))},
	}
}

// InteractionRules turn imperative steps into fills, clicks and waits.
func InteractionRules(resolver FieldResolver, loadTimeoutMs int) RuleSet {
	return RuleSet{
		{
			Name: "fill",
			Match: func(s Step) bool {
				return s.Contains(interactionVerbs...) && len(resolver.Resolve(s)) > 0
			},
			Build: func(s Step) []schemas.Action {
				bindings := resolver.Resolve(s)
				out := make([]schemas.Action, len(bindings))
				for i, b := range bindings {
					out[i] = schemas.Fill(b.Selector, b.Value)
				}
				return out
			},
		},
		{Name: "submit", Match: mentions("submit", "click"), Build: emit(schemas.Click(SelectorSubmit))},
		{
			Name:  "clear",
			Match: mentions("clear"),
			Build: perField(func(f Field) schemas.Action { return schemas.Fill(f.Selector(), "") }),
		},
		{Name: "load", Match: mentions("load"), Build: emit(schemas.WaitForLoad(loadTimeoutMs))},
	}
}

// AssertionRules check the page state a scenario expects.
func AssertionRules() RuleSet {
	return RuleSet{
		{
			Name:  "error",
			Match: mentions("error", "invalid", "not match", "already taken"),
			Build: func(s Step) []schemas.Action {
				return []schemas.Action{schemas.AssertText(SelectorError, s.LiteralOr(DefaultErrorText))}
			},
		},
		{
			Name:  "success",
			Match: mentions("success"),
			Build: func(s Step) []schemas.Action {
				return []schemas.Action{schemas.AssertText(SelectorSuccess, s.LiteralOr(DefaultSuccessText))}
			},
		},
		{
			Name:  "cleared",
			Match: mentions("cleared", "empty"),
			Build: perField(func(f Field) schemas.Action { return schemas.AssertText(f.Selector(), "") }),
		},
		{Name: "visible", Match: mentions("visible", "display"), Build: emit(schemas.AssertVisible(SelectorContent))},
		{Name: "text", Match: mentions("text", "content"), Build: emit(schemas.AssertText(SelectorHeading, PlaceholderHeading))},
	}
}
