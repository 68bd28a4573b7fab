// File: api/schemas/actions.go
package schemas

import (
	"errors"
	"fmt"
)

// ActionKind identifies one browser automation operation in a synthesized sequence.
// The set is closed; the script templating layer maps each kind to exactly one statement.
type ActionKind string

const (
	KindGoto          ActionKind = "goto"
	KindWaitForLoad   ActionKind = "wait_for_load"
	KindClick         ActionKind = "click"
	KindFill          ActionKind = "fill"
	KindAssertVisible ActionKind = "assert_visible"
	KindAssertText    ActionKind = "assert_text"
	KindScreenshot    ActionKind = "screenshot"
)

const (
	// DefaultLoadTimeoutMs is the wait budget attached to wait_for_load actions.
	DefaultLoadTimeoutMs = 30000
	// PageSelector targets the whole page for evidence capture.
	PageSelector = "page"
)

// AllActionKinds returns every supported kind in catalog order.
func AllActionKinds() []ActionKind {
	return []ActionKind{
		KindGoto,
		KindClick,
		KindFill,
		KindAssertVisible,
		KindAssertText,
		KindWaitForLoad,
		KindScreenshot,
	}
}

// Valid reports whether k is one of the supported kinds.
func (k ActionKind) Valid() bool {
	switch k {
	case KindGoto, KindWaitForLoad, KindClick, KindFill, KindAssertVisible, KindAssertText, KindScreenshot:
		return true
	}
	return false
}

// RequiresSelector reports whether actions of this kind target an element.
func (k ActionKind) RequiresSelector() bool {
	switch k {
	case KindClick, KindFill, KindAssertVisible, KindAssertText, KindScreenshot:
		return true
	}
	return false
}

// RequiresURL reports whether actions of this kind carry a navigation target.
func (k ActionKind) RequiresURL() bool { return k == KindGoto }

// Action is a single structured automation instruction.
// Text is a pointer so that an explicitly empty value (clearing a field,
// asserting an empty field) survives serialization.
type Action struct {
	Kind     ActionKind `json:"kind" yaml:"kind"`
	Selector string     `json:"selector,omitempty" yaml:"selector,omitempty"`
	URL      string     `json:"url,omitempty" yaml:"url,omitempty"`
	Text     *string    `json:"text,omitempty" yaml:"text,omitempty"`
	Timeout  int        `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// TextValue returns the literal carried by the action, or "" when absent.
func (a Action) TextValue() string {
	if a.Text == nil {
		return ""
	}
	return *a.Text
}

// -- Constructors --

func Goto(url string) Action { return Action{Kind: KindGoto, URL: url} }

func WaitForLoad(timeoutMs int) Action {
	if timeoutMs <= 0 {
		timeoutMs = DefaultLoadTimeoutMs
	}
	return Action{Kind: KindWaitForLoad, Timeout: timeoutMs}
}

func Click(selector string) Action { return Action{Kind: KindClick, Selector: selector} }

func Fill(selector, text string) Action {
	return Action{Kind: KindFill, Selector: selector, Text: &text}
}

func AssertVisible(selector string) Action {
	return Action{Kind: KindAssertVisible, Selector: selector}
}

func AssertText(selector, text string) Action {
	return Action{Kind: KindAssertText, Selector: selector, Text: &text}
}

func Screenshot(selector string) Action {
	return Action{Kind: KindScreenshot, Selector: selector}
}

// ActionSequence is an ordered list of actions. Order is execution order.
type ActionSequence []Action

var (
	ErrSequenceTooShort   = errors.New("action sequence must contain at least goto, wait_for_load and screenshot")
	ErrSequenceBracketing = errors.New("action sequence is not bracketed by goto, wait_for_load ... screenshot")
)

// Validate checks the structural guarantees consumers rely on: the
// navigation/load/screenshot bracketing and that every action carries the
// fields its kind requires.
func (s ActionSequence) Validate() error {
	if len(s) < 3 {
		return ErrSequenceTooShort
	}
	if s[0].Kind != KindGoto || s[1].Kind != KindWaitForLoad || s[len(s)-1].Kind != KindScreenshot {
		return ErrSequenceBracketing
	}
	for i, a := range s {
		if !a.Kind.Valid() {
			return fmt.Errorf("action %d: unknown kind %q", i, a.Kind)
		}
		if a.Kind.RequiresSelector() && a.Selector == "" {
			return fmt.Errorf("action %d (%s): selector is required", i, a.Kind)
		}
		if a.Kind.RequiresURL() && a.URL == "" {
			return fmt.Errorf("action %d (%s): url is required", i, a.Kind)
		}
	}
	return nil
}

// Kinds returns the kind of every action, in order. Handy for logging and tests.
func (s ActionSequence) Kinds() []ActionKind {
	kinds := make([]ActionKind, len(s))
	for i, a := range s {
		kinds[i] = a.Kind
	}
	return kinds
}
