package service

import "github.com/xkilldash9x/qaforge/api/schemas"

var kindDescriptions = map[schemas.ActionKind]string{
	schemas.KindGoto:          "Navigate to URL",
	schemas.KindClick:         "Click an element",
	schemas.KindFill:          "Fill input field",
	schemas.KindAssertVisible: "Assert element is visible",
	schemas.KindAssertText:    "Assert element contains text",
	schemas.KindWaitForLoad:   "Wait for page load",
	schemas.KindScreenshot:    "Take screenshot",
}

func kindExamples() map[schemas.ActionKind]schemas.Action {
	return map[schemas.ActionKind]schemas.Action{
		schemas.KindGoto:          schemas.Goto("http://localhost:3000"),
		schemas.KindClick:         schemas.Click("#login-button"),
		schemas.KindFill:          schemas.Fill("#username", "testuser"),
		schemas.KindAssertVisible: schemas.AssertVisible(".welcome-message"),
		schemas.KindAssertText:    schemas.AssertText(".welcome", "Hello"),
		schemas.KindWaitForLoad:   schemas.WaitForLoad(schemas.DefaultLoadTimeoutMs),
		schemas.KindScreenshot:    schemas.Screenshot(schemas.PageSelector),
	}
}

// ActionExamples documents every supported action kind with a sample action.
func ActionExamples() []schemas.ActionExample {
	kinds := schemas.AllActionKinds()
	examples := kindExamples()
	out := make([]schemas.ActionExample, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, schemas.ActionExample{
			Kind:        k,
			Description: kindDescriptions[k],
			Example:     examples[k],
		})
	}
	return out
}
