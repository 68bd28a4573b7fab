package synth

import (
	"go.uber.org/zap"

	"github.com/xkilldash9x/qaforge/api/schemas"
	"github.com/xkilldash9x/qaforge/internal/scenario"
)

// BlankTarget is navigated to when no target URL is supplied.
const BlankTarget = "about:blank"

// Assemble compiles a whole document. The result always starts with goto and
// wait_for_load and always ends with a page screenshot; in between come the
// capability, interaction, assertion and edge-case actions in that order,
// each in document order. Assemble never fails.
func (e *Engine) Assemble(doc scenario.Document, targetURL string) schemas.ActionSequence {
	if targetURL == "" {
		targetURL = BlankTarget
	}

	seq := schemas.ActionSequence{
		schemas.Goto(targetURL),
		schemas.WaitForLoad(e.opts.LoadTimeoutMs),
	}

	stages := []struct {
		category scenario.Category
		fn       func(scenario.Node) []schemas.Action
	}{
		{scenario.Functionality, e.Capability},
		{scenario.UserInteractions, e.Interaction},
		{scenario.Assertions, e.Assertion},
		{scenario.EdgeCases, e.EdgeCase},
	}
	for _, stage := range stages {
		for i, item := range doc.Entries(stage.category) {
			seq = append(seq, e.guard(stage.category, i, item, stage.fn)...)
		}
	}

	seq = append(seq, schemas.Screenshot(schemas.PageSelector))

	e.logger.Debug("Assembled action sequence.",
		zap.String("target_url", targetURL),
		zap.Int("actions", len(seq)),
	)
	return seq
}
