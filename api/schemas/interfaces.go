package schemas

import "context"

// -- Collaborator Interfaces --

// AnalyzeRequest describes an application to derive scenarios for.
type AnalyzeRequest struct {
	AppName     string `json:"app_name" yaml:"app_name"`
	Description string `json:"description" yaml:"description"`
	TargetURL   string `json:"target_url" yaml:"target_url"`
}

// ScenarioGenerator produces the raw text of a scenario document for an
// application, typically by prompting a language model. Callers parse the
// output themselves, so implementations may return prose around the JSON.
type ScenarioGenerator interface {
	GenerateScenarios(ctx context.Context, req AnalyzeRequest) (string, error)
}

// ScriptRenderer turns an action sequence into an executable test script.
type ScriptRenderer interface {
	// RenderScript returns the script source for the sequence.
	RenderScript(ctx context.Context, name string, actions ActionSequence) (string, error)
}

// TestRunner executes rendered scripts and reports the outcome.
type TestRunner interface {
	RunScript(ctx context.Context, name, script string) (*RunReport, error)
}

// RunReport summarizes one script execution.
type RunReport struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Output string `json:"output,omitempty"`
}

// AnalyzeResult bundles everything produced for one application.
type AnalyzeResult struct {
	Scenarios map[string]any `json:"scenarios"`
	Actions   ActionSequence `json:"actions"`
	Script    string         `json:"script,omitempty"`
	Report    *RunReport     `json:"report,omitempty"`
	Degraded  bool           `json:"degraded,omitempty"`
}
