package schemas

// ServiceName is reported by the health endpoint and used as the MCP implementation name.
const ServiceName = "qaforge"

// GenerateActionsRequest is the wire envelope accepted by the generate_actions operation.
// Scenarios is decoded generically so that malformed shapes degrade instead of failing.
type GenerateActionsRequest struct {
	Scenarios map[string]any `json:"scenarios" jsonschema:"the scenario document with functionality, user_interactions, assertions and edge_cases"`
	TargetURL string         `json:"target_url,omitempty" jsonschema:"the URL of the application under test"`
}

// GenerateActionsResponse carries the synthesized sequence back to the caller.
type GenerateActionsResponse struct {
	Actions  ActionSequence `json:"actions"`
	Degraded bool           `json:"degraded,omitempty"`
	Count    int            `json:"count"`
}

// ActionExample documents one action kind for clients building sequences by hand.
type ActionExample struct {
	Kind        ActionKind `json:"kind"`
	Description string     `json:"description"`
	Example     Action     `json:"example"`
}

// ActionExamplesResponse wraps the action catalog.
type ActionExamplesResponse struct {
	Examples []ActionExample `json:"examples"`
}

// HealthResponse is the body of the liveness probe.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ErrorResponse is the body of any non-2xx reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}
