// File: internal/synth/engine.go
package synth

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/qaforge/api/schemas"
	"github.com/xkilldash9x/qaforge/internal/scenario"
)

// EdgeCaseRouting selects which rule set interprets edge-case steps.
type EdgeCaseRouting string

const (
	// RouteInteraction treats edge cases as things to do on the page.
	RouteInteraction EdgeCaseRouting = "interaction"
	// RouteCapability treats edge cases as probes that elements exist.
	RouteCapability EdgeCaseRouting = "capability"
)

// ParseEdgeCaseRouting validates a routing name. Empty means the default.
func ParseEdgeCaseRouting(s string) (EdgeCaseRouting, error) {
	switch r := EdgeCaseRouting(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RouteInteraction, nil
	case RouteInteraction, RouteCapability:
		return r, nil
	default:
		return "", fmt.Errorf("unknown edge case routing %q (want %q or %q)", s, RouteInteraction, RouteCapability)
	}
}

// Options bound and tune a synthesis engine.
type Options struct {
	MaxDepth        int
	MaxSteps        int
	LoadTimeoutMs   int
	EdgeCaseRouting EdgeCaseRouting
}

// DefaultOptions returns the limits used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MaxDepth:        32,
		MaxSteps:        512,
		LoadTimeoutMs:   schemas.DefaultLoadTimeoutMs,
		EdgeCaseRouting: RouteInteraction,
	}
}

// Engine compiles scenario nodes into actions. It holds no per-call state,
// so one instance can serve any number of goroutines.
type Engine struct {
	opts       Options
	normalizer *Normalizer
	logger     *zap.Logger

	capability  RuleSet
	interaction RuleSet
	assertion   RuleSet
}

// NewEngine builds an engine. Zero-valued options fall back to DefaultOptions.
func NewEngine(opts Options, logger *zap.Logger) *Engine {
	def := DefaultOptions()
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = def.MaxDepth
	}
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = def.MaxSteps
	}
	if opts.LoadTimeoutMs <= 0 {
		opts.LoadTimeoutMs = def.LoadTimeoutMs
	}
	if opts.EdgeCaseRouting == "" {
		opts.EdgeCaseRouting = def.EdgeCaseRouting
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("synth")

	resolver := FieldResolver{}
	return &Engine{
		opts:        opts,
		normalizer:  NewNormalizer(opts.MaxDepth, opts.MaxSteps, logger),
		logger:      logger,
		capability:  CapabilityRules(),
		interaction: InteractionRules(resolver, opts.LoadTimeoutMs),
		assertion:   AssertionRules(),
	}
}

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// Normalizer exposes the engine's normalizer.
func (e *Engine) Normalizer() *Normalizer { return e.normalizer }

// Capability joins the node into one step and applies the capability rules.
func (e *Engine) Capability(node scenario.Node) []schemas.Action {
	return e.joined(node, e.capability)
}

// Assertion joins the node into one step and applies the assertion rules.
func (e *Engine) Assertion(node scenario.Node) []schemas.Action {
	return e.joined(node, e.assertion)
}

// Interaction explodes the node into steps and applies the interaction rules to each.
func (e *Engine) Interaction(node scenario.Node) []schemas.Action {
	return e.exploded(node, e.interaction)
}

// EdgeCase explodes the node into steps and applies the rule set selected by
// the configured routing.
func (e *Engine) EdgeCase(node scenario.Node) []schemas.Action {
	rules := e.interaction
	if e.opts.EdgeCaseRouting == RouteCapability {
		rules = e.capability
	}
	return e.exploded(node, rules)
}

func (e *Engine) joined(node scenario.Node, rules RuleSet) []schemas.Action {
	step, ok := e.normalizer.Normalize(node)
	if !ok {
		return nil
	}
	return rules.Apply(step)
}

func (e *Engine) exploded(node scenario.Node, rules RuleSet) []schemas.Action {
	var out []schemas.Action
	for _, step := range e.normalizer.FlattenAll(node) {
		out = append(out, rules.Apply(step)...)
	}
	return out
}

// guard runs one scenario item. A panic is logged and the item contributes
// no actions; the rest of the document is unaffected.
func (e *Engine) guard(category scenario.Category, index int, item scenario.Node, fn func(scenario.Node) []schemas.Action) (actions []schemas.Action) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("Recovered from panic while synthesizing scenario item, skipping it.",
				zap.String("category", string(category)),
				zap.Int("index", index),
				zap.Any("panic", r),
			)
			actions = nil
		}
	}()
	return fn(item)
}
