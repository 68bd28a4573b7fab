package synth

import (
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/qaforge/internal/scenario"
)

// descriptiveKeys are consulted in this order when a mapping is reduced to text.
var descriptiveKeys = []string{"description", "name", "expected_outcome", "step", "text"}

const stepsKey = "steps"

// Normalizer reduces scenario nodes to steps. It is stateless apart from its
// limits and safe for concurrent use.
type Normalizer struct {
	maxDepth int
	maxSteps int
	logger   *zap.Logger
}

// NewNormalizer creates a normalizer. Subtrees deeper than maxDepth and steps
// beyond maxSteps per call are dropped.
func NewNormalizer(maxDepth, maxSteps int, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{maxDepth: maxDepth, maxSteps: maxSteps, logger: logger}
}

// Normalize collapses a node into a single step. Sequences, and a mapping's
// "steps" list, are joined with a single space.
func (n *Normalizer) Normalize(node scenario.Node) (Step, bool) {
	text, ok := n.text(node, 0, new(int))
	if !ok {
		return Step{}, false
	}
	return NewStep(text)
}

func (n *Normalizer) text(node scenario.Node, depth int, parts *int) (string, bool) {
	if depth > n.maxDepth {
		n.logger.Debug("Scenario subtree exceeds max depth, dropping it.", zap.Int("max_depth", n.maxDepth))
		return "", false
	}

	switch t := node.(type) {
	case scenario.Text:
		if *parts >= n.maxSteps {
			return "", false
		}
		s := strings.TrimSpace(string(t))
		if s == "" {
			return "", false
		}
		*parts++
		return s, true

	case *scenario.Mapping:
		for _, key := range descriptiveKeys {
			if v, ok := t.Get(key); ok {
				if s, ok := n.text(v, depth+1, parts); ok {
					return s, true
				}
			}
		}
		if v, ok := t.Get(stepsKey); ok {
			return n.text(v, depth+1, parts)
		}
		return "", false

	case scenario.Sequence:
		pieces := make([]string, 0, len(t))
		for _, child := range t {
			if s, ok := n.text(child, depth+1, parts); ok {
				pieces = append(pieces, s)
			}
		}
		if len(pieces) == 0 {
			return "", false
		}
		return strings.Join(pieces, " "), true
	}

	// Opaque, nil and anything else carry no text.
	return "", false
}

// FlattenAll explodes a node into every independently extractable step, in
// document order. A mapping contributes its first descriptive key that yields
// anything, followed by its "steps" exploded element by element.
func (n *Normalizer) FlattenAll(node scenario.Node) []Step {
	var steps []Step
	n.flatten(node, 0, &steps)
	return steps
}

func (n *Normalizer) flatten(node scenario.Node, depth int, out *[]Step) {
	if depth > n.maxDepth {
		n.logger.Debug("Scenario subtree exceeds max depth, dropping it.", zap.Int("max_depth", n.maxDepth))
		return
	}
	if n.full(*out) {
		return
	}

	switch t := node.(type) {
	case scenario.Text:
		if s, ok := NewStep(string(t)); ok {
			*out = append(*out, s)
		}

	case *scenario.Mapping:
		for _, key := range descriptiveKeys {
			v, ok := t.Get(key)
			if !ok {
				continue
			}
			before := len(*out)
			n.flatten(v, depth+1, out)
			if len(*out) > before {
				break
			}
		}
		if v, ok := t.Get(stepsKey); ok {
			n.flatten(v, depth+1, out)
		}

	case scenario.Sequence:
		n.flattenEach(t, depth+1, out)
	}
}

func (n *Normalizer) flattenEach(seq scenario.Sequence, depth int, out *[]Step) {
	for _, child := range seq {
		if n.full(*out) {
			return
		}
		n.flatten(child, depth, out)
	}
}

func (n *Normalizer) full(steps []Step) bool {
	if len(steps) < n.maxSteps {
		return false
	}
	n.logger.Debug("Step limit reached, dropping remaining scenario text.", zap.Int("max_steps", n.maxSteps))
	return true
}
