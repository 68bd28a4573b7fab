package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xkilldash9x/qaforge/internal/llmutil"
)

// ErrEmptyOutput is returned when the model produced nothing at all.
var ErrEmptyOutput = errors.New("model output is empty")

// ParseModelOutput turns raw scenario-generator output into a document. On
// any failure it still returns a usable document (FallbackDocument) together
// with the error, so callers can log and carry on.
func ParseModelOutput(output string) (Document, error) {
	if strings.TrimSpace(output) == "" {
		return FallbackDocument(), ErrEmptyOutput
	}

	payload, err := llmutil.ExtractJSONObject(output)
	if err != nil {
		return FallbackDocument(), err
	}

	root, err := DecodeJSON([]byte(payload))
	if err != nil {
		return FallbackDocument(), fmt.Errorf("failed to parse scenario payload: %w", err)
	}
	return NewDocument(root), nil
}

// FallbackDocument is the generic scenario set used when the generator output
// cannot be parsed.
func FallbackDocument() Document {
	texts := func(ss ...string) Sequence {
		seq := make(Sequence, len(ss))
		for i, s := range ss {
			seq[i] = Text(s)
		}
		return seq
	}
	return NewDocument(MappingOf(
		Pair{string(Functionality), texts("Basic functionality test")},
		Pair{string(UserInteractions), texts("Page load", "User interaction")},
		Pair{string(Assertions), texts("Page loads successfully", "Elements are visible")},
		Pair{string(EdgeCases), texts("Network error", "Invalid input")},
	))
}
