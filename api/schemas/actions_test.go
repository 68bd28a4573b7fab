package schemas_test

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/qaforge/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func TestActionKinds(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		kind     schemas.ActionKind
		expected string
		selector bool
		url      bool
	}{
		{schemas.KindGoto, "goto", false, true},
		{schemas.KindWaitForLoad, "wait_for_load", false, false},
		{schemas.KindClick, "click", true, false},
		{schemas.KindFill, "fill", true, false},
		{schemas.KindAssertVisible, "assert_visible", true, false},
		{schemas.KindAssertText, "assert_text", true, false},
		{schemas.KindScreenshot, "screenshot", true, false},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, string(tc.kind))
			assert.True(t, tc.kind.Valid())
			assert.Equal(t, tc.selector, tc.kind.RequiresSelector())
			assert.Equal(t, tc.url, tc.kind.RequiresURL())
		})
	}

	assert.False(t, schemas.ActionKind("hover").Valid())
	assert.Len(t, schemas.AllActionKinds(), len(testCases))
}

func TestActionJSONShape(t *testing.T) {
	t.Parallel()

	t.Run("empty text is preserved", func(t *testing.T) {
		data, err := json.Marshal(schemas.Fill("#username", ""))
		require.NoError(t, err)
		assert.JSONEq(t, `{"kind":"fill","selector":"#username","text":""}`, string(data))
	})

	t.Run("absent fields are omitted", func(t *testing.T) {
		data, err := json.Marshal(schemas.WaitForLoad(0))
		require.NoError(t, err)
		assert.JSONEq(t, `{"kind":"wait_for_load","timeout":30000}`, string(data))

		data, err = json.Marshal(schemas.Goto("https://example.test"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"kind":"goto","url":"https://example.test"}`, string(data))
	})

	t.Run("text value accessor", func(t *testing.T) {
		assert.Equal(t, "", schemas.Click("button").TextValue())
		assert.Equal(t, "Error", schemas.AssertText(".error", "Error").TextValue())
	})
}

func TestActionSequenceValidate(t *testing.T) {
	t.Parallel()

	valid := schemas.ActionSequence{
		schemas.Goto("http://localhost:3000"),
		schemas.WaitForLoad(schemas.DefaultLoadTimeoutMs),
		schemas.Fill("#username", "alice"),
		schemas.Screenshot(schemas.PageSelector),
	}
	require.NoError(t, valid.Validate())
	assert.Equal(t, []schemas.ActionKind{
		schemas.KindGoto, schemas.KindWaitForLoad, schemas.KindFill, schemas.KindScreenshot,
	}, valid.Kinds())

	testCases := []struct {
		name string
		seq  schemas.ActionSequence
		err  error
	}{
		{
			name: "too short",
			seq:  schemas.ActionSequence{schemas.Goto("x")},
			err:  schemas.ErrSequenceTooShort,
		},
		{
			name: "screenshot not last",
			seq: schemas.ActionSequence{
				schemas.Goto("x"),
				schemas.WaitForLoad(1),
				schemas.Screenshot("page"),
				schemas.Click("button"),
			},
			err: schemas.ErrSequenceBracketing,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.seq.Validate(), tc.err)
		})
	}

	t.Run("missing selector", func(t *testing.T) {
		seq := schemas.ActionSequence{
			schemas.Goto("x"),
			schemas.WaitForLoad(1),
			{Kind: schemas.KindClick},
			schemas.Screenshot("page"),
		}
		assert.ErrorContains(t, seq.Validate(), "selector is required")
	})

	t.Run("missing url", func(t *testing.T) {
		seq := schemas.ActionSequence{
			{Kind: schemas.KindGoto},
			schemas.WaitForLoad(1),
			schemas.Screenshot("page"),
		}
		assert.ErrorContains(t, seq.Validate(), "url is required")
	})
}
