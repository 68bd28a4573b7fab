package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustStep(t *testing.T, text string) Step {
	t.Helper()
	s, ok := NewStep(text)
	require.True(t, ok, "expected %q to form a step", text)
	return s
}

func TestFieldSelector(t *testing.T) {
	assert.Equal(t, "#confirmPassword, [id='confirmPassword'], [name='confirmPassword']", FieldConfirmPassword.Selector())
	assert.Equal(t, "#username, [id='username'], [name='username']", FieldUsername.Selector())
	assert.Equal(t,
		[]Field{FieldUsername, FieldEmail, FieldPassword, FieldConfirmPassword},
		Fields())
}

func TestFieldResolver_Resolve(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected []Binding
	}{
		{"confirm password precedence", "confirm password should match 'Xy9!'", []Binding{Bind(FieldConfirmPassword, "Xy9!")}},
		{"plain password", "Enter password 'secret'", []Binding{Bind(FieldPassword, "secret")}},
		{"password default", "type a strong PASSWORD", []Binding{Bind(FieldPassword, "P@ssw0rd")}},
		{"confirm password default", "Enter Confirm Password", []Binding{Bind(FieldConfirmPassword, "P@ssw0rd")}},
		{"confirm without the phrase", "confirm your password", nil},
		{"email with typographic quotes", "Type EMAIL ‘a@b.c’", []Binding{Bind(FieldEmail, "a@b.c")}},
		{"username default", "enter username", []Binding{Bind(FieldUsername, "testuser")}},
		{"literal keeps case", "Enter username 'MixedCase'", []Binding{Bind(FieldUsername, "MixedCase")}},
		{"single field takes a leading literal", "Type 'bob' into the username box", []Binding{Bind(FieldUsername, "bob")}},
		{"keyword inside quotes is a value", "Enter username 'password1'", []Binding{Bind(FieldUsername, "password1")}},
		{
			"username and password each keep their literal",
			"Enter username 'alice' and password 'pw'",
			[]Binding{Bind(FieldUsername, "alice"), Bind(FieldPassword, "pw")},
		},
		{
			"username and email each keep their literal",
			"Enter username 'alice' and email 'a@b.c'",
			[]Binding{Bind(FieldUsername, "alice"), Bind(FieldEmail, "a@b.c")},
		},
		{
			"form order regardless of mention order",
			"Enter password 'pw' then confirm password 'pw2'",
			[]Binding{Bind(FieldPassword, "pw"), Bind(FieldConfirmPassword, "pw2")},
		},
		{
			"fields without their own literal use defaults",
			"enter email and username",
			[]Binding{Bind(FieldUsername, "testuser"), Bind(FieldEmail, "user@example.com")},
		},
		{
			"literal binds to the nearest preceding field",
			"Enter email and username 'alice'",
			[]Binding{Bind(FieldUsername, "alice"), Bind(FieldEmail, "user@example.com")},
		},
		{"no field", "click submit", nil},
	}

	r := FieldResolver{}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, r.Resolve(mustStep(t, tc.text)))
		})
	}
}

func TestQuotedLiteral(t *testing.T) {
	testCases := []struct {
		text     string
		expected string
		ok       bool
	}{
		{"enter username 'alice'", "alice", true},
		{"first 'one' then 'two'", "one", true},
		{"‘curly’", "curly", true},
		{"mixed ‘open' close", "open", true},
		{"spaces 'a b c'", "a b c", true},
		{"say '' please", "", false},
		{"no quotes", "", false},
		{"unterminated 'value", "", false},
	}
	for _, tc := range testCases {
		got, ok := QuotedLiteral(tc.text)
		assert.Equal(t, tc.ok, ok, tc.text)
		assert.Equal(t, tc.expected, got, tc.text)
	}
}
