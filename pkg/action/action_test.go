package action_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/aretw0/hyperway/pkg/action"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("nested action", func(t *testing.T) {
		a, err := action.DecodeString(`["W1", ["EI", ["JS", "x"]], ["PR", "Element", "id"]]`)
		require.NoError(t, err)
		assert.Equal(t, "W1", a.Opcode())
		assert.Len(t, a, 3)
	})

	t.Run("integers are preserved", func(t *testing.T) {
		a, err := action.DecodeString(`["AX", 9007199254740993]`)
		require.NoError(t, err)
		assert.Equal(t, json.Number("9007199254740993"), a[1])
	})

	t.Run("rejects non-array", func(t *testing.T) {
		_, err := action.DecodeString(`{"cmd": "noop"}`)
		var argErr *action.ArgError
		require.ErrorAs(t, err, &argErr)
		assert.Equal(t, "action", argErr.Name)
	})

	t.Run("rejects empty array", func(t *testing.T) {
		_, err := action.DecodeString(`[]`)
		assert.Error(t, err)
	})

	t.Run("rejects non-string opcode", func(t *testing.T) {
		_, err := action.DecodeString(`[1, 2]`)
		assert.ErrorContains(t, err, "opcode must be a String value but got number")
	})

	t.Run("rejects trailing data", func(t *testing.T) {
		_, err := action.DecodeString(`["NO"] ["NO"]`)
		assert.Error(t, err)
	})
}

func TestClone_IsDeep(t *testing.T) {
	orig := action.Chain(action.ElementByID("a"), action.Literal(map[string]any{"k": []any{"v"}}))
	clone := orig.Clone()

	clone[1].([]any)[0] = "XX"
	clone[2].([]any)[1].(map[string]any)["k"].([]any)[0] = "changed"

	assert.Equal(t, "EI", orig[1].([]any)[0])
	assert.Equal(t, "v", orig[2].([]any)[1].(map[string]any)["k"].([]any)[0])
}

func TestOpcode_RoundTrip(t *testing.T) {
	for _, code := range action.Codes() {
		op, ok := action.ParseOpcode(code)
		require.True(t, ok, code)
		assert.Equal(t, code, op.Code())
	}

	_, ok := action.ParseOpcode("XX")
	assert.False(t, ok)

	pr, _ := action.ParseOpcode("pr")
	PR, _ := action.ParseOpcode("PR")
	assert.NotEqual(t, pr, PR, "opcodes are case sensitive")
}

func TestOperands(t *testing.T) {
	ops := action.NewOperands("CW", []any{"name", json.Number("3"), true})

	name, err := ops.String("name")
	require.NoError(t, err)
	assert.Equal(t, "name", name)

	n, err := ops.Integer("count")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = ops.String("flag")
	var argErr *action.ArgError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "CW", argErr.Op)
	assert.EqualError(t, err, "illegal arg: CW: flag must be a String value but got boolean")

	_, err = ops.Next("missing")
	assert.EqualError(t, err, "illegal arg: CW: missing must be a defined value but got undefined")
}

func TestOperands_DoNotMutateTemplate(t *testing.T) {
	a := action.ContextWrite("x", action.Literal(1))
	first := a.Operands()
	_ = first.Rest()

	second := a.Operands()
	assert.Equal(t, 2, second.Len())
}

func TestCheckInteger(t *testing.T) {
	cases := []struct {
		in   any
		want int
		ok   bool
	}{
		{in: 2, want: 2, ok: true},
		{in: 2.0, want: 2, ok: true},
		{in: 2.5, ok: false},
		{in: json.Number("7"), want: 7, ok: true},
		{in: json.Number("7.1"), ok: false},
		{in: "7", ok: false},
	}

	for _, tc := range cases {
		got, err := action.CheckInteger(tc.in, "index")
		if tc.ok {
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		} else {
			assert.Error(t, err, "%v", tc.in)
		}
	}
}

func TestBuilders_ProduceWireFormat(t *testing.T) {
	a := action.Seq(
		action.Navigate(action.WithHistory(false), action.WithElements("a", "b")),
		action.InvokeVirtual("HTMLDialogElement", "close"),
	)

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `["WS",["NA",[["HI",false],["EL","a","b"]]],["IV","HTMLDialogElement","close",[]]]`, string(data))

	decoded, err := action.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "WS", decoded.Opcode())
}

func TestSentinels(t *testing.T) {
	wrapped := errors.Join(errors.New("ctx"), action.ErrNoArguments)
	assert.ErrorIs(t, wrapped, action.ErrNoArguments)
}
