package tool

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelworks/loom"
	"github.com/kestrelworks/loom/schema"
)

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()

	t.Run("requires name", func(t *testing.T) {
		err := r.Register(Definition{}, func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
			return nil, nil
		})
		assert.Error(t, err)
	})

	t.Run("requires handler", func(t *testing.T) {
		err := r.Register(Definition{Name: "echo"}, nil)
		assert.Error(t, err)
	})

	t.Run("registers and lists sorted", func(t *testing.T) {
		r := NewRegistry()
		h := func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) { return args, nil }
		require.NoError(t, r.Register(Definition{Name: "zeta"}, h))
		require.NoError(t, r.Register(Definition{Name: "alpha"}, h))

		defs := r.List()
		require.Len(t, defs, 2)
		assert.Equal(t, "alpha", defs[0].Name)
		assert.Equal(t, "zeta", defs[1].Name)
	})
}

func TestRegistryExecute(t *testing.T) {
	ctx := context.Background()

	input := schema.MustCompile(schema.Object().
		Field("city", schema.String().Required()).
		Closed())
	output := schema.MustCompile(schema.Object().
		Field("temp", schema.Number().Required()))

	r := NewRegistry()
	require.NoError(t, r.Register(Definition{
		Name:   "weather",
		Input:  input,
		Output: output,
	}, func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
		return json.RawMessage(`{"temp": 21.5}`), nil
	}))

	t.Run("valid call", func(t *testing.T) {
		out, err := r.Execute(ctx, "weather", json.RawMessage(`{"city":"Oslo"}`))
		require.NoError(t, err)
		assert.JSONEq(t, `{"temp": 21.5}`, string(out))
	})

	t.Run("unknown tool is unavailable", func(t *testing.T) {
		_, err := r.Execute(ctx, "missing", nil)
		require.Error(t, err)
		assert.Equal(t, loom.CategoryUnavailable, loom.CategoryOf(err))
	})

	t.Run("bad arguments are a contract error", func(t *testing.T) {
		_, err := r.Execute(ctx, "weather", json.RawMessage(`{"country":"Norway"}`))
		require.Error(t, err)
		assert.Equal(t, loom.CategoryContract, loom.CategoryOf(err))
	})

	t.Run("bad result is a contract error", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(Definition{
			Name:   "broken",
			Output: output,
		}, func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
			return json.RawMessage(`{"temp": "warm"}`), nil
		}))
		_, err := r.Execute(ctx, "broken", nil)
		require.Error(t, err)
		assert.Equal(t, loom.CategoryContract, loom.CategoryOf(err))
	})

	t.Run("handler error passes through", func(t *testing.T) {
		sentinel := errors.New("boom")
		r := NewRegistry()
		require.NoError(t, r.Register(Definition{Name: "fail"}, func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
			return nil, sentinel
		}))
		_, err := r.Execute(ctx, "fail", nil)
		assert.ErrorIs(t, err, sentinel)
	})
}

func TestNewFunc(t *testing.T) {
	type addIn struct {
		A int `json:"a" required:"true"`
		B int `json:"b" required:"true"`
	}
	type addOut struct {
		Sum int `json:"sum"`
	}

	def, handler, err := NewFunc("add", "Add two integers", func(ctx context.Context, in addIn) (addOut, error) {
		return addOut{Sum: in.A + in.B}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "add", def.Name)
	require.NotNil(t, def.Input)
	require.NotNil(t, def.Output)

	r := NewRegistry()
	require.NoError(t, r.Register(def, handler))

	t.Run("typed round trip", func(t *testing.T) {
		out, err := r.Execute(context.Background(), "add", json.RawMessage(`{"a": 2, "b": 3}`))
		require.NoError(t, err)
		assert.JSONEq(t, `{"sum": 5}`, string(out))
	})

	t.Run("missing required argument rejected", func(t *testing.T) {
		_, err := r.Execute(context.Background(), "add", json.RawMessage(`{"a": 2}`))
		require.Error(t, err)
		assert.Equal(t, loom.CategoryContract, loom.CategoryOf(err))
		assert.True(t, strings.Contains(err.Error(), "b"))
	})
}
