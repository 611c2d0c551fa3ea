package ordered

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func TestMarshalObject(t *testing.T) {
	data, err := MarshalObject([]Member{
		{Key: "zeta", Value: 1},
		{Key: "alpha", Value: []string{"a"}},
		{Key: "mid\"dle", Value: nil},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":["a"],"mid\"dle":null}`, string(data))

	data, err = MarshalObject(nil)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))

	_, err = MarshalObject([]Member{{Key: "bad", Value: make(chan int)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad:")
}

func TestDecodeObject(t *testing.T) {
	var keys []string
	values := make(map[string]int)
	err := DecodeObject([]byte(`{"b":2,"a":1,"c":3}`), func(key string, dec *json.Decoder) error {
		keys = append(keys, key)
		var v int
		if err := dec.Decode(&v); err != nil {
			return err
		}
		values[key] = v
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, keys)
	assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 3}, values)

	tests := []struct {
		name string
		in   string
	}{
		{"array", `[1,2]`},
		{"empty", ``},
		{"truncated", `{"a":1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DecodeObject([]byte(tt.in), func(_ string, dec *json.Decoder) error {
				var v any
				return dec.Decode(&v)
			})
			assert.Error(t, err)
		})
	}
}

func TestJSONToYAML(t *testing.T) {
	out, err := JSONToYAML([]byte(`{"zeta":{"200":{"x":"2.0"}},"alpha":["a","b"],"empty":{}}`))
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "\"200\":", "numeric keys stay strings")
	assert.Contains(t, text, "x: \"2.0\"")
	assert.NotContains(t, text, "[")

	var node yaml.Node
	require.NoError(t, yaml.Unmarshal(out, &node))
	root := node.Content[0]
	var keys []string
	for i := 0; i < len(root.Content); i += 2 {
		keys = append(keys, root.Content[i].Value)
	}
	assert.Equal(t, []string{"zeta", "alpha", "empty"}, keys)

	_, err = JSONToYAML([]byte(`{"a":`))
	assert.Error(t, err)
}
