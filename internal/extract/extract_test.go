package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestListFallbackChainEquivalence(t *testing.T) {
	want := []interface{}{"a", "b"}

	shapes := map[string]string{
		"raw array":    `["a","b"]`,
		"data wrapper": `{"data":["a","b"]}`,
		"value wrapper": `{"value":["a","b"]}`,
	}

	for name, raw := range shapes {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, List(decode(t, raw), "data", "value"))
		})
	}
}

func TestListPrecedence(t *testing.T) {
	v := decode(t, `{"data":["first"],"value":["second"]}`)
	assert.Equal(t, []interface{}{"first"}, List(v, "data", "value"))
}

func TestListDefaultsToEmpty(t *testing.T) {
	assert.Empty(t, List(decode(t, `{"unrelated":1}`), "data", "value"))
	assert.Empty(t, List(nil, "data"))
	assert.Empty(t, List(decode(t, `{"data":"not a list"}`), "data"))
}

func TestObjectUnwrapsEnvelope(t *testing.T) {
	v := decode(t, `{"data":{"id":"x"}}`)
	assert.Equal(t, "x", Object(v, "data")["id"])

	// No envelope: the object itself is returned.
	bare := decode(t, `{"id":"y"}`)
	assert.Equal(t, "y", Object(bare, "data")["id"])

	assert.Nil(t, Object(decode(t, `[1,2]`), "data"))
}

func TestGetNestedPath(t *testing.T) {
	v := decode(t, `{"data":{"server":{"qualities":[1]}}}`)
	assert.Equal(t, []interface{}{float64(1)}, Get(v, "data", "server", "qualities"))
	assert.Nil(t, Get(v, "data", "missing", "deep"))
}

func TestStringFallbacks(t *testing.T) {
	v := decode(t, `{"q":"","keyword":"naruto","id":42}`).(map[string]interface{})
	assert.Equal(t, "naruto", String(v, "q", "keyword"))
	assert.Equal(t, "42", String(v, "id"))
	assert.Equal(t, "", String(v, "missing"))
}

func TestValuePrecedence(t *testing.T) {
	v := decode(t, `{"sub":12,"eps":24}`).(map[string]interface{})
	assert.Equal(t, float64(12), Value(v, "sub", "eps"))
	assert.Equal(t, float64(24), Value(v, "missing", "eps"))
	assert.Nil(t, Value(v, "missing"))
}

func TestFindListLocatesImageArray(t *testing.T) {
	v := decode(t, `{"data":[{"panel":["http://cdn/1.jpg","http://cdn/2.jpg"]}]}`)
	got := FindList(v, AllStringsLikeURLs)
	assert.Equal(t, []interface{}{"http://cdn/1.jpg", "http://cdn/2.jpg"}, got)
}

func TestFindListRespectsDepthBound(t *testing.T) {
	// The array sits five objects deep, one past the documented limit.
	v := decode(t, `{"a":{"b":{"c":{"d":{"e":["http://cdn/1.jpg"]}}}}}`)
	assert.Nil(t, FindList(v, AllStringsLikeURLs))
}

func TestFindListIgnoresNonMatchingArrays(t *testing.T) {
	v := decode(t, `{"tags":["drama","action"],"pages":["http://cdn/1.jpg"]}`)
	got := FindList(v, AllStringsLikeURLs)
	assert.Equal(t, []interface{}{"http://cdn/1.jpg"}, got)
}

func TestStrings(t *testing.T) {
	v := decode(t, `["a",1,"b",null]`).([]interface{})
	assert.Equal(t, []string{"a", "b"}, Strings(v))
}
