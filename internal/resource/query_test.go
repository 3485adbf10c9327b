package resource

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_Encode(t *testing.T) {
	q := Query{
		Where:      map[string]any{"name": "Jaipur"},
		Embedded:   map[string]int{"district.state": 1},
		MaxResults: 5,
		Page:       2,
		Extra:      map[string]string{"user_id": "u1"},
	}

	encoded, err := q.Encode()
	require.NoError(t, err)

	params, err := url.ParseQuery(encoded)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Jaipur"}`, params.Get("where"))
	assert.JSONEq(t, `{"district.state":1}`, params.Get("embedded"))
	assert.Equal(t, "5", params.Get("max_results"))
	assert.Equal(t, "2", params.Get("page"))
	assert.Equal(t, "u1", params.Get("user_id"))
}

func TestQuery_Encode_Empty(t *testing.T) {
	encoded, err := Query{}.Encode()
	require.NoError(t, err)
	assert.Empty(t, encoded)
}

func TestPrefixQuery_EscapesMetacharacters(t *testing.T) {
	q := PrefixQuery("name", "c++ pipes (heavy)")

	filter, ok := q.Where["name"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, `^c\+\+ pipes \(heavy\)`, filter["$regex"])
	assert.Equal(t, "i", filter["$options"])
}

func TestQuery_Canonical_Deterministic(t *testing.T) {
	a := Query{
		Where:    map[string]any{"b": 2, "a": 1, "c": 3},
		Embedded: map[string]int{"y": 1, "x": 1},
	}
	b := Query{
		Where:    map[string]any{"c": 3, "a": 1, "b": 2},
		Embedded: map[string]int{"x": 1, "y": 1},
	}

	for range 50 {
		assert.Equal(t, a.canonical(), b.canonical())
	}
}

func TestQuery_Canonical_DistinguishesQueries(t *testing.T) {
	a := Query{Where: map[string]any{"name": "Jaipur"}}
	b := Query{Where: map[string]any{"name": "Jodhpur"}}
	c := Query{Where: map[string]any{"name": "Jaipur"}, MaxResults: 5}

	assert.NotEqual(t, a.canonical(), b.canonical())
	assert.NotEqual(t, a.canonical(), c.canonical())
}
