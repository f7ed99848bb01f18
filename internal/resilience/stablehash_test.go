package resilience

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStableHash_IgnoresFieldOrder(t *testing.T) {
	t.Parallel()

	type forward struct {
		City   string `json:"city"`
		Nights int    `json:"nights"`
	}
	type reversed struct {
		Nights int    `json:"nights"`
		City   string `json:"city"`
	}

	left, err := StableHash(forward{City: "LIS", Nights: 3})
	require.NoError(t, err)
	right, err := StableHash(reversed{Nights: 3, City: "LIS"})
	require.NoError(t, err)
	require.Equal(t, left, right)

	asMap, err := StableHash(map[string]any{"nights": 3, "city": "LIS"})
	require.NoError(t, err)
	require.Equal(t, left, asMap)
}

func TestStableHash_DistinguishesValues(t *testing.T) {
	t.Parallel()

	one, err := StableHash(map[string]int{"a": 1})
	require.NoError(t, err)
	two, err := StableHash(map[string]int{"a": 2})
	require.NoError(t, err)
	require.NotEqual(t, one, two)
}

func TestStableHash_RejectsUnmarshalable(t *testing.T) {
	t.Parallel()

	_, err := StableHash(make(chan int))
	require.Equal(t, CodeInputInvalid, CodeOf(err))
}
