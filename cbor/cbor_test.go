package cbor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type record struct {
	B []byte
	N int
	M map[string]int
}

func TestDeterministic(t *testing.T) {
	a := record{B: []byte{1, 2}, N: 3, M: map[string]int{"z": 1, "a": 2, "m": 3}}
	first, err := Marshal(a)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Marshal(a)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}

	var b record
	require.NoError(t, Unmarshal(first, &b))
	require.Equal(t, a, b)
}

func TestRejectsDuplicateMapKeys(t *testing.T) {
	// {"a": 1, "a": 2}
	data := []byte{0xa2, 0x61, 'a', 0x01, 0x61, 'a', 0x02}
	var m map[string]int
	require.Error(t, Unmarshal(data, &m))
}

func TestRejectsIndefiniteLength(t *testing.T) {
	// indefinite length array [1]
	data := []byte{0x9f, 0x01, 0xff}
	var xs []int
	require.Error(t, Unmarshal(data, &xs))
}
