package common

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

// AES-256-CTR keystream for the key 00 01 .. 1f with a little endian counter.
const cprngVector = "f29000b62a499fd0a9f39a6add2e7780c7b519846a11411cd6ac07cb03f801a84ef4b88bebd54953c37ffaf66efaca7b80c3017e8f89ab315ede32b11e48ab50d5786900334bbaad31a868ca3c29221b99ebccc0117949cd663c44c06a1c58b05daad7132f80983dae88ecf9ce714a1b600411a4cb4d0da02e107f8d0bcfdab864009471a3394f76374e38bfdc9fe26c62ac2e4b9ec5049108dccdb6488f325cf3297d5a71a5d1734dd46661023ea39f7402facdf1802b42d88a715615324bd502bddc6de19403882a27cdf934adffc9483c475aeb20edf61bfa6a18777a7ada695ebda390508948b1fc69971a26a169c0de48d769b197cd5cf9bb5f798f49d0"

func vectorSeed() *[32]byte {
	var seed [32]byte
	for i := range seed {
		seed[i] = byte(i)
	}
	return &seed
}

func TestCPRNGPrefixes(t *testing.T) {
	var buf [256]byte
	for i := 0; i < 256; i++ {
		rng, err := NewCPRNG(vectorSeed())
		require.NoError(t, err)
		_, _ = rng.Read(buf[0:i])
		require.Equal(t, cprngVector[:2*i], hex.EncodeToString(buf[:i]), "prefix %d", i)
	}
}

func TestCPRNGBlockwise(t *testing.T) {
	var buf [256]byte
	rng, err := NewCPRNG(vectorSeed())
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		_, _ = rng.Read(buf[i*32 : (i+1)*32])
	}
	require.Equal(t, cprngVector, hex.EncodeToString(buf[:]))
}

func TestCPRNGPartialBlocksSkipRemainder(t *testing.T) {
	var buf [32]byte
	for j := 17; j < 31; j++ {
		rng, err := NewCPRNG(vectorSeed())
		require.NoError(t, err)
		for i := 0; i < 8; i++ {
			_, _ = rng.Read(buf[:j])
			require.Equal(t, cprngVector[64*i:64*i+2*j], hex.EncodeToString(buf[:j]))
		}
	}
}

func TestSeededCPRNGRepeatable(t *testing.T) {
	a, b := make([]byte, 64), make([]byte, 64)
	_, _ = NewSeededCPRNG([]byte("payload")).Read(a)
	_, _ = NewSeededCPRNG([]byte("payload")).Read(b)
	require.Equal(t, a, b)

	_, _ = NewSeededCPRNG([]byte("other payload")).Read(b)
	require.False(t, bytes.Equal(a, b))
}
