package services

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// RandomSource yields uniform draws in [0,1)
type RandomSource interface {
	Float64() float64
}

// CryptoRandom reads fresh bytes from crypto/rand on every call, so there is
// no generator state shared between requests.
type CryptoRandom struct{}

// Float64 returns 53 random bits scaled into [0,1)
func (CryptoRandom) Float64() float64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return float64(binary.BigEndian.Uint64(b[:])>>11) / (1 << 53)
}

// RandomFunc adapts a function to RandomSource
type RandomFunc func() float64

func (f RandomFunc) Float64() float64 { return f() }
