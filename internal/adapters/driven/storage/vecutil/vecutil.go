// Package vecutil holds vector helpers shared by the brute-force index
// backends.
package vecutil

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
)

// L2 returns the Euclidean distance between a and b. Vectors of different
// length come from different embedding models and are rejected.
func L2(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: vector dimensions %d and %d differ", domain.ErrInvalidInput, len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// Nearest sorts hits by ascending distance, keeping insertion order for
// ties, and returns at most k of them.
func Nearest(hits []driven.IndexHit, k int) []driven.IndexHit {
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	if k >= 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// Encode packs a vector as little-endian float32s.
func Encode(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// Decode unpacks a vector written by Encode.
func Decode(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("vector blob length %d is not a multiple of 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}
