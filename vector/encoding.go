package vector

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encode serializes slot values as little-endian IEEE 754 float32, the
// BLOB format the vector store persists. No length prefix; dimension is
// derived from the blob size on decode and checked against the schema.
func Encode(vals []float32) []byte {
	buf := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// Decode deserializes a blob produced by Encode.
func Decode(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("vector: blob length %d is not a multiple of 4", len(blob))
	}
	vals := make([]float32, len(blob)/4)
	for i := range vals {
		vals[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vals, nil
}

// CosineSimilarity computes cosine similarity over raw float32 slices,
// as stored. Returns 0 for mismatched or zero-magnitude inputs; callers
// comparing FeatureVectors should use Cosine, which checks versions.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		va, vb := float64(a[i]), float64(b[i])
		dot += va * vb
		na += va * va
		nb += vb * vb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// L2Distance computes the Euclidean distance over stored float32
// slices. Returns +Inf for mismatched dimensions so a corrupt row can
// never rank as a nearest neighbour.
func L2Distance(a, b []float32) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
