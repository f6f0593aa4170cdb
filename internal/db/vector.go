package db

import (
	"encoding/binary"
	"math"
)

// EncodeVector encodes a vector as little-endian FLOAT32 bytes, the blob layout
// of VECTOR ... TYPE FLOAT32 fields in hashes and KNN query params.
func EncodeVector(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
