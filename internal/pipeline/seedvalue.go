package pipeline

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// DeriveSeedValue computes the sampling seed for one (seed row, provider)
// unit of work. It is a pure function of its inputs, so reruns with the same
// configuration always issue identical request parameters.
func DeriveSeedValue(seedID, providerName string, runSeed int64) int64 {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", seedID, providerName, runSeed)))
	// Clear the sign bit so the value survives stores that reject negatives.
	return int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
}
