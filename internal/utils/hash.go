package utils

import (
	"fmt"
	"hash/fnv"
)

func HashStringToUint64(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// ShortHash returns a stable "<prefix>_<8 hex>" token for v, used when
// anonymizing report columns that must stay joinable across files.
func ShortHash(prefix, v string) string {
	if v == "" {
		return ""
	}
	return fmt.Sprintf("%s_%08x", prefix, uint32(HashStringToUint64(v)))
}
