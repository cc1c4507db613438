package checksum

import (
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// CalculateCheckSum returns the hex encoded xxhash digest of content.
func CalculateCheckSum(content []byte) string {
	digest := xxhash.New()
	digest.Write(content)

	return hex.EncodeToString(digest.Sum(nil))
}
