package checksum

import (
	"fmt"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
)

func TestCalculateCheckSum(t *testing.T) {
	content := []byte("date,hours worked,employee id,job group\n01/11/2023,8.5,123,A\n")

	t.Run("Expect: CalculateCheckSum to return the hex xxhash digest", func(t *testing.T) {
		sum := CalculateCheckSum(content)

		assert.Len(t, sum, 16)
		assert.Equal(t, fmt.Sprintf("%016x", xxhash.Sum64(content)), sum)
	})

	t.Run("Expect: CalculateCheckSum to differ for different content", func(t *testing.T) {
		assert.NotEqual(t, CalculateCheckSum(content), CalculateCheckSum(append(append([]byte(nil), content...), 'x')))
	})
}
