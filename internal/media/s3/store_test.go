package s3

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkKeysSplitsAtLimit(t *testing.T) {
	cases := []struct {
		count  int
		chunks []int
	}{
		{0, nil},
		{1, []int{1}},
		{999, []int{999}},
		{1000, []int{1000}},
		{1001, []int{1000, 1}},
		{2500, []int{1000, 1000, 500}},
	}

	for _, tc := range cases {
		keys := make([]string, tc.count)
		for i := range keys {
			keys[i] = fmt.Sprintf("restaurants/1/key-%d.jpg", i)
		}

		chunks := chunkKeys(keys, deleteBatchMax)
		require.Len(t, chunks, len(tc.chunks), "count=%d", tc.count)

		total := 0
		for i, chunk := range chunks {
			require.Len(t, chunk, tc.chunks[i], "count=%d chunk=%d", tc.count, i)
			total += len(chunk)
		}
		require.Equal(t, tc.count, total, "count=%d", tc.count)
		if tc.count > 0 {
			require.Equal(t, keys[0], chunks[0][0])
			require.Equal(t, keys[tc.count-1], chunks[len(chunks)-1][len(chunks[len(chunks)-1])-1])
		}
	}
}
