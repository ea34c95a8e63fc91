package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobinScheduler_Schedule(t *testing.T) {
	s := NewRoundRobinScheduler()
	got := s.Schedule([]string{"a", "b", "c", "d", "e"}, 2)
	assert.Equal(t, [][]string{{"a", "c", "e"}, {"b", "d"}}, got)

	single := s.Schedule([]string{"a", "b"}, 0)
	assert.Equal(t, [][]string{{"a", "b"}}, single)

	sparse := s.Schedule([]string{"a"}, 3)
	require.Len(t, sparse, 3)
	assert.Empty(t, sparse[2])
}

func TestParseShard(t *testing.T) {
	sh, err := ParseShard("")
	require.NoError(t, err)
	assert.Equal(t, Shard{Index: 1, Total: 1}, sh)

	sh, err = ParseShard("2/3")
	require.NoError(t, err)
	assert.Equal(t, Shard{Index: 2, Total: 3}, sh)

	for _, bad := range []string{"3", "0/2", "3/2", "a/b", "1/0"} {
		_, err := ParseShard(bad)
		assert.Error(t, err, bad)
	}
}

func TestShard_Select(t *testing.T) {
	files := []string{"a", "b", "c", "d"}
	s := NewRoundRobinScheduler()

	assert.Equal(t, files, Shard{Index: 1, Total: 1}.Select(s, files))
	assert.Equal(t, []string{"b", "d"}, Shard{Index: 2, Total: 2}.Select(s, files))
}
