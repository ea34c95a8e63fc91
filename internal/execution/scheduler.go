package execution

import (
	"fmt"
	"strconv"
	"strings"
)

// Scheduler distributes test files across buckets
type Scheduler interface {
	Schedule(tests []string, buckets int) [][]string
}

// RoundRobinScheduler distributes test files evenly, in order
type RoundRobinScheduler struct{}

// NewRoundRobinScheduler creates a new RoundRobinScheduler
func NewRoundRobinScheduler() *RoundRobinScheduler {
	return &RoundRobinScheduler{}
}

// Schedule deals tests into buckets like cards
func (s *RoundRobinScheduler) Schedule(tests []string, buckets int) [][]string {
	if buckets <= 0 {
		buckets = 1
	}

	distribution := make([][]string, buckets)
	for i := range distribution {
		distribution[i] = make([]string, 0, len(tests)/buckets+1)
	}
	for i, test := range tests {
		distribution[i%buckets] = append(distribution[i%buckets], test)
	}
	return distribution
}

// Shard is one 1-based slice of a sharded run, parsed from "index/total"
type Shard struct {
	Index int
	Total int
}

// ParseShard parses "2/3". An empty string means no sharding.
func ParseShard(s string) (Shard, error) {
	if s == "" {
		return Shard{Index: 1, Total: 1}, nil
	}
	idx, total, ok := strings.Cut(s, "/")
	if !ok {
		return Shard{}, fmt.Errorf("invalid shard %q: want index/total", s)
	}
	i, err1 := strconv.Atoi(strings.TrimSpace(idx))
	n, err2 := strconv.Atoi(strings.TrimSpace(total))
	if err1 != nil || err2 != nil || n < 1 || i < 1 || i > n {
		return Shard{}, fmt.Errorf("invalid shard %q: want 1 <= index <= total", s)
	}
	return Shard{Index: i, Total: n}, nil
}

// Select returns the files that belong to this shard
func (sh Shard) Select(s Scheduler, tests []string) []string {
	if sh.Total <= 1 {
		return tests
	}
	return s.Schedule(tests, sh.Total)[sh.Index-1]
}
