package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resolvcore/resolvconf"
	"resolvcore/search"
)

func configWithSearch(t *testing.T, ndots uint8) *resolvconf.Config {
	t.Helper()
	cfg := resolvconf.New()
	cfg.Search = []string{"a.example.", "b.example."}
	cfg.Options.NDots = ndots
	return cfg
}

func TestSearchBelowNDotsTriesSuffixesThenBareName(t *testing.T) {
	cfg := configWithSearch(t, 2)
	got := search.All("host", cfg)
	require.Equal(t, []string{"host.a.example.", "host.b.example.", "host."}, got)
}

func TestSearchAtOrAboveNDotsTriesBareNameFirst(t *testing.T) {
	cfg := configWithSearch(t, 2)
	got := search.All("a.b.c", cfg)
	require.Equal(t, []string{"a.b.c.", "a.b.c.a.example.", "a.b.c.b.example."}, got)
}

func TestSearchWithEmptySearchListAndBelowNDots(t *testing.T) {
	cfg := resolvconf.New()
	cfg.Options.NDots = 1
	got := search.All("host", cfg)
	assert.Equal(t, []string{"host."}, got)
}

func TestStateIsRestartable(t *testing.T) {
	cfg := configWithSearch(t, 2)

	var got []string
	state := search.State{}
	for {
		cand, next, ok := search.Next("host", cfg, state)
		if !ok {
			break
		}
		got = append(got, cand)
		state = next
	}
	assert.Equal(t, search.All("host", cfg), got)
}
