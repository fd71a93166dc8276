package resolvconf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resolvcore/resolvconf"
)

func TestRefAcquireReleaseTracksCount(t *testing.T) {
	cfg := resolvconf.New()
	ref := resolvconf.NewRef(cfg)
	assert.EqualValues(t, 1, ref.Count())

	ref.Acquire()
	assert.EqualValues(t, 2, ref.Count())

	ref.Release()
	assert.EqualValues(t, 1, ref.Count())

	ref.Release()
	assert.EqualValues(t, 0, ref.Count())
}

func TestMergeDefaultsFillsZeroFields(t *testing.T) {
	cfg := &resolvconf.Config{}
	require := assert.New(t)
	require.NoError(resolvconf.MergeDefaults(cfg))
	require.Equal(uint8(1), cfg.Options.NDots)
	require.Equal(2, cfg.Options.Attempts)
}
