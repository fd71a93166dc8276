package resolvconf_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resolvcore/resolvconf"
)

const sample = `
# a comment line
nameserver 8.8.8.8
nameserver 2001:4860:4860::8888
search a.example b.example
options ndots:2
`

func TestLoadParsesNameserversSearchAndOptions(t *testing.T) {
	cfg, err := resolvconf.Load(strings.NewReader(sample))
	require.NoError(t, err)

	require.Len(t, cfg.Nameservers, 2)
	assert.True(t, cfg.Nameservers[0].Addr().Is4())
	assert.Equal(t, uint16(53), cfg.Nameservers[0].Port())
	assert.True(t, cfg.Nameservers[1].Addr().Is6())

	assert.Equal(t, []string{"a.example.", "b.example."}, cfg.Search)
	assert.Equal(t, uint8(2), cfg.Options.NDots)
}

func TestLoadIgnoresUnknownKeywordsAndShortLines(t *testing.T) {
	text := "bogus entirely unknown line\nnameserver\noptions ndots:2 bogus-opt\n"
	cfg, err := resolvconf.Load(strings.NewReader(text))
	require.NoError(t, err)

	assert.Empty(t, cfg.Nameservers)
	assert.Equal(t, uint8(2), cfg.Options.NDots)
}

func TestNameserverListCapsAtMax(t *testing.T) {
	text := "nameserver 10.0.0.1\nnameserver 10.0.0.2\nnameserver 10.0.0.3\nnameserver 10.0.0.4\n"
	cfg, err := resolvconf.Load(strings.NewReader(text))
	require.NoError(t, err)
	assert.Len(t, cfg.Nameservers, resolvconf.MaxNameservers)
}

func TestDomainDirectiveReplacesSearchList(t *testing.T) {
	text := "search a.example b.example\ndomain corp.example\n"
	cfg, err := resolvconf.Load(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, []string{"corp.example."}, cfg.Search)
}

func TestSupplementedOptions(t *testing.T) {
	text := "options timeout:2 attempts:5 rotate edns0 recursive\n"
	cfg, err := resolvconf.Load(strings.NewReader(text))
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Options.Timeout)
	assert.Equal(t, 5, cfg.Options.Attempts)
	assert.True(t, cfg.Options.Rotate)
	assert.True(t, cfg.Options.EDNS0)
	assert.True(t, cfg.Options.Recursive)
}

func TestDefaultOptions(t *testing.T) {
	cfg := resolvconf.New()
	assert.Equal(t, uint8(1), cfg.Options.NDots)
	assert.Equal(t, 5*time.Second, cfg.Options.Timeout)
	assert.Equal(t, 2, cfg.Options.Attempts)
}
