package resolvconf

import (
	"bufio"
	"io"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"resolvcore/internal/log"
	"resolvcore/wire"
)

// Load parses a resolv.conf-style stream into a Config (spec.md §4.4).
// Separators are whitespace or comma; comments run from '#' or ';' to
// end-of-line. Unknown keywords, unknown options, and short lines are
// silently skipped — the loader prefers forward-compatibility over strict
// rejection (spec.md §7).
func Load(r io.Reader) (*Config, error) {
	cfg := New()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.IndexAny(line, "#;"); idx >= 0 {
			line = line[:idx]
		}

		fields := strings.FieldsFunc(line, isFieldSep)
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "nameserver":
			applyNameserver(cfg, fields)
		case "domain":
			applyDomain(cfg, fields)
		case "search":
			applySearch(cfg, fields)
		case "lookup":
			applyLookup(cfg, fields)
		case "options":
			for _, tok := range fields[1:] {
				applyOption(&cfg.Options, tok)
			}
		case "interface":
			applyInterface(cfg, fields)
		default:
			log.Debug("resolvconf: ignoring unknown keyword", "keyword", fields[0])
		}
	}

	return cfg, scanner.Err()
}

// LoadFile parses f, rewinding it to the start first (spec.md §6: "the
// loader is positioned at file start").
func LoadFile(f *os.File) (*Config, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return Load(f)
}

// LoadPath opens path and parses it via LoadFile.
func LoadPath(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadFile(f)
}

func isFieldSep(r rune) bool {
	return r == ' ' || r == '\t' || r == ','
}

func applyNameserver(cfg *Config, fields []string) {
	if len(fields) < 2 || len(cfg.Nameservers) >= MaxNameservers {
		return
	}
	addr, err := netip.ParseAddr(fields[1])
	if err != nil {
		return
	}
	cfg.Nameservers = append(cfg.Nameservers, netip.AddrPortFrom(addr, 53))
}

func applyDomain(cfg *Config, fields []string) {
	if len(fields) < 2 {
		return
	}
	cfg.Search = []string{wire.Anchor(fields[1])}
}

func applySearch(cfg *Config, fields []string) {
	search := make([]string, 0, len(fields)-1)
	for _, f := range fields[1:] {
		if len(search) >= MaxSearch {
			break
		}
		name := wire.Anchor(f)
		if name == "." {
			continue
		}
		search = append(search, name)
	}
	cfg.Search = search
}

func applyLookup(cfg *Config, fields []string) {
	for _, f := range fields[1:] {
		if len(cfg.Lookup) >= MaxLookup {
			break
		}
		switch strings.ToLower(f) {
		case "file":
			cfg.Lookup = append(cfg.Lookup, LookupFile)
		case "bind":
			cfg.Lookup = append(cfg.Lookup, LookupBind)
		}
	}
}

func applyInterface(cfg *Config, fields []string) {
	if len(fields) < 3 {
		return
	}
	ip, err := netip.ParseAddr(fields[1])
	if err != nil {
		return
	}
	port, err := strconv.ParseUint(fields[2], 10, 16)
	if err != nil {
		return
	}
	cfg.Interface = netip.AddrPortFrom(ip, uint16(port))
}

func applyOption(opts *Options, tok string) {
	switch {
	case tok == "edns0":
		opts.EDNS0 = true
	case tok == "recursive":
		opts.Recursive = true
	case tok == "rotate":
		opts.Rotate = true
	case strings.HasPrefix(tok, "ndots:"):
		n, err := strconv.Atoi(tok[len("ndots:"):])
		if err != nil {
			return
		}
		if n < 0 {
			n = 0
		} else if n > 15 {
			n = 15
		}
		opts.NDots = uint8(n)
	case strings.HasPrefix(tok, "timeout:"):
		n, err := strconv.Atoi(tok[len("timeout:"):])
		if err != nil || n < 1 {
			return
		}
		opts.Timeout = time.Duration(n) * time.Second
	case strings.HasPrefix(tok, "attempts:"):
		n, err := strconv.Atoi(tok[len("attempts:"):])
		if err != nil || n < 1 {
			return
		}
		opts.Attempts = n
	default:
		// unrecognized option: silent skip (spec.md §4.4, §7).
	}
}

// DefaultSearchFromHostname synthesizes a one-entry search list from the
// local hostname's parent domain, via Cleave, for use when resolv.conf has
// neither a domain nor a search directive (SPEC_FULL.md §12, recovered from
// dns_resconf_open's gethostname+cleave sequence in the original resolver).
// Callers decide whether and when to use it; Load never calls it itself.
func DefaultSearchFromHostname() (string, error) {
	host, err := os.Hostname()
	if err != nil {
		return "", err
	}
	return wire.Cleave(wire.Anchor(host)), nil
}
