package parser

import (
	"fmt"
	"net"

	"github.com/phantomnet/phantomnet/config"
	"github.com/phantomnet/phantomnet/pkg/session"
	"github.com/phantomnet/phantomnet/util"
)

// filter decides which source addresses make it into the session table
type filter struct {
	alwaysIncluded []*net.IPNet
	neverIncluded  []*net.IPNet
}

func newFilter(conf config.FilteringStaticCfg) (*filter, error) {
	always, err := util.ParseSubnets(conf.AlwaysInclude)
	if err != nil {
		return nil, fmt.Errorf("invalid Filtering.AlwaysInclude: %w", err)
	}
	never, err := util.ParseSubnets(conf.NeverInclude)
	if err != nil {
		return nil, fmt.Errorf("invalid Filtering.NeverInclude: %w", err)
	}
	return &filter{alwaysIncluded: always, neverIncluded: never}, nil
}

// filterSource reports whether sessions from src should be ignored.
// Addresses which do not parse are kept.
func (f *filter) filterSource(src string) (ignore bool) {
	srcIP := net.ParseIP(src)
	if srcIP == nil {
		return false
	}

	// an address on both lists is kept
	if util.ContainsIP(f.alwaysIncluded, srcIP) {
		return false
	}
	return util.ContainsIP(f.neverIncluded, srcIP)
}

// filterSessions drops the sessions of ignored sources, keeping order
func (f *filter) filterSessions(sessions []session.Session) (kept []session.Session, dropped int) {
	kept = make([]session.Session, 0, len(sessions))
	for _, s := range sessions {
		if f.filterSource(s.SrcIP) {
			dropped++
			continue
		}
		kept = append(kept, s)
	}
	return kept, dropped
}
