package classify

import (
	"net/url"
	"strings"
)

// UnknownInstitution is the fallback attribution label. It is always a
// defined bucket, never empty, so downstream grouping has something to key
// on.
const UnknownInstitution = "Others"

// attributionRule maps a domain substring to an owning institution.
// Ordered: the first match wins, so affiliate domains come before broader
// patterns.
type attributionRule struct {
	substr string
	label  string
}

// defaultAttributions covers the institutions and their known affiliate
// domains.
var defaultAttributions = []attributionRule{
	{"mit.edu", "MIT"},
	{"broadinstitute", "MIT"},
	{"iaifi.org", "MIT"},
	{"ericandwendyschmidtcenter.org", "MIT"},
	{"harvard", "Harvard"},
	{"bu.edu", "BU"},
	{"brown.edu", "Brown"},
	{"northeastern.edu", "Northeastern"},
	{"tufts.edu", "Tufts"},
}

// Attributor resolves a source domain to an institution label
type Attributor struct {
	rules []attributionRule
}

// NewAttributor creates an attributor with the built-in rule table
func NewAttributor() *Attributor {
	return &Attributor{rules: defaultAttributions}
}

// Institution maps an event URL to its owning institution, falling back to
// UnknownInstitution when nothing matches.
func (a *Attributor) Institution(rawURL string) string {
	host := rawURL
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Host != "" {
		host = parsed.Host
	}
	host = strings.ToLower(host)

	for _, rule := range a.rules {
		if strings.Contains(host, rule.substr) {
			return rule.label
		}
	}
	return UnknownInstitution
}
