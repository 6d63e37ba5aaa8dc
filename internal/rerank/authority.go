package rerank

import (
	"net/url"
	"strings"
)

// AuthorityTier classifies how authoritative a source is
type AuthorityTier int

const (
	TierUnknown   AuthorityTier = iota // No URL to classify
	TierPrimary                        // Official, legal and academic sources
	TierSecondary                      // Encyclopedias, wire services, major publishers
	TierTertiary                       // Everything else
)

func (t AuthorityTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierTertiary:
		return "tertiary"
	default:
		return "unknown"
	}
}

// AuthorityMetadataKey is the evidence metadata key holding the tier
const AuthorityMetadataKey = "authority"

// AuthorityDomains lists the registrable domains of each tier. A host matches
// a domain exactly or as a subdomain.
type AuthorityDomains struct {
	Primary   []string
	Secondary []string
}

// DefaultAuthorityDomains is used when no domain lists are configured
func DefaultAuthorityDomains() AuthorityDomains {
	return AuthorityDomains{
		Primary: []string{
			"doi.org",
			"europa.eu",
			"legislation.gov.uk",
			"ncbi.nlm.nih.gov",
			"un.org",
			"who.int",
		},
		Secondary: []string{
			"apnews.com",
			"bbc.co.uk",
			"bbc.com",
			"britannica.com",
			"nature.com",
			"reuters.com",
			"wikipedia.org",
		},
	}
}

// AuthorityClassifier maps evidence URLs to authority tiers
type AuthorityClassifier struct {
	primary   []string
	secondary []string
}

// NewAuthorityClassifier builds a classifier from domain lists
func NewAuthorityClassifier(domains AuthorityDomains) *AuthorityClassifier {
	normalize := func(in []string) []string {
		out := make([]string, 0, len(in))
		for _, d := range in {
			if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
				out = append(out, d)
			}
		}
		return out
	}
	return &AuthorityClassifier{
		primary:   normalize(domains.Primary),
		secondary: normalize(domains.Secondary),
	}
}

// Classify returns the tier of a URL. Government and academic TLDs are
// primary even when not listed.
func (a *AuthorityClassifier) Classify(rawURL string) AuthorityTier {
	if rawURL == "" {
		return TierUnknown
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return TierTertiary
	}
	host := strings.ToLower(parsed.Hostname())

	if matchDomain(host, a.primary) {
		return TierPrimary
	}
	if matchDomain(host, a.secondary) {
		return TierSecondary
	}
	for _, suffix := range []string{".gov", ".edu", ".mil", ".ac.uk", ".gov.uk"} {
		if strings.HasSuffix(host, suffix) {
			return TierPrimary
		}
	}
	return TierTertiary
}

func matchDomain(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
