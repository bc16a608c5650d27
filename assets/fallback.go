package assets

import (
	"regexp"
	"strings"
)

// DefaultFallbackHash is the asset hash of the current deployment's bundles.
// It only helps while that deployment is live.
const DefaultFallbackHash = "2d2b"

// hashSuffixPattern matches a path that already carries a hash suffix
var hashSuffixPattern = regexp.MustCompile(`-[a-z0-9]{4,}\.`)

// FallbackStrategy proposes one more key to try after the resolved key missed.
// It exists so the hard-coded hash guess can later be swapped for a proper
// manifest refresh without touching Resolve.
type FallbackStrategy interface {
	Candidate(requestPath string) (string, bool)
}

// FixedHashFallback appends a fixed hash to the basename of an unhashed path,
// e.g. "pizzaz.js" becomes "pizzaz-2d2b.js". This is a narrow escape hatch
// for one deployment's asset hash and a known limitation. Do not extend it.
type FixedHashFallback struct {
	Hash string
}

// Candidate returns the hashed guess for requestPath. Paths that already
// look hashed, or have no extension, get no candidate.
func (f FixedHashFallback) Candidate(requestPath string) (string, bool) {
	if HasHashSuffix(requestPath) {
		return "", false
	}
	dot := strings.LastIndex(requestPath, ".")
	if dot == -1 {
		return "", false
	}
	hash := f.Hash
	if hash == "" {
		hash = DefaultFallbackHash
	}
	return requestPath[:dot] + "-" + hash + requestPath[dot:], true
}

// HasHashSuffix reports whether p contains a "-<4+ lowercase alphanumerics>."
// segment
func HasHashSuffix(p string) bool {
	return hashSuffixPattern.MatchString(p)
}

// NoFallback never proposes a second key
type NoFallback struct{}

// Candidate always reports false
func (NoFallback) Candidate(string) (string, bool) {
	return "", false
}
