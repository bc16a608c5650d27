package assets

import "strings"

// NormalizePath strips one leading slash from a logical asset path
func NormalizePath(logicalPath string) string {
	return strings.TrimPrefix(logicalPath, "/")
}

// Resolve maps logicalPath to the physical path to fetch. It tries an exact
// manifest entry, then the greatest manifest value shaped like
// "<dir><basename>-<hash><ext>", then gives back the normalized path itself.
// It never fails; a miss is left to the fetch.
func Resolve(manifest Manifest, logicalPath string) string {
	normalized := NormalizePath(logicalPath)

	if direct := manifest[normalized]; direct != "" {
		return direct
	}

	if hashed, ok := resolveHashed(manifest, normalized); ok {
		return hashed
	}

	return normalized
}

// resolveHashed picks the lexicographically greatest value matching the
// hashed form of candidate. Hashes do not sort by build time, so the pick
// is deterministic but not necessarily the newest.
func resolveHashed(manifest Manifest, candidate string) (string, bool) {
	directory, filename := "", candidate
	if i := strings.LastIndex(candidate, "/"); i >= 0 {
		directory, filename = candidate[:i+1], candidate[i+1:]
	}

	dot := strings.LastIndex(filename, ".")
	if dot == -1 {
		return "", false
	}

	prefix := directory + filename[:dot] + "-"
	suffix := filename[dot:]

	var best string
	found := false
	for _, value := range manifest {
		if !strings.HasPrefix(value, prefix) || !strings.HasSuffix(value, suffix) {
			continue
		}
		if !found || value > best {
			best = value
			found = true
		}
	}
	return best, found
}
