package provision

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// IsVersionTag reports whether s looks like a server version tag: a literal
// "v" followed by a dotted identifier. Malformed names are filtered out here,
// before comparison, so the comparator stays total.
func IsVersionTag(s string) bool {
	return len(s) > 1 && strings.HasPrefix(s, "v")
}

// CompareTags orders two version tags. The leading "v" is stripped and the
// remainders are compared as semver when both parse; otherwise segments are
// compared pairwise, numerically when both sides are numbers and lexically
// when not. A tag that is a strict prefix of a longer tag orders before it.
// CompareTags never fails: -1, 0, or 1 comes back for any pair of strings.
func CompareTags(a, b string) int {
	av := strings.TrimPrefix(a, "v")
	bv := strings.TrimPrefix(b, "v")

	if sa, errA := semver.NewVersion(av); errA == nil {
		if sb, errB := semver.NewVersion(bv); errB == nil {
			return sa.Compare(sb)
		}
	}

	return compareDotted(av, bv)
}

// compareDotted is the fallback ordering for tags semver cannot parse.
func compareDotted(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")

	for i := 0; i < len(as) && i < len(bs); i++ {
		an, aErr := strconv.Atoi(as[i])
		bn, bErr := strconv.Atoi(bs[i])
		if aErr == nil && bErr == nil {
			if an != bn {
				if an < bn {
					return -1
				}
				return 1
			}
			continue
		}
		if c := strings.Compare(as[i], bs[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	default:
		return 0
	}
}

// Latest returns the maximum tag under CompareTags, or "" for an empty set.
// Duplicate tags are tolerated; any one of them may be returned.
func Latest(tags []string) string {
	latest := ""
	for _, tag := range tags {
		if latest == "" || CompareTags(tag, latest) > 0 {
			latest = tag
		}
	}
	return latest
}
