package adapter

import (
	"regexp"
	"strconv"
)

// rateLimitPatterns match throttling indicators across the various CLI
// tools, case-insensitively. Any match in an invocation's combined output
// marks the result rate-limited regardless of exit code.
var rateLimitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)rate.?limit`),
	regexp.MustCompile(`(?i)too many requests`),
	regexp.MustCompile(`(?i)429`),
	regexp.MustCompile(`(?i)quota.?exceeded`),
	regexp.MustCompile(`(?i)resource.?exhausted`),
	regexp.MustCompile(`(?i)overloaded`),
	regexp.MustCompile(`(?i)retry.?after`),
	regexp.MustCompile(`(?i)tokens?.?per.?min`),
	regexp.MustCompile(`(?i)requests?.?per.?min`),
}

// retryAfterPattern extracts a numeric delay following a "retry after"
// marker, tolerating separator and casing variations.
var retryAfterPattern = regexp.MustCompile(`(?i)retry.?after[:\s]+(\d+(?:\.\d+)?)`)

// IsRateLimited reports whether the combined stdout/stderr text indicates
// the agent's backing service throttled the request.
func IsRateLimited(stdout, stderr string) bool {
	combined := stdout + "\n" + stderr
	for _, p := range rateLimitPatterns {
		if p.MatchString(combined) {
			return true
		}
	}
	return false
}

// ExtractRetryAfter searches the combined output for a server-suggested
// retry delay in seconds. The second return value is false when no marker
// is present.
func ExtractRetryAfter(stdout, stderr string) (float64, bool) {
	combined := stdout + "\n" + stderr
	match := retryAfterPattern.FindStringSubmatch(combined)
	if match == nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return seconds, true
}
