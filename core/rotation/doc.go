// Package rotation proactively renews session credentials before they expire.
//
// A credential older than the virtual expiry (default 12 minutes) is
// refreshed against the backend on the next qualifying request, with attempts
// spaced at least a minimum interval apart (default 1 minute). Rotation is
// advisory: failures are silent, the old credential stays in use, and the
// next eligible request retries. Only an actual backend rejection ever forces
// the user through login again.
//
// Attempt spacing is tracked per credential by a Throttle. The default
// MemoryThrottle is process-local; RedisThrottle coordinates the spacing
// across horizontally scaled instances.
package rotation
