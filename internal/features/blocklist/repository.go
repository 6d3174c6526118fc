// Package blocklist tracks IPs that are denied all access.
package blocklist

import "context"

type Repository interface {
	Contains(ctx context.Context, ip string) (bool, error)
	// Add is idempotent.
	Add(ctx context.Context, ip string) error
}
