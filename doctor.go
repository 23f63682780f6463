package soundvault

import (
	"context"
	"fmt"
	"time"

	"soundvault/internal/storage"
)

// CheckResult reports the outcome of a single health check.
type CheckResult struct {
	Name   string
	Passed bool
	Detail string
}

const remotePingTimeout = 10 * time.Second

// Doctor runs the vault health checks: library access, catalog integrity,
// free space, and remote reachability. A disabled remote passes with a
// note rather than failing.
func (v *Vault) Doctor(ctx context.Context) []CheckResult {
	results := make([]CheckResult, 0, 4)

	root := v.files.Layout().Root()
	if err := storage.CheckAccess(root); err != nil {
		results = append(results, CheckResult{Name: "Library directory", Detail: err.Error()})
	} else {
		results = append(results, CheckResult{Name: "Library directory", Passed: true, Detail: root})
	}

	if err := v.store.Ping(ctx); err != nil {
		results = append(results, CheckResult{Name: "Catalog database", Detail: err.Error()})
	} else if stats, err := v.store.Stats(ctx); err != nil {
		results = append(results, CheckResult{Name: "Catalog database", Detail: err.Error()})
	} else {
		results = append(results, CheckResult{
			Name:   "Catalog database",
			Passed: true,
			Detail: fmt.Sprintf("%d sounds, %d collections, %d memberships", stats.Sounds, stats.Collections, stats.Memberships),
		})
	}

	if total, free, err := v.files.FreeSpace(); err != nil {
		results = append(results, CheckResult{Name: "Free space", Detail: err.Error()})
	} else {
		results = append(results, CheckResult{
			Name:   "Free space",
			Passed: true,
			Detail: fmt.Sprintf("%s free of %s", formatBytes(free), formatBytes(total)),
		})
	}

	if v.remote == nil {
		results = append(results, CheckResult{
			Name:   "Remote service",
			Passed: true,
			Detail: "disabled (no api key configured)",
		})
	} else {
		pingCtx, cancel := context.WithTimeout(ctx, remotePingTimeout)
		defer cancel()
		if err := v.remote.Ping(pingCtx); err != nil {
			results = append(results, CheckResult{Name: "Remote service", Detail: err.Error()})
		} else {
			results = append(results, CheckResult{Name: "Remote service", Passed: true, Detail: "reachable"})
		}
	}

	return results
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
