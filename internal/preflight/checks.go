package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"sortd/internal/config"
	"sortd/internal/services"
)

// Check reports the readiness of one prerequisite.
type Check struct {
	Name   string
	Ready  bool
	Detail string
}

// Run evaluates every prerequisite for the given configuration. The
// returned slice always contains every check; FirstFailure picks out the
// blocking one, if any.
func Run(cfg *config.Config) []Check {
	checks := []Check{
		dirCheck("incoming directory readable", cfg.Paths.IncomingDir, unix.R_OK|unix.X_OK),
		dirCheck("sorted directory writable", cfg.Paths.SortedDir, unix.W_OK|unix.X_OK),
	}
	if cfg.Archive.Enabled {
		checks = append(checks, dirCheck("archive directory writable", cfg.Paths.ArchiveDir, unix.W_OK|unix.X_OK))
	}
	checks = append(checks, freeSpaceCheck(cfg.Paths.SortedDir, cfg.Workflow.MinFreeMiB))
	return checks
}

// FirstFailure returns a configuration error for the first failing check,
// or nil when everything is ready.
func FirstFailure(checks []Check) error {
	for _, check := range checks {
		if !check.Ready {
			return services.Wrap(services.ErrConfiguration, "preflight", check.Name, check.Detail, nil)
		}
	}
	return nil
}

func dirCheck(name, dir string, accessMode uint32) Check {
	if strings.TrimSpace(dir) == "" {
		return Check{Name: name, Detail: "path not configured"}
	}
	info, err := os.Stat(dir)
	if err != nil {
		return Check{Name: name, Detail: err.Error()}
	}
	if !info.IsDir() {
		return Check{Name: name, Detail: fmt.Sprintf("%s is not a directory", dir)}
	}
	if err := unix.Access(dir, accessMode); err != nil {
		return Check{Name: name, Detail: fmt.Sprintf("%s: %v", dir, err)}
	}
	return Check{Name: name, Ready: true}
}

func freeSpaceCheck(dir string, minFreeMiB int) Check {
	const name = "sorted filesystem free space"
	if minFreeMiB <= 0 {
		return Check{Name: name, Ready: true}
	}
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return Check{Name: name, Detail: fmt.Sprintf("%s: %v", dir, err)}
	}
	availableMiB := stat.Bavail * uint64(stat.Bsize) >> 20
	if availableMiB < uint64(minFreeMiB) {
		return Check{
			Name:   name,
			Detail: fmt.Sprintf("%d MiB available, %d MiB required", availableMiB, minFreeMiB),
		}
	}
	return Check{Name: name, Ready: true}
}
