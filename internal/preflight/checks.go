// Package preflight verifies the environment before a pipeline run starts.
package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"optipress/internal/services"
)

// CheckSourceRoot reports whether the scan root exists and is traversable.
// A missing root is not an error (the run is simply empty); an existing root
// without read permission is a configuration failure that must abort the run
// before any state is touched.
func CheckSourceRoot(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, services.Wrap(services.ErrConfiguration, "preflight", "stat source root", path, err)
	}
	if !info.IsDir() {
		return false, services.Wrap(services.ErrConfiguration, "preflight", "source root",
			fmt.Sprintf("%s is not a directory", path), nil)
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return false, services.Wrap(services.ErrConfiguration, "preflight", "source root",
			fmt.Sprintf("%s insufficient permissions", path), err)
	}
	return true, nil
}

// CheckWritable verifies a directory can receive output files.
func CheckWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return services.Wrap(services.ErrPersistence, "preflight", "stat output directory", path, err)
	}
	if !info.IsDir() {
		return services.Wrap(services.ErrPersistence, "preflight", "output directory",
			fmt.Sprintf("%s is not a directory", path), nil)
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return services.Wrap(services.ErrPersistence, "preflight", "output directory",
			fmt.Sprintf("%s insufficient permissions", path), err)
	}
	return nil
}
