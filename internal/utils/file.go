package utils

import "os"

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// FileExists checks if a file exists and is not a directory
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// FileReadable reports whether filename is a regular file that can be
// opened for reading
func FileReadable(filename string) bool {
	if !FileExists(filename) {
		return false
	}
	f, err := os.Open(filename)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// MissingFiles returns the paths that do not name an existing, readable
// file, in the order given. Duplicates are reported once.
func MissingFiles(paths ...string) []string {
	var missing []string
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		if p == "" || !FileReadable(p) {
			missing = append(missing, p)
		}
	}
	return missing
}
