package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
)

// uniqueName hands out base unchanged the first time and base_2, base_3,
// ... afterwards. Consultants sharing a first name produce colliding file
// names otherwise.
func uniqueName(used map[string]int, base string) string {
	used[base]++
	if n := used[base]; n > 1 {
		return fmt.Sprintf("%s_%d", base, n)
	}
	return base
}

// ZipBytes bundles named files into a deflated ZIP archive. Entries are
// written in sorted name order so identical inputs produce identical
// archives.
func ZipBytes(files map[string][]byte) ([]byte, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("creating zip entry %q: %w", name, err)
		}
		if _, err := w.Write(files[name]); err != nil {
			return nil, fmt.Errorf("writing zip entry %q: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing zip: %w", err)
	}
	return buf.Bytes(), nil
}
