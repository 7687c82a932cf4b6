package mockup

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
)

// Archive bundles the rendered site into a single ZIP. Entries are
// written in sorted order so the same site always produces the same
// archive layout.
func Archive(site *Site) ([]byte, error) {
	names := make([]string, 0, len(site.Files))
	for name := range site.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		f, err := w.Create(name)
		if err != nil {
			return nil, fmt.Errorf("zip entry %s: %w", name, err)
		}
		if _, err := f.Write(site.Files[name]); err != nil {
			return nil, fmt.Errorf("zip write %s: %w", name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zip close: %w", err)
	}
	return buf.Bytes(), nil
}
