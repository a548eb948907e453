package session

import (
	"path/filepath"
	"strings"
)

// SaveSpec is the configured part of a save address. Empty fields fall back.
type SaveSpec struct {
	Dir    string
	Name   string
	Format string
}

// ResolveSavePath applies the save-path rule shared by every save-style node:
//
//	dir    = spec.Dir, else the session save dir, else the scratch dir
//	name   = spec.Name, else fallback.Name
//	format = spec.Format, else fallback.Format
//
// and returns {dir}/{name}.{format}. A leading dot on the format is ignored.
func (s *Session) ResolveSavePath(spec, fallback SaveSpec) string {
	dir := firstNonEmpty(spec.Dir, s.saveDir, s.scratchDir)
	name := firstNonEmpty(spec.Name, fallback.Name)
	format := strings.TrimPrefix(firstNonEmpty(spec.Format, fallback.Format), ".")

	file := name
	if format != "" {
		file = name + "." + format
	}
	return filepath.Join(dir, file)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
