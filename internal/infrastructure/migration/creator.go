package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/template"
	"time"
)

// versionWidth matches the zero padded prefix of the embedded schema files.
const versionWidth = 6

var fileTemplate = template.Must(template.New("migration").Parse(
	`-- {{.Version}} {{.Name}} ({{.Direction}})
-- Created: {{.Created}}
{{- if .Description}}
-- {{.Description}}
{{- end}}

`))

// File describes one numbered migration found in a source.
type File struct {
	Version int
	Name    string
	HasUp   bool
	HasDown bool
}

// BaseName returns NNNNNN_name.
func (f File) BaseName() string {
	return fmt.Sprintf("%0*d_%s", versionWidth, f.Version, f.Name)
}

// Complete reports whether both directions exist.
func (f File) Complete() bool {
	return f.HasUp && f.HasDown
}

// Catalog reads the NNNNNN_name.{up,down}.sql files at the root of files,
// ordered by version. Names that do not follow the pattern are skipped; two
// names sharing a version are an error.
func Catalog(files fs.FS) ([]File, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	byVersion := make(map[int]*File)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		version, name, direction, ok := parseFileName(entry.Name())
		if !ok {
			continue
		}
		f, found := byVersion[version]
		if !found {
			f = &File{Version: version, Name: name}
			byVersion[version] = f
		} else if f.Name != name {
			return nil, fmt.Errorf("version %d is used by %q and %q", version, f.Name, name)
		}
		if direction == "up" {
			f.HasUp = true
		} else {
			f.HasDown = true
		}
	}

	out := make([]File, 0, len(byVersion))
	for _, f := range byVersion {
		out = append(out, *f)
	}
	slices.SortFunc(out, func(a, b File) int { return a.Version - b.Version })
	return out, nil
}

// Create writes an empty up/down pair into dir, numbered one past the
// highest version already there.
func Create(dir, name, description string, now time.Time) (File, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return File{}, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return File{}, fmt.Errorf("create migrations directory: %w", err)
	}
	existing, err := Catalog(os.DirFS(dir))
	if err != nil {
		return File{}, err
	}
	next := File{Version: 1, Name: slug, HasUp: true, HasDown: true}
	if n := len(existing); n > 0 {
		next.Version = existing[n-1].Version + 1
	}

	created := now.UTC().Format(time.RFC3339)
	upPath := filepath.Join(dir, next.BaseName()+".up.sql")
	if err := writeFile(upPath, next, "up", description, created); err != nil {
		return File{}, err
	}
	if err := writeFile(filepath.Join(dir, next.BaseName()+".down.sql"), next, "down", description, created); err != nil {
		_ = os.Remove(upPath)
		return File{}, err
	}
	return next, nil
}

func writeFile(filePath string, f File, direction, description, created string) error {
	out, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", filePath, err)
	}
	defer out.Close()

	return fileTemplate.Execute(out, map[string]string{
		"Version":     fmt.Sprintf("%0*d", versionWidth, f.Version),
		"Name":        f.Name,
		"Direction":   direction,
		"Created":     created,
		"Description": description,
	})
}

// parseFileName splits 000003_add_index.up.sql into its parts.
func parseFileName(fileName string) (version int, name, direction string, ok bool) {
	base, found := strings.CutSuffix(fileName, ".sql")
	if !found {
		return 0, "", "", false
	}
	direction = strings.TrimPrefix(path.Ext(base), ".")
	if direction != "up" && direction != "down" {
		return 0, "", "", false
	}
	base = strings.TrimSuffix(base, "."+direction)
	prefix, name, found := strings.Cut(base, "_")
	if !found || name == "" {
		return 0, "", "", false
	}
	version, err := strconv.Atoi(prefix)
	if err != nil || version <= 0 {
		return 0, "", "", false
	}
	return version, name, direction, true
}

// sanitizeName lowercases name and folds runs of separators into one
// underscore, dropping everything else.
func sanitizeName(name string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pending = true
		}
	}
	return b.String()
}
