package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"path"
	"strings"
)

//go:embed words/*.txt
var wordsFS embed.FS

//go:embed sql/*.sql
var sqlFS embed.FS

// Words returns the embedded word lists, one <category>.txt per category.
func Words() fs.FS {
	sub, _ := fs.Sub(wordsFS, "words")
	return sub
}

// Migrations returns the embedded SQL migrations.
func Migrations() fs.FS {
	sub, _ := fs.Sub(sqlFS, "sql")
	return sub
}

// ReadLines reads a one-entry-per-line file from fsys, skipping blank
// lines and # comments.
func ReadLines(fsys fs.FS, name string) ([]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// ListNames returns the base names (without extension) of the files in
// fsys that end in ext.
func ListNames(fsys fs.FS, ext string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ext {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), ext))
	}
	return out, nil
}
