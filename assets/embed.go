// assets/embed.go
//
// Files compiled into the binary:
//   - english_words.txt: default dictionary used when no word file is configured.
//   - sql/*.sql: schema migrations applied by the history package.
package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed english_words.txt sql/*.sql
var FS embed.FS

// readLines returns the non-blank, non-comment lines of an embedded file, uppercased.
func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
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
		out = append(out, strings.ToUpper(s))
	}
	return out, sc.Err()
}

// WordList returns the embedded default dictionary.
func WordList() ([]string, error) {
	return readLines("english_words.txt")
}

// Migrations returns the embedded sql directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// "sql" is a literal embedded directory; Sub only fails on an invalid name.
		panic(err)
	}
	return sub
}
