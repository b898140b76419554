// assets/embed.go
//
// Embedded defaults shipped with the binary.
//
// Contents:
//   - answers.txt: words the keeper may choose as the secret.
//   - allowed.txt: extra guesses; answers are always allowed too.
//   - sql/*.sql:   schema migrations, applied in file name order.
//
// List files hold one word per line. Blank lines and lines starting with
// "#" are skipped; words are lowercased.
package assets

import (
	"bufio"
	"embed"
	"io"
	"io/fs"
	"strings"
)

//go:embed allowed.txt answers.txt
var FS embed.FS

//go:embed sql/*.sql
var migrations embed.FS

// Migrations returns the migration scripts rooted at their directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "sql")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory
	}
	return sub
}

// ReadLines parses a word list.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

func readFile(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLines(f)
}

func AnswersList() ([]string, error) {
	return readFile("answers.txt")
}

func AllowedList() ([]string, error) {
	return readFile("allowed.txt")
}
