package symmetry

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Load reads a symmetry database file. The format is one manifold per line,
// each line a bracketed list holding the quoted manifold name followed by one
// or more five-integer records:
//
//	['m136', [0, 4, 1, 0, 2], [1, 0, 0, -1, 1], [0, -4, 1, 0, 2]]
//
// Blank lines and lines starting with '#' are skipped. Every record is
// validated against the determinant invariant before the store is returned.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("symmetry: open database: %w", err)
	}
	defer f.Close()
	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("symmetry: %s: %w", path, err)
	}
	return s, nil
}

// Parse reads the database format from r. See Load for the line syntax.
func Parse(r io.Reader) (*Store, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read database: %w", err)
	}
	return NewStore(entries), nil
}

func parseLine(line string) (Entry, error) {
	if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
		return Entry{}, fmt.Errorf("entry must be a bracketed list: %q", line)
	}
	body := line[1 : len(line)-1]

	name, rest, err := parseName(body)
	if err != nil {
		return Entry{}, err
	}

	e := Entry{Manifold: name}
	for {
		rest = strings.TrimLeft(rest, ", \t")
		if rest == "" {
			break
		}
		if rest[0] != '[' {
			return Entry{}, fmt.Errorf("expected record list, got %q", rest)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return Entry{}, fmt.Errorf("unterminated record in %q", rest)
		}
		rec, err := parseRecord(rest[1:end])
		if err != nil {
			return Entry{}, err
		}
		if err := rec.Validate(); err != nil {
			return Entry{}, fmt.Errorf("manifold %s: %w", name, err)
		}
		e.Records = append(e.Records, rec)
		rest = rest[end+1:]
	}
	if len(e.Records) == 0 {
		return Entry{}, fmt.Errorf("manifold %s has no records", name)
	}
	return e, nil
}

// parseName extracts the leading quoted manifold name. Both single and double
// quotes are accepted, matching the Python literal form the database was
// originally written in.
func parseName(body string) (name, rest string, err error) {
	body = strings.TrimLeft(body, " \t")
	if body == "" || (body[0] != '\'' && body[0] != '"') {
		return "", "", fmt.Errorf("entry must start with a quoted manifold name: %q", body)
	}
	quote := body[0]
	end := strings.IndexByte(body[1:], quote)
	if end < 0 {
		return "", "", fmt.Errorf("unterminated manifold name: %q", body)
	}
	name = body[1 : 1+end]
	if name == "" {
		return "", "", fmt.Errorf("empty manifold name")
	}
	return name, body[2+end:], nil
}

func parseRecord(body string) (Record, error) {
	fields := strings.Split(body, ",")
	if len(fields) != 5 {
		return Record{}, fmt.Errorf("record %q: want 5 integers, got %d", body, len(fields))
	}
	var vals [5]int
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return Record{}, fmt.Errorf("record %q: %w", body, err)
		}
		vals[i] = n
	}
	return Record{A: vals[0], B: vals[1], C: vals[2], D: vals[3], N: vals[4]}, nil
}
