package format

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/WorkingRobot/Lumina/core/errors"
)

// ListMagic is the tag opening the first line of the sheet-list file.
const ListMagic = "EXLT"

// ListEntry is one declared sheet: its canonical name and integer id.
// An id of -1 marks sheets without a stable id assignment.
type ListEntry struct {
	Name string
	ID   int32
}

// List is the parsed sheet-list file. Lookup is case-insensitive.
type List struct {
	Version int
	entries []ListEntry
	byName  map[string]int
}

// ParseList decodes the UTF-8 sheet-list file. Blank lines and lines
// starting with '#' are skipped.
func ParseList(path string, data []byte) (*List, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	if !sc.Scan() {
		return nil, errors.NewParse("list", path, "empty file")
	}

	first := strings.TrimSpace(sc.Text())
	tag, verStr, ok := strings.Cut(first, ",")
	if !ok || tag != ListMagic {
		return nil, errors.NewParse("list", path, fmt.Sprintf("bad magic line %q", first))
	}
	version, err := strconv.Atoi(strings.TrimSpace(verStr))
	if err != nil {
		return nil, errors.NewParse("list", path, fmt.Sprintf("bad version %q", verStr))
	}

	l := &List{
		Version: version,
		byName:  make(map[string]int),
	}
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, idStr, ok := strings.Cut(line, ",")
		if !ok {
			return nil, errors.NewParse("list", path, fmt.Sprintf("bad entry %q", line))
		}
		id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 32)
		if err != nil {
			return nil, errors.NewParse("list", path, fmt.Sprintf("bad id in %q", line))
		}
		name = strings.TrimSpace(name)
		l.byName[strings.ToLower(name)] = len(l.entries)
		l.entries = append(l.entries, ListEntry{Name: name, ID: int32(id)})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.NewParse("list", path, err.Error())
	}

	return l, nil
}

// Has reports whether a sheet name is declared. Case-insensitive.
func (l *List) Has(name string) bool {
	_, ok := l.byName[strings.ToLower(name)]
	return ok
}

// Lookup returns the declared entry for a name. Case-insensitive.
func (l *List) Lookup(name string) (ListEntry, bool) {
	i, ok := l.byName[strings.ToLower(name)]
	if !ok {
		return ListEntry{}, false
	}
	return l.entries[i], true
}

// Names returns the declared sheet names in file order.
func (l *List) Names() []string {
	names := make([]string, len(l.entries))
	for i, e := range l.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of declared sheets.
func (l *List) Len() int {
	return len(l.entries)
}
