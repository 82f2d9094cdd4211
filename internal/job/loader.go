// Package job reads task descriptions for the simulator.
//
// A task file is a stream of whitespace-separated tokens taken three at a
// time as records:
//
//	<id:char> <start_tick:uint> <duration:uint>
//
// Line breaks carry no meaning, so a record may span lines and a line may
// hold several records. A token starting with '#' comments out the rest of
// its line. Records that do not parse are skipped with a warning rather than
// failing the whole file.
package job

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Spec is one raw task record.
type Spec struct {
	ID       rune
	Start    int64
	Duration int64
}

// Load opens path and parses every record in it.
func Load(path string) ([]Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open file %s", path)
	}
	defer f.Close()

	specs, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return specs, nil
}

// Read parses records from r. Only read errors are returned; malformed
// records, including a trailing incomplete one, are counted and skipped.
func Read(r io.Reader) ([]Spec, error) {
	var specs []Spec
	skipped := 0

	sc := bufio.NewScanner(r)
	sc.Split(scanTokens())

	var rec [3]string
	n := 0
	for record := 1; sc.Scan(); {
		rec[n] = sc.Text()
		if n++; n < len(rec) {
			continue
		}
		n = 0
		sp, err := parseRecord(rec[0], rec[1], rec[2])
		if err != nil {
			logrus.Debugf("record %d: skipping %q: %v", record, rec, err)
			skipped++
		} else {
			specs = append(specs, sp)
		}
		record++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if n > 0 {
		logrus.Debugf("skipping %d trailing tokens %q", n, rec[:n])
		skipped++
	}

	if skipped > 0 {
		logrus.Warnf("%d malformed task records were skipped", skipped)
	}
	return specs, nil
}

// scanTokens splits like bufio.ScanWords and drops '#' comments. Comment
// text is consumed as it streams in, so its length is not bounded by the
// scanner buffer.
func scanTokens() bufio.SplitFunc {
	inComment := false
	return func(data []byte, atEOF bool) (int, []byte, error) {
		start := 0
		for start < len(data) {
			if inComment {
				i := bytes.IndexByte(data[start:], '\n')
				if i < 0 {
					return len(data), nil, nil
				}
				start += i + 1
				inComment = false
				continue
			}
			r, width := utf8.DecodeRune(data[start:])
			if r == '#' {
				inComment = true
			} else if !unicode.IsSpace(r) {
				break
			}
			start += width
		}

		advance, token, err := bufio.ScanWords(data[start:], atEOF)
		return start + advance, token, err
	}
}

func parseRecord(idField, startField, durationField string) (Spec, error) {
	id, size := utf8.DecodeRuneInString(idField)
	if id == utf8.RuneError || size != len(idField) {
		return Spec{}, errors.Errorf("id %q is not a single character", idField)
	}
	start, err := strconv.ParseUint(startField, 10, 63)
	if err != nil {
		return Spec{}, errors.Wrap(err, "start tick")
	}
	duration, err := strconv.ParseUint(durationField, 10, 63)
	if err != nil {
		return Spec{}, errors.Wrap(err, "duration")
	}
	if duration == 0 {
		return Spec{}, errors.New("duration must be positive")
	}

	return Spec{ID: id, Start: int64(start), Duration: int64(duration)}, nil
}
