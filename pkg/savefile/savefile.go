// Package savefile encodes a character as a flat, newline-delimited record:
//
//	name
//	hitPoints
//	attackPower
//	defense
//	level
//	experience
//	itemCount
//	item 1
//	...
//	item N
//
// There is no header, version or checksum.
package savefile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrTruncated means the record ended before all fields were read.
	ErrTruncated = errors.New("save record is truncated")

	// ErrMalformed means a field could not be parsed.
	ErrMalformed = errors.New("save record is malformed")
)

// Record is the persisted state of one character.
type Record struct {
	Name       string
	HP         int
	Attack     int
	Defense    int
	Level      int
	Experience int
	Items      []string
}

// Encode writes rec in the fixed field order.
func Encode(w io.Writer, rec *Record) error {
	if strings.ContainsAny(rec.Name, "\r\n") {
		return fmt.Errorf("%w: name contains a line break", ErrMalformed)
	}
	for _, item := range rec.Items {
		if strings.ContainsAny(item, "\r\n") {
			return fmt.Errorf("%w: item %q contains a line break", ErrMalformed, item)
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, rec.Name)
	for _, n := range []int{rec.HP, rec.Attack, rec.Defense, rec.Level, rec.Experience, len(rec.Items)} {
		fmt.Fprintln(bw, n)
	}
	for _, item := range rec.Items {
		fmt.Fprintln(bw, item)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write save record: %w", err)
	}
	return nil
}

// Marshal returns the encoded form of rec.
func Marshal(rec *Record) ([]byte, error) {
	var sb strings.Builder
	if err := Encode(&sb, rec); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// Decode reads a record in the fixed field order. Lines after the last
// item are ignored.
func Decode(r io.Reader) (*Record, error) {
	sc := bufio.NewScanner(r)
	line := 0

	next := func(field string) (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", fmt.Errorf("failed to read save record: %w", err)
			}
			return "", fmt.Errorf("%w: missing %s (line %d)", ErrTruncated, field, line+1)
		}
		line++
		return strings.TrimRight(sc.Text(), "\r"), nil
	}

	nextInt := func(field string) (int, error) {
		s, err := next(field)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("%w: %s on line %d: %q", ErrMalformed, field, line, s)
		}
		return n, nil
	}

	var rec Record
	var err error
	if rec.Name, err = next("name"); err != nil {
		return nil, err
	}

	fields := []struct {
		name string
		dst  *int
	}{
		{"hitPoints", &rec.HP},
		{"attackPower", &rec.Attack},
		{"defense", &rec.Defense},
		{"level", &rec.Level},
		{"experience", &rec.Experience},
	}
	for _, f := range fields {
		if *f.dst, err = nextInt(f.name); err != nil {
			return nil, err
		}
	}

	count, err := nextInt("itemCount")
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative itemCount %d", ErrMalformed, count)
	}

	rec.Items = make([]string, 0, min(count, 64))
	for i := range count {
		item, err := next(fmt.Sprintf("item %d of %d", i+1, count))
		if err != nil {
			return nil, err
		}
		rec.Items = append(rec.Items, item)
	}
	return &rec, nil
}

// Unmarshal decodes a record from data.
func Unmarshal(data []byte) (*Record, error) {
	return Decode(strings.NewReader(string(data)))
}

// WriteFile saves rec to path, replacing any existing file. The record is
// encoded before the file is touched.
func WriteFile(path string, rec *Record) error {
	data, err := Marshal(rec)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write save file: %w", err)
	}
	return nil
}

// ReadFile loads a record from path.
func ReadFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open save file: %w", err)
	}
	defer func() {
		_ = f.Close() // Ignore error in defer
	}()
	return Decode(f)
}
