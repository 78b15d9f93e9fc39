// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proteome

import (
	"bufio"
	"io"
	"strings"
)

// ReadNames returns the names listed one per line in r. Blank
// lines and lines starting with '#' are ignored.
func ReadNames(r io.Reader) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names, sc.Err()
}

// ParseNames returns the comma or white space separated names in s.
func ParseNames(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

// Selection specifies how records are matched against a list of names.
type Selection struct {
	// Substring matches names anywhere in the
	// header rather than exactly against the ID.
	Substring bool

	// IgnoreCase folds case before matching.
	IgnoreCase bool

	// FastaOrder writes matches in the order they
	// are read rather than in the order of names.
	FastaOrder bool
}

// Select writes records read from r that match names to w. Duplicate
// names are considered once. It returns the number of records written
// and the names that were not matched.
func (s Selection) Select(w *Writer, r *Reader, names []string) (written int, missing []string, err error) {
	keys, orig := s.keys(names)
	if s.FastaOrder {
		return s.stream(w, r, keys, orig)
	}

	var recs []*Record
	byID := make(map[string]*Record)
	for r.Next() {
		rec := r.Record()
		recs = append(recs, rec)
		id := s.fold(rec.ID)
		if _, ok := byID[id]; !ok {
			byID[id] = rec
		}
	}
	if err := r.Error(); err != nil {
		return 0, nil, err
	}

	for i, k := range keys {
		var rec *Record
		if s.Substring {
			for _, cand := range recs {
				if strings.Contains(s.fold(cand.Header), k) {
					rec = cand
					break
				}
			}
		} else {
			rec = byID[k]
		}
		if rec == nil {
			missing = append(missing, orig[i])
			continue
		}
		err = w.WriteRecord(rec)
		if err != nil {
			return written, missing, err
		}
		written++
	}
	return written, missing, nil
}

func (s Selection) stream(w *Writer, r *Reader, keys, orig []string) (written int, missing []string, err error) {
	matched := make(map[string]bool)
	for r.Next() {
		rec := r.Record()
		var hit string
		if s.Substring {
			h := s.fold(rec.Header)
			for _, k := range keys {
				if strings.Contains(h, k) {
					hit = k
					break
				}
			}
		} else {
			id := s.fold(rec.ID)
			for _, k := range keys {
				if id == k {
					hit = k
					break
				}
			}
		}
		if hit == "" {
			continue
		}
		matched[hit] = true
		err = w.WriteRecord(rec)
		if err != nil {
			return written, nil, err
		}
		written++
	}
	if err := r.Error(); err != nil {
		return written, nil, err
	}
	for i, k := range keys {
		if !matched[k] {
			missing = append(missing, orig[i])
		}
	}
	return written, missing, nil
}

// keys returns the unique folded names and their original spelling.
func (s Selection) keys(names []string) (keys, orig []string) {
	seen := make(map[string]bool)
	for _, n := range names {
		k := s.fold(n)
		if seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
		orig = append(orig, n)
	}
	return keys, orig
}

func (s Selection) fold(t string) string {
	if s.IgnoreCase {
		return strings.ToLower(t)
	}
	return t
}

// Exclude writes records read from r that do not match names to w.
// It returns the number of records written and dropped.
func (s Selection) Exclude(w *Writer, r *Reader, names []string) (written, dropped int, err error) {
	keys, _ := s.keys(names)
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	for r.Next() {
		rec := r.Record()
		if s.matches(rec, keys, set) {
			dropped++
			continue
		}
		err = w.WriteRecord(rec)
		if err != nil {
			return written, dropped, err
		}
		written++
	}
	return written, dropped, r.Error()
}

func (s Selection) matches(rec *Record, keys []string, set map[string]bool) bool {
	if !s.Substring {
		return set[s.fold(rec.ID)]
	}
	h := s.fold(rec.Header)
	for _, k := range keys {
		if strings.Contains(h, k) {
			return true
		}
	}
	return false
}
