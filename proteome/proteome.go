// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package proteome provides reading and writing of protein fasta records.
package proteome

import (
	"bufio"
	"errors"
	"io"
	"math"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// Width is the line width of written sequence.
const Width = 60

// ErrNoID is returned when a fasta header has no identifier.
var ErrNoID = errors.New("proteome: missing sequence identifier")

// Record is a single fasta record.
type Record struct {
	// ID is the first whitespace delimited
	// token of the header.
	ID string

	// Header is the complete header text
	// following the record marker.
	Header string

	Seq alphabet.Letters
}

// Len returns the number of residues in the record.
func (r *Record) Len() int { return len(r.Seq) }

// Reader is a single pass fasta record scanner.
type Reader struct {
	src io.Reader
	sc  *seqio.Scanner
	rec *Record
	err error
}

// NewReader returns a Reader that reads records from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{src: r}
}

// Next advances the Reader to the next record, returning false
// when no more records are available or an error has occurred.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}
	if r.sc == nil {
		br, err := skipOrphans(r.src)
		if err != nil {
			r.err = err
			return false
		}
		r.sc = seqio.NewScanner(fasta.NewReader(br, linear.NewSeq("", nil, alphabet.Protein)))
	}
	if !r.sc.Next() {
		r.err = r.sc.Error()
		r.rec = nil
		return false
	}
	s := r.sc.Seq().(*linear.Seq)
	if s.ID == "" {
		r.err = ErrNoID
		r.rec = nil
		return false
	}
	h := s.ID
	if s.Desc != "" {
		h += " " + s.Desc
	}
	r.rec = &Record{ID: s.ID, Header: h, Seq: s.Seq}
	return true
}

// Record returns the current record.
func (r *Reader) Record() *Record { return r.rec }

// Error returns the first non-EOF error encountered by the Reader.
func (r *Reader) Error() error { return r.err }

// skipOrphans returns a reader positioned at the first record
// marker in r. Sequence lines before any header are discarded.
func skipOrphans(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	for {
		b, err := br.Peek(1)
		if err == io.EOF {
			return br, nil
		}
		if err != nil {
			return nil, err
		}
		if b[0] == '>' {
			return br, nil
		}
		for {
			_, err = br.ReadSlice('\n')
			if err != bufio.ErrBufferFull {
				break
			}
		}
		if err == io.EOF {
			return br, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// ReadAll returns all the records in r.
func ReadAll(r io.Reader) ([]*Record, error) {
	var recs []*Record
	sc := NewReader(r)
	for sc.Next() {
		recs = append(recs, sc.Record())
	}
	return recs, sc.Error()
}

// ReadFile returns all the records in the named file.
func ReadFile(path string) ([]*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadAll(f)
}

// Lengths returns the sequence lengths of the records in the named
// file keyed by record ID. Later duplicate IDs replace earlier ones.
func Lengths(path string) (map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lengths := make(map[string]int)
	sc := NewReader(f)
	for sc.Next() {
		r := sc.Record()
		lengths[r.ID] = r.Len()
	}
	return lengths, sc.Error()
}

// Writer writes fasta records with wrapped sequence lines.
type Writer struct {
	buf *bufio.Writer
	w   *fasta.Writer
}

// NewWriter returns a Writer that writes to w wrapping
// sequence at Width residues per line.
func NewWriter(w io.Writer) *Writer {
	return NewWriterWidth(w, Width)
}

// NewWriterWidth returns a Writer that writes to w wrapping
// sequence at width residues. If width is not positive, sequence
// is written on a single line.
func NewWriterWidth(w io.Writer, width int) *Writer {
	if width <= 0 {
		width = math.MaxInt32
	}
	buf := bufio.NewWriter(w)
	return &Writer{buf: buf, w: fasta.NewWriter(buf, width)}
}

// Write writes a record with the given header and sequence.
func (w *Writer) Write(header string, s alphabet.Letters) error {
	id, desc := splitHeader(header)
	sq := linear.NewSeq(id, s, alphabet.Protein)
	sq.Desc = desc
	_, err := w.w.Write(sq)
	return err
}

// WriteRecord writes r.
func (w *Writer) WriteRecord(r *Record) error {
	return w.Write(r.Header, r.Seq)
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error { return w.buf.Flush() }

func splitHeader(h string) (id, desc string) {
	i := strings.IndexAny(h, " \t")
	if i < 0 {
		return h, ""
	}
	return h[:i], h[i+1:]
}
