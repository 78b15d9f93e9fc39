// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmmer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Hit is a single row of a HMMER --domtblout table.
//
// For hmmsearch the target is a sequence and the query is a profile.
// For hmmscan the target is a profile and the query is a sequence.
type Hit struct {
	TargetName string
	TargetAcc  string
	QueryName  string
	QueryAcc   string

	// Full sequence statistics.
	FullEValue float64
	FullScore  float64
	FullBias   float64

	// Domain statistics.
	DomIEValue float64
	DomScore   float64
	DomBias    float64

	HMMFrom, HMMTo int
	AliFrom, AliTo int
	EnvFrom, EnvTo int

	Acc  float64
	Desc string
}

const (
	targetNameField = iota
	targetAccField
	targetLenField
	queryNameField
	queryAccField
	queryLenField
	fullEValueField
	fullScoreField
	fullBiasField
	domNumberField
	domCountField
	domCEValueField
	domIEValueField
	domScoreField
	domBiasField
	hmmFromField
	hmmToField
	aliFromField
	aliToField
	envFromField
	envToField
	accField
	descField

	minFields = descField
)

// ReadDomains reads all the rows of a --domtblout table from r.
// Comment lines are skipped.
func ReadDomains(r io.Reader) ([]Hit, error) {
	var hits []Hit
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 1<<20)
	var line int
	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}
		h, err := newHit(text)
		if err != nil {
			return nil, fmt.Errorf("hmmer: line %d: %w", line, err)
		}
		hits = append(hits, *h)
	}
	return hits, sc.Err()
}

// ReadDomainsFile reads a --domtblout table from the named file.
func ReadDomainsFile(path string) ([]Hit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadDomains(f)
}

// newHit returns a Hit parsed from a --domtblout line.
func newHit(line string) (h *Hit, err error) {
	defer handlePanic(&err)
	fields := strings.Fields(line)
	if len(fields) < minFields {
		return nil, fmt.Errorf("too few fields: %d", len(fields))
	}
	return &Hit{
		TargetName: fields[targetNameField],
		TargetAcc:  fields[targetAccField],
		QueryName:  fields[queryNameField],
		QueryAcc:   fields[queryAccField],

		FullEValue: mustAtof(fields[fullEValueField]),
		FullScore:  mustAtof(fields[fullScoreField]),
		FullBias:   mustAtof(fields[fullBiasField]),

		DomIEValue: mustAtof(fields[domIEValueField]),
		DomScore:   mustAtof(fields[domScoreField]),
		DomBias:    mustAtof(fields[domBiasField]),

		HMMFrom: mustAtoi(fields[hmmFromField]),
		HMMTo:   mustAtoi(fields[hmmToField]),
		AliFrom: mustAtoi(fields[aliFromField]),
		AliTo:   mustAtoi(fields[aliToField]),
		EnvFrom: mustAtoi(fields[envFromField]),
		EnvTo:   mustAtoi(fields[envToField]),

		Acc:  mustAtof(fields[accField]),
		Desc: strings.Join(fields[descField:], " "),
	}, nil
}

func handlePanic(err *error) {
	r := recover()
	if r != nil {
		switch r := r.(type) {
		case error:
			*err = r
		default:
			panic(r)
		}
	}
}

func mustAtoi(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		panic(err)
	}
	return i
}

func mustAtof(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		panic(err)
	}
	return f
}

// better returns whether a is a better domain hit than b.
func better(a, b *Hit) bool {
	return a.DomIEValue < b.DomIEValue || (a.DomIEValue == b.DomIEValue && a.DomScore > b.DomScore)
}

// BestPerTarget returns the best domain hit for each target.
// Hits are ranked by lowest independent E-value and then
// highest domain score.
func BestPerTarget(hits []Hit) map[string]Hit {
	best := make(map[string]Hit)
	for i := range hits {
		h := &hits[i]
		cur, ok := best[h.TargetName]
		if !ok || better(h, &cur) {
			best[h.TargetName] = *h
		}
	}
	return best
}

// BestPerQuery returns the best domain hit for each query among
// hits whose target accession matches acc ignoring version suffixes.
func BestPerQuery(hits []Hit, acc string) map[string]Hit {
	acc = StripVersion(strings.TrimSpace(acc))
	best := make(map[string]Hit)
	for i := range hits {
		h := &hits[i]
		if StripVersion(h.TargetAcc) != acc {
			continue
		}
		cur, ok := best[h.QueryName]
		if !ok || better(h, &cur) {
			best[h.QueryName] = *h
		}
	}
	return best
}

// StripVersion returns acc without its version suffix,
// so PF01083.23 becomes PF01083.
func StripVersion(acc string) string {
	if i := strings.Index(acc, "."); i >= 0 {
		return acc[:i]
	}
	return acc
}

// Targets returns the unique target names of hits with a full
// sequence E-value no greater than maxE, in order of first
// appearance.
func Targets(hits []Hit, maxE float64) []string {
	var names []string
	seen := make(map[string]bool)
	for _, h := range hits {
		if h.FullEValue > maxE || seen[h.TargetName] {
			continue
		}
		seen[h.TargetName] = true
		names = append(names, h.TargetName)
	}
	return names
}

// Queries returns the unique query names of hits against targets
// with the accession acc that have an independent domain E-value
// no greater than maxE, in order of first appearance.
func Queries(hits []Hit, acc string, maxE float64) []string {
	acc = StripVersion(strings.TrimSpace(acc))
	var names []string
	seen := make(map[string]bool)
	for _, h := range hits {
		if StripVersion(h.TargetAcc) != acc || h.DomIEValue > maxE || seen[h.QueryName] {
			continue
		}
		seen[h.QueryName] = true
		names = append(names, h.QueryName)
	}
	return names
}
