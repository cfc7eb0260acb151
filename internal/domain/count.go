package domain

import (
	"bytes"
	"slices"
	"strconv"

	"github.com/goccy/go-json"
)

// ValueCount is the number of rows sharing one column value.
type ValueCount struct {
	Value string
	Count int
}

// CountResult is an ordered column histogram.
// It marshals to a JSON object whose key order follows the slice order.
type CountResult []ValueCount

// CountValues tallies values in first-seen order.
func CountValues(values []string) CountResult {
	index := make(map[string]int, len(values))
	result := CountResult{}
	for _, v := range values {
		if i, ok := index[v]; ok {
			result[i].Count++
			continue
		}
		index[v] = len(result)
		result = append(result, ValueCount{Value: v, Count: 1})
	}
	return result
}

// SortedDesc returns a copy ordered by count, highest first.
// Equal counts keep their relative order.
func (c CountResult) SortedDesc() CountResult {
	out := slices.Clone(c)
	if out == nil {
		out = CountResult{}
	}
	slices.SortStableFunc(out, func(a, b ValueCount) int {
		return b.Count - a.Count
	})
	return out
}

// Map returns the counts keyed by value.
func (c CountResult) Map() map[string]int {
	m := make(map[string]int, len(c))
	for _, vc := range c {
		m[vc.Value] = vc.Count
	}
	return m
}

// MarshalJSON writes {"value": count, ...} preserving order.
func (c CountResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, vc := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(vc.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(vc.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
