package datasource

import (
	"context"
	"fmt"

	ziplineerrors "github.com/neosb/zipline/pkg/zipline/v1/errors"
)

// Record is one timestamped record a ListSource replays.
type Record struct {
	Dt      int64
	Payload map[string]interface{}
}

// ListSource replays a fixed, pre-loaded list of records in order. It is
// the built-in data source type "listsource", mainly useful for tests and
// for topologies backed by data already materialized in memory (e.g.
// decoded from a config file or another in-process producer).
type ListSource struct {
	records []Record
	cursor  int
}

// NewListSource returns a RecordSource that replays records in the given
// order. The caller is responsible for ensuring records are already sorted
// by Dt if chronological replay matters; ListSource does not sort.
func NewListSource(records []Record) *ListSource {
	return &ListSource{records: records}
}

// Next implements plugin.RecordSource.
func (s *ListSource) Next(ctx context.Context) (int64, map[string]interface{}, bool, error) {
	select {
	case <-ctx.Done():
		return 0, nil, false, ctx.Err()
	default:
	}
	if s.cursor >= len(s.records) {
		return 0, nil, false, nil
	}
	record := s.records[s.cursor]
	s.cursor++
	return record.Dt, record.Payload, true, nil
}

// ListSourceFromRaw builds the []Record slice a ListSource needs from
// topology-declared parameters, where each entry is a map with a "dt"
// integer field and the remaining keys forming the event payload.
func ListSourceFromRaw(raw []interface{}) ([]Record, error) {
	records := make([]Record, 0, len(raw))
	for i, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			return nil, ziplineerrors.NewValidationError(fmt.Sprintf("listsource record %d is not an object", i), nil)
		}
		dtRaw, ok := entry["dt"]
		if !ok {
			return nil, ziplineerrors.NewValidationError(fmt.Sprintf("listsource record %d missing required field %q", i, "dt"), nil)
		}
		dt, ok := toInt64(dtRaw)
		if !ok {
			return nil, ziplineerrors.NewValidationError(fmt.Sprintf("listsource record %d field %q is not an integer", i, "dt"), nil)
		}
		payload := make(map[string]interface{}, len(entry)-1)
		for k, v := range entry {
			if k == "dt" {
				continue
			}
			payload[k] = v
		}
		records = append(records, Record{Dt: dt, Payload: payload})
	}
	return records, nil
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
