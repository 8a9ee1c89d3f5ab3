package model

// MergedRecord is the per-tick combination of a PASSTHROUGH event with every
// transform's result for that same event, produced by a Merge.
type MergedRecord struct {
	Passthrough Event                  `json:"passthrough"`
	Fields      map[string]interface{} `json:"fields"`
}

// NewMergedRecord seeds a MergedRecord from the PASSTHROUGH event that
// anchors it.
func NewMergedRecord(passthrough Event) *MergedRecord {
	return &MergedRecord{
		Passthrough: passthrough,
		Fields:      make(map[string]interface{}),
	}
}

// Merge folds a named transform result into the record, overwriting any
// prior value registered under the same name.
func (r *MergedRecord) Merge(result TransformResult) {
	if r.Fields == nil {
		r.Fields = make(map[string]interface{})
	}
	r.Fields[result.Name] = result.Value
}
