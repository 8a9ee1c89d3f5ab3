package datasource

import (
	internalplugin "github.com/neosb/zipline/internal/plugin"
	"github.com/neosb/zipline/pkg/zipline/v1/plugin"
)

func init() {
	internalplugin.RegisterDataSource("listsource", newListSource)
}

func newListSource(id string, params map[string]interface{}) (plugin.RecordSource, error) {
	raw, _ := params["records"].([]interface{})
	records, err := ListSourceFromRaw(raw)
	if err != nil {
		return nil, err
	}
	return NewListSource(records), nil
}
