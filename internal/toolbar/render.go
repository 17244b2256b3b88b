package toolbar

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"time"

	"github.com/debugtoolbar/debugtoolbar/internal/diag"
)

const fragmentTmpl = `<div class="smile-toolbar" id="{{.ID}}" data-area="{{.Area}}">
<table id="{{.TimersTable}}" class="smile-toolbar-timers">
<tr><th>Timer</th><th>Elapsed</th></tr>
{{- range .Timers}}
<tr><td>{{.Code}}</td><td>{{.Elapsed}}</td></tr>
{{- end}}
</table>
<table id="{{.ValuesTable}}" class="smile-toolbar-values">
<tr><th>Key</th><th>Value</th></tr>
{{- range .Values}}
<tr><td>{{.Key}}</td><td>{{.Value}}</td></tr>
{{- end}}
</table>
</div>
`

var fragment = template.Must(template.New("toolbar").Parse(fragmentTmpl))

type timerRow struct {
	Code    string
	Elapsed time.Duration
}

type valueRow struct {
	Key   string
	Value string
}

type fragmentData struct {
	ID          string
	Area        string
	TimersTable string
	ValuesTable string
	Timers      []timerRow
	Values      []valueRow
}

// Render produces the HTML toolbar fragment for dc. The toolbar id must have
// been initialised.
func Render(dc *diag.Context) ([]byte, error) {
	id, err := dc.ToolbarID()
	if err != nil {
		return nil, err
	}

	data := fragmentData{
		ID:          id,
		Area:        dc.Area(),
		TimersTable: dc.NewTableID(),
		ValuesTable: dc.NewTableID(),
	}
	for _, code := range dc.Timers() {
		data.Timers = append(data.Timers, timerRow{Code: code, Elapsed: dc.Timer(code)})
	}

	values := dc.Values()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		data.Values = append(data.Values, valueRow{Key: k, Value: fmt.Sprint(values[k])})
	}

	var buf bytes.Buffer
	if err := fragment.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("toolbar: render %q: %w", id, err)
	}
	return buf.Bytes(), nil
}
