package plan

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"text/template"
)

var constTemplate = template.Must(template.New("consts").Parse(`// Code generated by timercalc; DO NOT EDIT.

package {{.Package}}

import "avrtimers/core"

// Timer configurations of plan {{printf "%q" .Name}}. Begin must return a
// channel whose Config() equals these.
var (
{{- range .Rows}}
	// T{{.Timer}}: {{.Requested}} Hz requested from {{.Clock}} Hz, {{.Achieved}} Hz achieved
	Timer{{.Timer}}Config = core.Config{CS: {{.Config.CS}}, Divider: {{.Config.Divider}}, Compare: {{.Config.Compare}}, Width: {{.Config.Width}}}
{{- end}}
)

const (
{{- range .Rows}}
	Timer{{.Timer}}Rate = {{.Achieved}}
{{- end}}
)
`))

// Generate writes a Go source file declaring the configuration of every row
// as constants. It fails if any row is unachievable so a bad plan never
// reaches the firmware.
func Generate(w io.Writer, pkg, name string, rows []Row) error {
	for _, r := range rows {
		if !r.OK() {
			return fmt.Errorf("timer %d: rate %d Hz unachievable from %d Hz", r.Timer, r.Requested, r.Clock)
		}
	}

	var buf bytes.Buffer
	err := constTemplate.Execute(&buf, struct {
		Package string
		Name    string
		Rows    []Row
	}{pkg, name, rows})
	if err != nil {
		return err
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("generated source does not parse: %w", err)
	}
	_, err = w.Write(src)
	return err
}
