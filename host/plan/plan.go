// Package plan evaluates a board's timer plan on the host: the divider and
// compare values each channel will use, how far the achieved rates are from
// the requested ones and how closely the millisecond clock follows wall time.
package plan

import (
	"fmt"
	"io"
	"text/tabwriter"

	"avrtimers/config"
	"avrtimers/core"
)

// Row is the evaluation of one planned channel.
type Row struct {
	Timer     uint8
	Requested uint32 // Hz
	Clock     uint32 // Hz
	Config    core.Config
	Achieved  uint32 // Hz, as Begin reports it
	ErrorPPM  int64  // (achieved - requested) / requested
}

// OK reports whether Begin would succeed for the row.
func (r Row) OK() bool {
	return r.Config.OK()
}

// Evaluate runs the rate calculator for every channel of p.
func Evaluate(p *config.Plan) []Row {
	rows := make([]Row, 0, len(p.Channels))
	for _, ch := range p.Channels {
		cfg := ch.Calculate()
		row := Row{
			Timer:     ch.Timer,
			Requested: ch.Rate,
			Clock:     ch.Clock,
			Config:    cfg,
			Achieved:  cfg.Rate(ch.Clock),
		}
		if cfg.OK() && ch.Rate != 0 {
			row.ErrorPPM = (int64(row.Achieved) - int64(ch.Rate)) * 1000000 / int64(ch.Rate)
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteTable prints rows as an aligned table.
func WriteTable(w io.Writer, rows []Row) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMER\tCLOCK\tRATE\tCS\tDIVIDER\tCOMPARE\tACHIEVED\tERROR")
	for _, r := range rows {
		if !r.OK() {
			fmt.Fprintf(tw, "T%d\t%d\t%d\t-\t-\t-\tunachievable\t-\n", r.Timer, r.Clock, r.Requested)
			continue
		}
		fmt.Fprintf(tw, "T%d\t%d\t%d\t%d\t%d\t%d\t%d\t%+d ppm\n",
			r.Timer, r.Clock, r.Requested, r.Config.CS, r.Config.Divider,
			r.Config.Compare, r.Achieved, r.ErrorPPM)
	}
	return tw.Flush()
}
