package summary

import (
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Plot saves a histogram of log10 contig length. The image format follows
// the file extension (png, pdf, svg, ...).
func Plot(records []Record, bins int, filename string) error {
	if len(records) == 0 {
		return errors.New("no contigs to plot")
	}
	values := make(plotter.Values, len(records))
	for i, r := range records {
		values[i] = logLen(r)
	}
	h, err := plotter.NewHist(values, bins)
	if err != nil {
		return errors.Wrap(err, "building histogram")
	}
	p := plot.New()
	p.Title.Text = "Contig length"
	p.X.Label.Text = "log10 length (bp)"
	p.Y.Label.Text = "Contigs"
	p.Add(h)
	if err = p.Save(15*vg.Centimeter, 10*vg.Centimeter, filename); err != nil {
		return errors.Wrapf(err, "saving %s", filename)
	}
	return nil
}
