// Package render draws the distribution of homopolymer lengths observed at an indel locus.
package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrRender is wrapped by every error returned from a Renderer.
var ErrRender = errors.New("render failed")

// Renderer draws one distribution under name.
type Renderer interface {
	Render(name string, lengths []int) error
}

// PNG writes a histogram of lengths to Dir/name.png.
type PNG struct {
	Dir  string
	Size vg.Length // width and height, defaults to 10cm
}

func (p PNG) Render(name string, lengths []int) error {
	if len(lengths) == 0 {
		return errors.Wrapf(ErrRender, "%s: no lengths", name)
	}
	lo, hi := bounds(lengths)
	values := make(plotter.Values, len(lengths))
	for i := range lengths {
		values[i] = float64(lengths[i])
	}

	hist, err := plotter.NewHist(values, hi-lo+1)
	if err != nil {
		return errors.Wrapf(ErrRender, "%s: %v", name, err)
	}
	pl := plot.New()
	pl.Add(hist)
	pl.Title.Text = name
	pl.X.Label.Text = "Homopolymer Length"
	pl.Y.Label.Text = "Reads"

	if err = os.MkdirAll(p.Dir, 0755); err != nil {
		return errors.Wrapf(ErrRender, "%s: %v", name, err)
	}
	size := p.Size
	if size == 0 {
		size = 10 * vg.Centimeter
	}
	if err = pl.Save(size, size, filepath.Join(p.Dir, name+".png")); err != nil {
		return errors.Wrapf(ErrRender, "%s: %v", name, err)
	}
	return nil
}

// ASCII prints a terminal histogram of lengths to W.
type ASCII struct {
	W      io.Writer
	Height int // rows of the graph, defaults to 5
}

func (a ASCII) Render(name string, lengths []int) error {
	if len(lengths) == 0 {
		return errors.Wrapf(ErrRender, "%s: no lengths", name)
	}
	height := a.Height
	if height < 1 {
		height = 5
	}
	lo, hi := bounds(lengths)
	graph := asciigraph.Plot(Counts(lengths), asciigraph.Height(height), asciigraph.Precision(0),
		asciigraph.Caption(fmt.Sprintf("%s homopolymer length %d-%d", name, lo, hi)))
	if _, err := fmt.Fprintln(a.W, graph); err != nil {
		return errors.Wrapf(ErrRender, "%s: %v", name, err)
	}
	return nil
}

// Counts returns the number of occurrences of each length from 0 to the largest length.
func Counts(lengths []int) []float64 {
	_, hi := bounds(lengths)
	ans := make([]float64, hi+1)
	for _, l := range lengths {
		if l >= 0 {
			ans[l]++
		}
	}
	return ans
}

// Multi renders to every renderer in order. All renderers are run even if one fails.
type Multi []Renderer

func (m Multi) Render(name string, lengths []int) error {
	var firstErr error
	for i := range m {
		if err := m[i].Render(name, lengths); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func bounds(lengths []int) (lo, hi int) {
	lo, hi = lengths[0], lengths[0]
	for _, l := range lengths[1:] {
		lo = min(lo, l)
		hi = max(hi, l)
	}
	return max(lo, 0), max(hi, 0)
}
