package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"graphfield/internal/app"
	"graphfield/internal/paint"
	"graphfield/internal/view"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type renderOptions struct {
	out      string
	ops      bool
	width    float64
	height   float64
	zoomIn   int
	activate []string
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Paint the field to a PNG, or dump its drawing calls as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := root.loadField()
			if err != nil {
				return err
			}
			if err := prepare(f, opts); err != nil {
				return err
			}
			if opts.ops {
				return writeOps(f, cmd.OutOrStdout())
			}
			return writePNG(f, opts.out, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", "field.png", "PNG output path, - for stdout")
	cmd.Flags().BoolVar(&opts.ops, "ops", false, "print the recorded drawing calls as YAML instead of rendering")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "surface width in pixels (config width when 0)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "surface height in pixels (config height when 0)")
	cmd.Flags().IntVar(&opts.zoomIn, "zoom-in", 0, "zoom in this many default steps before painting")
	cmd.Flags().StringSliceVar(&opts.activate, "activate", nil, "highlight a widget or widget.axis (repeatable)")
	return cmd
}

// prepare sizes the view and applies zoom and highlight options.
func prepare(f *app.Field, opts *renderOptions) error {
	fc := f.Config.Field
	w, h := opts.width, opts.height
	if w <= 0 {
		w = fc.Width
	}
	if h <= 0 {
		h = fc.Height
	}
	f.View.Resize(w, h)

	for i := 0; i < opts.zoomIn; i++ {
		if err := f.View.ZoomIn(view.DefaultZoomStep); err != nil {
			return err
		}
	}
	for _, name := range opts.activate {
		if err := f.Activate(name, true); err != nil {
			return err
		}
	}
	return nil
}

func writeOps(f *app.Field, w io.Writer) error {
	size := f.View.Size()
	rec := paint.NewRecorder(size.Width, size.Height)
	f.Paint(rec)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rec.Ops); err != nil {
		return fmt.Errorf("encode ops: %w", err)
	}
	return enc.Close()
}

func writePNG(f *app.Field, path string, stdout io.Writer) error {
	size := f.View.Size()
	r := paint.NewRaster(int(size.Width), int(size.Height))
	f.Paint(r)

	if path == "-" {
		return r.WritePNG(stdout)
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.WritePNG(out); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	slog.Info("rendered field", "path", path, "width", size.Width, "height", size.Height)
	return nil
}
