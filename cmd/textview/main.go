// Command textview lays out text and writes it to a PNG file.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/textlayout"
	"github.com/gogpu/textlayout/font"
	"github.com/gogpu/textlayout/fontdesc"
	"github.com/gogpu/textlayout/render"
	"github.com/gogpu/textlayout/text"
)

func main() {
	var (
		input     = flag.String("text", "Hello, world!", "text to lay out")
		desc      = flag.String("font", "Go 16", "font description")
		fontFile  = flag.String("fontfile", "", "extra font file to register")
		width     = flag.Int("width", -1, "wrap width in pixels, -1 to disable")
		wrap      = flag.String("wrap", "word", "wrap mode: word, char or wordchar")
		ellipsize = flag.String("ellipsize", "none", "ellipsize mode: none, start, middle or end")
		align     = flag.String("align", "left", "alignment: left, center or right")
		justify   = flag.Bool("justify", false, "justify lines")
		dir       = flag.String("dir", "auto", "base direction: auto, ltr or rtl")
		system    = flag.Bool("system", false, "fall back to system fonts")
		margin    = flag.Int("margin", 10, "margin in pixels")
		output    = flag.String("output", "text.png", "output file")
		verbose   = flag.Bool("verbose", false, "log debug output")
	)
	flag.Parse()

	if *verbose {
		textlayout.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	var opts []font.Option
	opts = append(opts, font.WithDefaultFamily("Go"))
	if *system {
		opts = append(opts, font.WithFallback(font.NewSystemFallback("")))
	}
	fm := font.NewFontMap(opts...)
	for _, data := range [][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gomono.TTF} {
		if _, err := fm.AddFontData(data); err != nil {
			log.Fatalf("Failed to load bundled font: %v", err)
		}
	}
	if *fontFile != "" {
		if _, err := fm.AddFontFile(*fontFile); err != nil {
			log.Fatalf("Failed to load %s: %v", *fontFile, err)
		}
	}

	var ctxOpts []text.ContextOption
	ctxOpts = append(ctxOpts, text.WithFontDescription(fontdesc.Parse(*desc)))
	switch strings.ToLower(*dir) {
	case "ltr":
		ctxOpts = append(ctxOpts, text.WithBaseDirection(text.DirectionLTR))
	case "rtl":
		ctxOpts = append(ctxOpts, text.WithBaseDirection(text.DirectionRTL))
	case "auto":
	default:
		log.Fatalf("Unknown direction %q", *dir)
	}
	ctx, err := text.NewContext(fm, ctxOpts...)
	if err != nil {
		log.Fatal(err)
	}

	layout := text.NewLayout(ctx)
	layout.SetText(*input)
	layout.SetAutoDir(strings.EqualFold(*dir, "auto"))
	if *width >= 0 {
		layout.SetWidth(int32(*width) * text.Scale)
	}
	layout.SetWrap(mustParse("wrap", *wrap, text.WrapWord, text.WrapChar, text.WrapWordChar))
	layout.SetEllipsize(mustParse("ellipsize", *ellipsize,
		text.EllipsizeNone, text.EllipsizeStart, text.EllipsizeMiddle, text.EllipsizeEnd))
	layout.SetAlignment(mustParse("align", *align, text.AlignLeft, text.AlignCenter, text.AlignRight))
	layout.SetJustify(*justify)

	m := max(*margin, 0)
	_, logical := layout.PixelExtents()
	w := max(logical.Max.X, *width, 1) + 2*m
	h := max(logical.Max.Y, 1) + 2*m
	r := render.NewRaster(w, h)
	r.Clear(color.White)
	render.Draw(r, layout, float64(m), float64(m), color.RGBA{A: 0xff})

	if err := savePNG(*output, r); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Text saved to %s (%dx%d, %d lines)\n", *output, w, h, layout.LineCount())
	if n := layout.UnknownGlyphsCount(); n > 0 {
		log.Printf("%d characters had no font", n)
	}
}

// mustParse returns the value among values whose name matches s.
func mustParse[T fmt.Stringer](flagName, s string, values ...T) T {
	for _, v := range values {
		if strings.EqualFold(v.String(), s) {
			return v
		}
	}
	log.Fatalf("Unknown -%s value %q", flagName, s)
	panic("unreachable")
}

func savePNG(path string, r *render.Raster) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, r.Image())
}
