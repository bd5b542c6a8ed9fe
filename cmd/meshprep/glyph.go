package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/Faultbox/meshprep/internal/glyph"
	"github.com/Faultbox/meshprep/internal/logger"
)

func cmdGlyph(args []string) error {
	fs := flag.NewFlagSet("glyph", flag.ExitOnError)
	output := fs.String("o", "banner.png", "Output image (.png or .webp)")
	fontPath := fs.String("font", "", "TrueType/OpenType font (default: Go Regular)")
	size := fs.Float64("size", 15, "Font size in pixels")
	fg := fs.String("fg", "ff3333", "Text color as RRGGBB or RRGGBBAA")
	bg := fs.String("bg", "0000ff", "Background color as RRGGBB or RRGGBBAA")
	padding := fs.Int("padding", 0, "Padding in pixels")
	debug := fs.Bool("debug", false, "Enable debug logging")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: meshprep glyph [options] <text>")
	}

	level := "info"
	if *debug {
		level = "debug"
	}
	if err := logger.Init(level, ""); err != nil {
		return err
	}

	format, err := glyph.FormatFromPath(*output)
	if err != nil {
		return err
	}
	fgColor, err := parseHexColor(*fg)
	if err != nil {
		return fmt.Errorf("-fg: %w", err)
	}
	bgColor, err := parseHexColor(*bg)
	if err != nil {
		return fmt.Errorf("-bg: %w", err)
	}

	fontData := goregular.TTF
	if *fontPath != "" {
		if fontData, err = os.ReadFile(*fontPath); err != nil {
			return err
		}
	}

	r, err := glyph.NewRasterizer(fontData, *size)
	if err != nil {
		return err
	}
	defer r.Close()

	text := strings.Join(fs.Args(), " ")
	img := r.Banner(text, fgColor, bgColor, *padding)

	f, err := os.Create(*output)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := glyph.Encode(f, img, format); err != nil {
		return err
	}
	logger.Info("wrote banner",
		zap.String("path", *output),
		zap.Stringer("format", format),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
	return f.Close()
}

// parseHexColor parses RRGGBB or RRGGBBAA, with or without a leading '#'.
func parseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	if len(s) == 6 {
		s += "ff"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
