// Package render turns a finished simulation into an animated SVG.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fchimpan/gh-kusa-svg/internal/mapping"
	"github.com/fchimpan/gh-kusa-svg/internal/sim"
	"github.com/fchimpan/gh-kusa-svg/internal/unit"
)

const (
	ballFill  = "#ff0000"
	blockFill = mapping.ColorMid
	fadeTo    = "#c6e48b00"
)

// SVG renders res as a self-contained animated SVG document.
func SVG(res sim.Result, cfg sim.Config) []byte {
	var b bytes.Buffer

	duration := res.Duration()
	durStr := seconds(duration)
	ballSize := cfg.BlockSize.ToPixel(cfg.BallRadius * 2)

	fmt.Fprintf(&b, `<svg width="%s" height="%s" xmlns="http://www.w3.org/2000/svg">`+"\n",
		num(cfg.BlockSize.Pixels(cfg.Cols)), num(cfg.BlockSize.Pixels(cfg.Rows)))
	b.WriteString("<style>\n")

	b.WriteString(".ball {\n")
	fmt.Fprintf(&b, "    fill: %s;\n", ballFill)
	fmt.Fprintf(&b, "    width:%spx;\n", num(ballSize))
	fmt.Fprintf(&b, "    height:%spx;\n", num(ballSize))
	if len(res.History.Path) > 0 {
		fmt.Fprintf(&b, "    animation: move %ss linear forwards;\n", durStr)
	}
	b.WriteString("}\n")

	if len(res.History.Path) > 0 {
		b.WriteString("@keyframes move {\n")
		writeBallKeyframes(&b, res.History.Path, cfg.BlockSize, ballSize)
		b.WriteString("}\n")
	}
	b.WriteString("@keyframes disappear { 0% { opacity: 1; } 100% { opacity: 0; } }\n")

	for _, blk := range res.Blocks {
		writeBlockAnimation(&b, blk, res, duration, durStr)
	}
	b.WriteString("</style>\n")

	for _, blk := range res.Blocks {
		fmt.Fprintf(&b, `<rect id="%s" x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			blk.ID, num(blk.X), num(blk.Y), num(blk.Width), num(blk.Height), blockFill)
	}
	fmt.Fprintf(&b, `<rect class="ball" x="0" y="0" width="%s" height="%s" />`+"\n", num(ballSize), num(ballSize))
	b.WriteString("</svg>\n")

	return b.Bytes()
}

// WriteSVG renders res and writes it to w.
func WriteSVG(w io.Writer, res sim.Result, cfg sim.Config) error {
	if _, err := w.Write(SVG(res, cfg)); err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}
	return nil
}

func writeBallKeyframes(b *bytes.Buffer, path []sim.Point, scale unit.Scale, ballSize unit.Pixel) {
	last := len(path) - 1
	for i, p := range path {
		pct := 0.0
		if last > 0 {
			pct = float64(i) / float64(last) * 100
		}
		x := scale.ToPixel(p.X) - ballSize/2
		y := scale.ToPixel(p.Y) - ballSize/2
		fmt.Fprintf(b, "%.2f%% { transform: translate(%spx, %spx); }\n", pct, num(x), num(y))
	}
}

func writeBlockAnimation(b *bytes.Buffer, blk sim.BlockInfo, res sim.Result, duration float64, durStr string) {
	f := res.History.DeathFrame(blk.ID)
	if f < 0 || res.Frames == 0 {
		return
	}
	delay := seconds(float64(f) / float64(res.Frames) * duration)
	name := "fadeColor-" + blk.ID

	fmt.Fprintf(b, "@keyframes %s {\n", name)
	fmt.Fprintf(b, "  0%% { fill: %s; }\n", mapping.StartColor(blk.MaxHealth))
	fmt.Fprintf(b, "  50%% { fill: %s; }\n", mapping.ColorMid)
	fmt.Fprintf(b, "  100%% { fill: %s; }\n", fadeTo)
	b.WriteString("}\n")
	fmt.Fprintf(b, "#%s {\n", blk.ID)
	fmt.Fprintf(b, "  animation: disappear 0.1s linear %ss forwards, %s %ss linear forwards;\n", delay, name, durStr)
	b.WriteString("}\n")
}

func seconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 2, 64)
}

// num formats a pixel value with at most two decimals.
func num(p unit.Pixel) string {
	s := strconv.FormatFloat(float64(p), 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
