package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/trendscope/pkg/analysis"
)

// ChartOptions controls static trend chart export.
type ChartOptions struct {
	Path    string // Output path; format inferred from extension when Format empty
	Format  string // "svg" or "png" (case-insensitive)
	Title   string
	Dataset analysis.TrendDataset
	Growth  map[string]float64 // optional, shown next to legend entries
	Width   int
	Height  int
}

const (
	defaultChartWidth  = 960
	defaultChartHeight = 540
	chartPadLeft       = 64.0
	chartPadRight      = 24.0
	chartPadTop        = 56.0
	chartPadBottom     = 96.0
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

var (
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorAxis     = color.RGBA{0x9c, 0xa3, 0xaf, 0xff}
	colorGrid     = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
)

// SaveTrendChart renders the dataset as a line chart: solid historical
// lines, dashed forecast lines, and a legend that lists historical series
// only.
func SaveTrendChart(opts ChartOptions) error {
	if opts.Dataset.IsEmpty() {
		return fmt.Errorf("no trend data to export")
	}
	format, path, err := resolveFormat(opts.Format, opts.Path)
	if err != nil {
		return err
	}
	opts.Path = path
	if opts.Width <= 0 {
		opts.Width = defaultChartWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultChartHeight
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := newChartLayout(opts)
	switch format {
	case "svg":
		f, err := os.Create(opts.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		return renderChartSVG(f, opts, layout)
	default:
		return renderChartPNG(opts, layout)
	}
}

func resolveFormat(format, path string) (string, string, error) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg"
			if path != "" && filepath.Ext(path) == "" {
				path += ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return "", "", fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if path == "" {
		return "", "", fmt.Errorf("output path is required")
	}
	return format, path, nil
}

// chartLayout maps dataset coordinates to pixels.
type chartLayout struct {
	width, height float64
	plotX, plotY  float64
	plotW, plotH  float64
	maxValue      float64
	step          float64
	legend        []analysis.TrendSeries
	yTicks        []float64
}

func newChartLayout(opts ChartOptions) chartLayout {
	l := chartLayout{
		width:  float64(opts.Width),
		height: float64(opts.Height),
		plotX:  chartPadLeft,
		plotY:  chartPadTop,
	}
	l.plotW = l.width - chartPadLeft - chartPadRight
	l.plotH = l.height - chartPadTop - chartPadBottom
	l.maxValue = niceCeil(opts.Dataset.MaxValue())
	if n := len(opts.Dataset.Labels); n > 1 {
		l.step = l.plotW / float64(n-1)
	}
	l.legend = opts.Dataset.LegendSeries()
	for i := 0; i <= 4; i++ {
		l.yTicks = append(l.yTicks, l.maxValue*float64(i)/4)
	}
	return l
}

func (l chartLayout) x(i int) float64 {
	if l.step == 0 {
		return l.plotX + l.plotW/2
	}
	return l.plotX + float64(i)*l.step
}

func (l chartLayout) y(v float64) float64 {
	if l.maxValue <= 0 {
		return l.plotY + l.plotH
	}
	return l.plotY + l.plotH - v/l.maxValue*l.plotH
}

// niceCeil rounds v up to 1, 2 or 5 times a power of ten.
func niceCeil(v float64) float64 {
	if v <= 0 {
		return 1
	}
	mag := 1.0
	for mag*10 <= v {
		mag *= 10
	}
	for _, m := range []float64{1, 2, 5, 10} {
		if m*mag >= v {
			return m * mag
		}
	}
	return 10 * mag
}

// runs splits a series into contiguous non-nil index ranges.
func runs(values []*float64) [][]int {
	var out [][]int
	var cur []int
	for i, v := range values {
		if v == nil {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, i)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func legendLabel(s analysis.TrendSeries, growth map[string]float64) string {
	if rate, ok := growth[s.Topic]; ok {
		return s.Name + " " + analysis.FormatGrowth(rate)
	}
	return s.Name
}

func parseHex(hex string) color.RGBA {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return colorText
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return colorText
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}
}

func renderChartPNG(opts ChartOptions, l chartLayout) error {
	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	if opts.Title != "" {
		dc.SetColor(colorText)
		dc.DrawStringAnchored(opts.Title, l.plotX, 28, 0, 0.5)
	}

	// grid and y labels
	dc.SetLineWidth(1)
	for _, tick := range l.yTicks {
		y := l.y(tick)
		dc.SetColor(colorGrid)
		dc.DrawLine(l.plotX, y, l.plotX+l.plotW, y)
		dc.Stroke()
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(fmt.Sprintf("%.0f", tick), l.plotX-8, y, 1, 0.5)
	}
	dc.SetColor(colorAxis)
	dc.DrawLine(l.plotX, l.plotY+l.plotH, l.plotX+l.plotW, l.plotY+l.plotH)
	dc.Stroke()

	labels := opts.Dataset.Labels
	every := labelStride(len(labels), l.plotW)
	for i, label := range labels {
		if i%every != 0 && i != len(labels)-1 {
			continue
		}
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(label, l.x(i), l.plotY+l.plotH+16, 0.5, 0.5)
	}

	for _, s := range opts.Dataset.Series {
		c := parseHex(s.Color)
		dc.SetColor(c)
		dc.SetLineWidth(2.5)
		if s.Dashed {
			dc.SetDash(6, 4)
		} else {
			dc.SetDash()
		}
		for _, run := range runs(s.Values) {
			if len(run) == 1 {
				i := run[0]
				dc.DrawCircle(l.x(i), l.y(*s.Values[i]), 3)
				dc.Fill()
				continue
			}
			dc.MoveTo(l.x(run[0]), l.y(*s.Values[run[0]]))
			for _, i := range run[1:] {
				dc.LineTo(l.x(i), l.y(*s.Values[i]))
			}
			dc.Stroke()
		}
	}
	dc.SetDash()

	lx := l.plotX
	ly := l.height - 40
	for _, s := range l.legend {
		dc.SetColor(parseHex(s.Color))
		dc.DrawRectangle(lx, ly-5, 12, 10)
		dc.Fill()
		dc.SetColor(colorText)
		text := legendLabel(s, opts.Growth)
		dc.DrawStringAnchored(text, lx+18, ly, 0, 0.5)
		lx += 18 + float64(len(text))*7 + 24
	}

	return dc.SavePNG(opts.Path)
}

func renderChartSVG(w io.Writer, opts ChartOptions, l chartLayout) error {
	canvas := svg.New(w)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))

	if opts.Title != "" {
		canvas.Text(int(l.plotX), 32, opts.Title,
			fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	}

	for _, tick := range l.yTicks {
		y := int(l.y(tick))
		canvas.Line(int(l.plotX), y, int(l.plotX+l.plotW), y, fmt.Sprintf("stroke:%s;stroke-width:1", css(colorGrid)))
		canvas.Text(int(l.plotX)-8, y+4, fmt.Sprintf("%.0f", tick),
			fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace;text-anchor:end", css(colorSubtle)))
	}
	base := int(l.plotY + l.plotH)
	canvas.Line(int(l.plotX), base, int(l.plotX+l.plotW), base, fmt.Sprintf("stroke:%s;stroke-width:1", css(colorAxis)))

	labels := opts.Dataset.Labels
	every := labelStride(len(labels), l.plotW)
	for i, label := range labels {
		if i%every != 0 && i != len(labels)-1 {
			continue
		}
		canvas.Text(int(l.x(i)), base+18, label,
			fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace;text-anchor:middle", css(colorSubtle)))
	}

	for _, s := range opts.Dataset.Series {
		style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:2.5", s.Color)
		if s.Dashed {
			style += ";stroke-dasharray:6,4"
		}
		canvas.Gid(seriesID(s))
		for _, run := range runs(s.Values) {
			if len(run) == 1 {
				i := run[0]
				canvas.Circle(int(l.x(i)), int(l.y(*s.Values[i])), 3, "fill:"+s.Color)
				continue
			}
			xs := make([]int, len(run))
			ys := make([]int, len(run))
			for j, i := range run {
				xs[j] = int(l.x(i))
				ys[j] = int(l.y(*s.Values[i]))
			}
			canvas.Polyline(xs, ys, style)
		}
		canvas.Gend()
	}

	lx := int(l.plotX)
	ly := opts.Height - 40
	for _, s := range l.legend {
		canvas.Rect(lx, ly-6, 12, 10, "fill:"+s.Color)
		text := legendLabel(s, opts.Growth)
		canvas.Text(lx+18, ly+3, text, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorText)))
		lx += 18 + len(text)*7 + 24
	}

	canvas.End()
	return nil
}

// labelStride thins month labels so they do not overlap.
func labelStride(n int, plotW float64) int {
	const labelW = 64.0
	if n <= 1 {
		return 1
	}
	fit := int(plotW / labelW)
	if fit < 1 {
		fit = 1
	}
	stride := (n + fit - 1) / fit
	if stride < 1 {
		stride = 1
	}
	return stride
}

func seriesID(s analysis.TrendSeries) string {
	id := strings.ToLower(s.Topic)
	id = nonSlugChars.ReplaceAllString(id, "-")
	return "series-" + strings.Trim(id, "-") + "-" + s.Kind.String()
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
