package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	_ "image/png"

	"github.com/mocchh/hltv-monitor/internal/layout"
	"github.com/mocchh/hltv-monitor/internal/match"
)

const (
	// maxStars is the importance ceiling; cards at this rating get the
	// gradient outline.
	maxStars = 5

	logoSize     = 26
	rowHeight    = 38
	cardInset    = 16
	cornerRadius = 10
)

// Error is a rendering failure writing the report image.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("rendering %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Renderer paints layout plans into the report image slot. Each call draws
// into a per-run temporary file and moves it into place only on success,
// so concurrent report generations never collide mid-write.
type Renderer struct {
	theme      Theme
	outputPath string

	titleFace font.Face
	dateFace  font.Face
	textFace  font.Face
}

// New creates a Renderer writing to outputPath. The output directory is
// created if missing; the per-run temporary file lives alongside the output
// so the final move stays on one filesystem.
func New(theme Theme, outputPath string) (*Renderer, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	titleFace, err := newFace(gobold.TTF, 32)
	if err != nil {
		return nil, err
	}
	dateFace, err := newFace(goregular.TTF, 24)
	if err != nil {
		return nil, err
	}
	textFace, err := newFace(goregular.TTF, 20)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		theme:      theme,
		outputPath: outputPath,
		titleFace:  titleFace,
		dateFace:   dateFace,
		textFace:   textFace,
	}, nil
}

func newFace(ttf []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("building font face: %w", err)
	}
	return face, nil
}

// Render paints records onto a canvas pre-sized by the plan and returns
// the final image path. The canvas dimensions come entirely from the plan;
// nothing is drawn outside its reserved bands.
func (r *Renderer) Render(records []match.Record, plan layout.Plan) (string, error) {
	t := r.theme
	dc := gg.NewContext(plan.Width, plan.Height)

	dc.SetColor(t.Background)
	dc.Clear()

	pad := float64(plan.Config.Padding)

	dc.SetFontFace(r.titleFace)
	dc.SetColor(t.TitleColor)
	dc.DrawString(t.Title, pad, float64(plan.TitleY)+32)

	if plan.Empty {
		dc.SetFontFace(r.dateFace)
		dc.SetColor(t.DateColor)
		dc.DrawString(t.Placeholder, pad, float64(plan.PlaceholderY)+32)
		return r.save(dc)
	}

	for _, h := range plan.Headers {
		r.drawSeparator(dc, pad, float64(plan.Width)-pad, float64(h.LineY))

		label := fmt.Sprintf("%s - %s", t.weekday(h.Date), h.Date.Format("2006-01-02"))
		dc.SetFontFace(r.dateFace)
		dc.SetColor(t.DateColor)
		dc.DrawString(label, pad, float64(h.TextY)+24)
	}

	for _, c := range plan.Cards {
		r.drawCard(dc, records[c.Index], plan.Config, c)
	}

	return r.save(dc)
}

// drawSeparator strokes a one-pixel line whose edges fade to transparent.
func (r *Renderer) drawSeparator(dc *gg.Context, x0, x1, y float64) {
	line := r.theme.LineColor
	edge := fade(line)

	grad := gg.NewLinearGradient(x0, y, x1, y)
	grad.AddColorStop(0, edge)
	grad.AddColorStop(0.15, line)
	grad.AddColorStop(0.85, line)
	grad.AddColorStop(1, edge)

	dc.SetStrokeStyle(grad)
	dc.SetLineWidth(1)
	dc.DrawLine(x0, y, x1, y)
	dc.Stroke()
}

// fade returns c with its alpha zeroed, keeping the hue so the gradient
// interpolates cleanly.
func fade(c color.Color) color.Color {
	nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
	nrgba.A = 0
	return nrgba
}

func (r *Renderer) drawCard(dc *gg.Context, rec match.Record, cfg layout.Config, c layout.Card) {
	t := r.theme
	x := float64(cfg.Padding)
	y := float64(c.Y)
	w := float64(cfg.Width - 2*cfg.Padding)
	h := float64(cfg.CardHeight)

	dc.DrawRoundedRectangle(x, y, w, h, cornerRadius)
	dc.SetColor(t.CardFill)
	if rec.Stars == maxStars {
		dc.FillPreserve()
		grad := gg.NewLinearGradient(x, y, x, y+h)
		grad.AddColorStop(0, t.BorderTop)
		grad.AddColorStop(1, t.BorderBottom)
		dc.SetStrokeStyle(grad)
		dc.SetLineWidth(2)
		dc.Stroke()
	} else {
		dc.Fill()
	}

	left := x + cardInset
	right := x + w - cardInset

	// Three fixed rows inside the band; overflow is clipped by design.
	row1 := y + 26
	row2 := row1 + rowHeight
	row3 := row2 + rowHeight

	dc.SetFontFace(r.textFace)
	dc.SetColor(t.TextColor)
	dc.DrawString(rec.Event, left, row1)
	r.drawStars(dc, rec.Stars, right, row1-7)

	r.drawTeams(dc, rec, left, row2)

	dc.SetFontFace(r.textFace)
	dc.SetColor(t.TextColor)
	dc.DrawString(rec.StartTime.Format("15:04"), left, row3)
	dc.SetColor(t.DateColor)
	dc.DrawStringAnchored(fmt.Sprintf("BO%d", rec.BestOf), right, row3, 1, 0)
}

// drawStars paints count star glyphs right-aligned at (right, cy).
func (r *Renderer) drawStars(dc *gg.Context, count int, right, cy float64) {
	const radius = 8.0
	const pitch = 2.2 * radius

	dc.SetColor(r.theme.StarColor)
	for i := 0; i < count; i++ {
		cx := right - radius - float64(count-1-i)*pitch
		starPath(dc, cx, cy, radius)
		dc.Fill()
	}
}

// starPath traces a five-spiked star centered at (cx, cy).
func starPath(dc *gg.Context, cx, cy, outer float64) {
	inner := outer * 0.45
	for i := 0; i < 10; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		x := cx + r*math.Cos(a)
		y := cy + r*math.Sin(a)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
}

// drawTeams writes "team1 vs team2" with an optional logo before each name.
func (r *Renderer) drawTeams(dc *gg.Context, rec match.Record, x, baseline float64) {
	dc.SetFontFace(r.textFace)

	x = r.drawTeam(dc, rec.Team1, x, baseline)
	dc.SetColor(r.theme.DateColor)
	dc.DrawString(" vs ", x, baseline)
	w, _ := dc.MeasureString(" vs ")
	r.drawTeam(dc, rec.Team2, x+w, baseline)
}

// drawTeam draws one team name, preceded by its logo when the lookup hits,
// and returns the x position following the name.
func (r *Renderer) drawTeam(dc *gg.Context, name string, x, baseline float64) float64 {
	if path, ok := r.theme.logoPath(name); ok {
		if logo, err := loadLogo(path); err == nil {
			dc.DrawImage(logo, int(x), int(baseline)-logoSize+6)
			x += logoSize + 6
		}
	}

	dc.SetColor(r.theme.TextColor)
	dc.DrawString(name, x, baseline)
	w, _ := dc.MeasureString(name)
	return x + w
}

// loadLogo decodes and scales a logo image into the fixed card slot size.
func loadLogo(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, logoSize, logoSize))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst, nil
}

// save writes the canvas to a per-run temporary file and moves it into the
// output slot. The temporary file is removed on every failure path.
func (r *Renderer) save(dc *gg.Context) (string, error) {
	tmp := filepath.Join(filepath.Dir(r.outputPath), "report-"+uuid.NewString()+".png.tmp")

	if err := dc.SavePNG(tmp); err != nil {
		os.Remove(tmp)
		return "", &Error{Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, r.outputPath); err != nil {
		os.Remove(tmp)
		return "", &Error{Path: r.outputPath, Err: err}
	}
	return r.outputPath, nil
}
