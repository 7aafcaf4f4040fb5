//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"stable-fluids/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws the velocity field as arrows on top of the density view.
// V toggles it.
type Overlay struct {
	sim   core.Sim
	scale int
	show  bool

	pixel   *ebiten.Image
	samples []sample
	cacheW  int
	cacheH  int
	span    float64
}

type sample struct {
	x, y   int
	sx, sy float64
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: max(scale, 1)}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Visible reports whether the arrows are drawn.
func (o *Overlay) Visible() bool { return o.show }

// Update handles the toggle key.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		o.show = !o.show
	}
}

// Draw renders the arrows onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.show {
		return
	}
	flow, ok := o.sim.(core.FlowField)
	if !ok || !o.ensureSamples(o.sim.Size()) {
		return
	}

	const (
		calmFraction = 0.02
		headAngle    = math.Pi / 6
		minThickness = 0.65
		maxThickness = 1.05
	)

	vel := make([][2]float64, len(o.samples))
	peak := 0.0
	for i, s := range o.samples {
		vx, vy := flow.Velocity(s.x, s.y)
		// Screen y grows downwards.
		vel[i] = [2]float64{float64(vx), -float64(vy)}
		peak = math.Max(peak, math.Hypot(vel[i][0], vel[i][1]))
	}
	if peak == 0 {
		return
	}

	scale := float64(o.scale)
	minLength := o.span * 0.35
	maxLength := o.span * 0.7
	dot := math.Max(o.span*0.18, scale*0.75)
	for i, s := range o.samples {
		speed := math.Hypot(vel[i][0], vel[i][1])
		normalized := speed / peak
		if normalized < calmFraction {
			o.drawPoint(screen, s.sx, s.sy, dot, color.RGBA{R: 90, G: 130, B: 170, A: 120})
			continue
		}
		nx, ny := vel[i][0]/speed, vel[i][1]/speed
		length := minLength + (maxLength-minLength)*math.Sqrt(normalized)
		head := math.Min(length*0.3, scale*4.5)
		tail := length * 0.4
		tipX, tipY := s.sx+nx*(length-tail), s.sy+ny*(length-tail)
		tailX, tailY := s.sx-nx*tail, s.sy-ny*tail
		thickness := math.Max(scale*(minThickness+(maxThickness-minThickness)*normalized), 1)

		col := arrowColor(normalized)
		o.drawLine(screen, tailX, tailY, tipX-nx*head, tipY-ny*head, thickness, col)
		angle := math.Atan2(ny, nx)
		for _, side := range []float64{headAngle, -headAngle} {
			o.drawLine(screen, tipX, tipY,
				tipX-math.Cos(angle+side)*head, tipY-math.Sin(angle+side)*head,
				thickness*0.85, col)
		}
	}
}

// ensureSamples lays out roughly 360 arrow anchors over the grid, centred.
func (o *Overlay) ensureSamples(size core.Size) bool {
	if size.W <= 0 || size.H <= 0 {
		return false
	}
	if o.cacheW == size.W && o.cacheH == size.H && len(o.samples) > 0 {
		return true
	}
	const (
		targetSamples = 360.0
		minSpacing    = 4
		maxSpacing    = 20
	)
	spacing := int(math.Sqrt(float64(size.W*size.H) / targetSamples))
	spacing = min(max(spacing, minSpacing), maxSpacing)

	countX := (size.W + spacing - 1) / spacing
	countY := (size.H + spacing - 1) / spacing
	startX := max((size.W-1-(countX-1)*spacing)/2, 0)
	startY := max((size.H-1-(countY-1)*spacing)/2, 0)

	o.samples = o.samples[:0]
	for yi := 0; yi < countY; yi++ {
		y := min(startY+yi*spacing, size.H-1)
		for xi := 0; xi < countX; xi++ {
			x := min(startX+xi*spacing, size.W-1)
			o.samples = append(o.samples, sample{
				x: x, y: y,
				sx: (float64(x) + 0.5) * float64(o.scale),
				sy: (float64(y) + 0.5) * float64(o.scale),
			})
		}
	}
	o.cacheW, o.cacheH = size.W, size.H
	o.span = float64(spacing * o.scale)
	return len(o.samples) > 0
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 || thickness <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
