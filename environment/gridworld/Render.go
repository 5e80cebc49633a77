package gridworld

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/Fortuz/rl-education/utils/floatutils"
)

// Rendering geometry, in pixels
const (
	cellSize float64 = 150
	halfCell float64 = cellSize / 2
)

// Positive and negative value shades. Alpha scales with the value
// magnitude, which is assumed to be bounded by 1; larger magnitudes
// saturate.
var (
	positiveShade = [3]int{12, 107, 55}
	negativeShade = [3]int{235, 68, 44}
)

// Render draws the action-value view of the gridworld: every free
// cell shows four triangles, one per direction, shaded by that
// direction's action value and labelled with it. Terminal cells are
// drawn as double rectangles shaded and labelled by their reward, and
// blocked cells are grey. The table is read only.
func (g *GridWorld) Render(q *QTable) image.Image {
	dc := g.newContext()

	for i := 0; i < g.rows; i++ {
		for j := 0; j < g.cols; j++ {
			x := float64(j) * cellSize
			y := float64(i) * cellSize

			switch g.At(i, j) {
			case Free:
				for a := 0; a < NumDirections; a++ {
					action := Direction(a)
					value := q.At(i, j, action)

					drawTriangle(dc, x, y, action, value)

					tx, ty := labelOffset(action)
					drawLabel(dc, x+tx, y+ty, fmt.Sprintf("%.2f", value))
				}

			case Terminal:
				g.drawTerminal(dc, i, j, x, y)

			case Blocked:
				drawBlocked(dc, x, y)
			}
		}
	}

	return dc.Image()
}

// RenderPolicy draws the greedy-policy view of the gridworld: every
// free cell is shaded by its maximum action value and labelled with
// it, and when showArrows is set every direction tied for the maximum
// is drawn as an arrow. Terminal and blocked cells render as in
// Render.
func (g *GridWorld) RenderPolicy(q *QTable, showArrows bool) image.Image {
	dc := g.newContext()

	for i := 0; i < g.rows; i++ {
		for j := 0; j < g.cols; j++ {
			x := float64(j) * cellSize
			y := float64(i) * cellSize

			switch g.At(i, j) {
			case Free:
				value := q.Max(i, j)

				dc.DrawRectangle(x, y, cellSize, cellSize)
				setShade(dc, value)
				dc.FillPreserve()
				dc.SetRGB(0, 0, 0)
				dc.Stroke()

				if showArrows {
					for _, action := range q.GreedyActions(i, j) {
						drawArrow(dc, x, y, action)
					}
				}

				drawLabel(dc, x+halfCell, y+halfCell,
					fmt.Sprintf("%.2f", value))

			case Terminal:
				g.drawTerminal(dc, i, j, x, y)

			case Blocked:
				drawBlocked(dc, x, y)
			}
		}
	}

	return dc.Image()
}

func (g *GridWorld) newContext() *gg.Context {
	width := g.cols*int(cellSize) + 1
	height := g.rows*int(cellSize) + 1

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)
	return dc
}

// drawTerminal draws a terminal cell as nested rectangles shaded by
// the stored reward
func (g *GridWorld) drawTerminal(dc *gg.Context, i, j int, x, y float64) {
	reward := g.Reward(i, j)
	inset := cellSize / 12

	dc.DrawRectangle(x, y, cellSize, cellSize)
	setShade(dc, reward)
	dc.FillPreserve()
	dc.SetRGB(0, 0, 0)
	dc.Stroke()

	dc.DrawRectangle(x+inset, y+inset, cellSize-2*inset, cellSize-2*inset)
	dc.Stroke()

	drawLabel(dc, x+halfCell, y+halfCell, fmt.Sprintf("%.2g", reward))
}

func drawBlocked(dc *gg.Context, x, y float64) {
	dc.DrawRectangle(x, y, cellSize, cellSize)
	dc.SetRGB255(211, 211, 211)
	dc.FillPreserve()
	dc.SetRGB(0, 0, 0)
	dc.Stroke()
}

// drawTriangle draws the action-value triangle of one direction,
// spanning the cell edge facing that direction and meeting at the
// cell centre
func drawTriangle(dc *gg.Context, x, y float64, a Direction, value float64) {
	var vertices [3][2]float64
	switch a {
	case Up:
		vertices = [3][2]float64{{0, 0}, {cellSize, 0}, {halfCell, halfCell}}
	case Right:
		vertices = [3][2]float64{{cellSize, 0}, {cellSize, cellSize},
			{halfCell, halfCell}}
	case Down:
		vertices = [3][2]float64{{0, cellSize}, {cellSize, cellSize},
			{halfCell, halfCell}}
	case Left:
		vertices = [3][2]float64{{0, 0}, {0, cellSize}, {halfCell, halfCell}}
	}

	dc.MoveTo(x+vertices[0][0], y+vertices[0][1])
	dc.LineTo(x+vertices[1][0], y+vertices[1][1])
	dc.LineTo(x+vertices[2][0], y+vertices[2][1])
	dc.ClosePath()

	setShade(dc, value)
	dc.FillPreserve()
	dc.SetRGB(0, 0, 0)
	dc.Stroke()
}

// drawArrow draws a small arrowhead pointing out of the cell in
// direction a
func drawArrow(dc *gg.Context, x, y float64, a Direction) {
	tip := cellSize / 12
	base := cellSize / 4
	spread := cellSize / 10

	var vertices [3][2]float64
	switch a {
	case Up:
		vertices = [3][2]float64{{halfCell, tip},
			{halfCell - spread, base}, {halfCell + spread, base}}
	case Right:
		vertices = [3][2]float64{{cellSize - tip, halfCell},
			{cellSize - base, halfCell - spread},
			{cellSize - base, halfCell + spread}}
	case Down:
		vertices = [3][2]float64{{halfCell, cellSize - tip},
			{halfCell - spread, cellSize - base},
			{halfCell + spread, cellSize - base}}
	case Left:
		vertices = [3][2]float64{{tip, halfCell},
			{base, halfCell - spread}, {base, halfCell + spread}}
	}

	dc.MoveTo(x+vertices[0][0], y+vertices[0][1])
	dc.LineTo(x+vertices[1][0], y+vertices[1][1])
	dc.LineTo(x+vertices[2][0], y+vertices[2][1])
	dc.ClosePath()

	dc.SetRGB(1, 1, 1)
	dc.FillPreserve()
	dc.SetRGB(0, 0, 0)
	dc.Stroke()
}

// labelOffset positions an action-value label between the cell centre
// and the edge its direction faces
func labelOffset(a Direction) (float64, float64) {
	switch a {
	case Up:
		return halfCell, cellSize / 5
	case Right:
		return 4 * cellSize / 5, halfCell
	case Down:
		return halfCell, 4 * cellSize / 5
	case Left:
		return cellSize / 5, halfCell
	}
	panic(fmt.Sprintf("labelOffset: no such direction %d", a))
}

func drawLabel(dc *gg.Context, x, y float64, text string) {
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(text, x, y, 0.5, 0.5)
}

// setShade sets the fill colour for a value: green for positive, red
// for negative, with alpha proportional to the magnitude
func setShade(dc *gg.Context, value float64) {
	alpha := int(255 * floatutils.Clip(value, -1, 1))

	if value >= 0 {
		dc.SetRGBA255(positiveShade[0], positiveShade[1], positiveShade[2],
			alpha)
	} else {
		dc.SetRGBA255(negativeShade[0], negativeShade[1], negativeShade[2],
			-alpha)
	}
}
