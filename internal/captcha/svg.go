package captcha

import (
	"encoding/base64"
	"fmt"
	"math/rand"
	"strings"
)

const (
	svgWidth  = 180
	svgHeight = 60
)

// renderDataURI renders the answer as an inline SVG data URI suitable
// for an <img> src attribute.
func renderDataURI(answer string) string {
	svg := renderSVG(answer)

	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}

// renderSVG draws the answer characters with per-character jitter plus
// a few noise strokes. Not adversarial-grade, same as the simple image
// captchas it replaces.
func renderSVG(answer string) string {
	var b strings.Builder

	fmt.Fprintf(&b,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		svgWidth, svgHeight, svgWidth, svgHeight)
	b.WriteString(`<rect width="100%" height="100%" fill="#f4f4f5"/>`)

	for range 4 {
		fmt.Fprintf(&b,
			`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#c4c4cc" stroke-width="1.5"/>`,
			rand.Intn(svgWidth), rand.Intn(svgHeight),
			rand.Intn(svgWidth), rand.Intn(svgHeight))
	}

	step := svgWidth / (len(answer) + 1)

	for i, ch := range answer {
		x := step * (i + 1)
		y := svgHeight/2 + 8 + rand.Intn(9) - 4
		rotate := rand.Intn(31) - 15

		fmt.Fprintf(&b,
			`<text x="%d" y="%d" font-family="monospace" font-size="28" fill="#27272a" transform="rotate(%d %d %d)">%c</text>`,
			x, y, rotate, x, y, ch)
	}

	b.WriteString(`</svg>`)

	return b.String()
}
