package gauge_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/medpredict/pkg/service/gauge"
)

func TestSVG(t *testing.T) {
	t.Run("draws track, arc and labels", func(t *testing.T) {
		svg, err := gauge.SVG(gauge.Render(73))
		gt.NoError(t, err).Required()

		gt.S(t, svg).Contains(`viewBox="0 0 260 130"`)
		gt.S(t, svg).Contains(`d="M 9 130 A 121 121 0 0 1 251 130"`)
		gt.S(t, svg).Contains(`stroke="` + gauge.ColorTrack + `"`)
		gt.S(t, svg).Contains(`stroke="` + gauge.ColorHigh + `"`)
		gt.S(t, svg).Contains("stroke-dashoffset 700ms ease")
		gt.S(t, svg).Contains(">73%</text>")
		gt.S(t, svg).Contains(">High Priority</text>")
		gt.S(t, svg).Contains(`aria-label="Gauge 73 percent"`)
	})

	t.Run("no transition when animation is disabled", func(t *testing.T) {
		svg, err := gauge.SVG(gauge.Render(10, gauge.WithAnimate(false)))
		gt.NoError(t, err).Required()
		gt.S(t, svg).Contains("transition: none")
		gt.S(t, svg).NotContains("700ms")
	})

	t.Run("nil geometry is an error", func(t *testing.T) {
		_, err := gauge.SVG(nil)
		gt.Error(t, err)
	})
}
