package gauge

import (
	"bytes"
	"html/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medpredict/pkg/domain/model"
)

var svgTemplate = template.Must(template.New("gauge").Funcs(template.FuncMap{
	"num": num,
}).Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{num .Size}}" height="{{num .Half}}" viewBox="0 0 {{num .Size}} {{num .Half}}" style="overflow: visible" aria-label="Gauge {{.Percent.Int}} percent">
  <path d="{{.Path}}" fill="none" stroke="{{.Track}}" stroke-width="{{num .StrokeWidth}}" stroke-linecap="round"/>
  <path d="{{.Path}}" fill="none" stroke="{{.Color}}" stroke-width="{{num .StrokeWidth}}" stroke-linecap="round" stroke-dasharray="{{num .Total}}" stroke-dashoffset="{{num .DashOffset}}" style="transition: {{.Transition}}"/>
  <text x="50%" y="{{num .PercentY}}" text-anchor="middle" dominant-baseline="middle" font-size="{{num .PercentFont}}" font-weight="700" fill="{{.Color}}">{{.PercentLabel}}</text>
  <text x="50%" y="{{num .PriorityY}}" text-anchor="middle" dominant-baseline="middle" font-size="{{num .PriorityFont}}" font-weight="600" fill="{{.Color}}">{{.PriorityLabel}}</text>
</svg>`))

type svgView struct {
	*model.GaugeGeometry
	Half         float64
	Track        string
	Transition   template.CSS
	PercentY     float64
	PriorityY    float64
	PercentFont  float64
	PriorityFont float64
}

// SVG draws the geometry as a standalone SVG document
func SVG(g *model.GaugeGeometry) (string, error) {
	if g == nil {
		return "", goerr.New("gauge geometry is nil")
	}

	transition := template.CSS("none")
	if g.Animate {
		transition = template.CSS("stroke-dashoffset " + TransitionDuration + " ease")
	}

	view := svgView{
		GaugeGeometry: g,
		Half:          g.Size / 2,
		Track:         ColorTrack,
		Transition:    transition,
		PercentY:      g.Center * 0.75,
		PriorityY:     g.Center * 0.95,
		PercentFont:   g.Size / 9,
		PriorityFont:  g.Size / 14,
	}

	var buf bytes.Buffer
	if err := svgTemplate.Execute(&buf, view); err != nil {
		return "", goerr.Wrap(err, "failed to render gauge svg", goerr.V("percent", g.Percent))
	}
	return buf.String(), nil
}
