package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Mattkaye3/sjstats/domain/mediation"
)

// Config controls report rendering
type Config struct {
	Digits int
}

// Renderer renders mediation results as plain text or markdown
type Renderer struct {
	config Config
}

// NewRenderer creates a renderer, non-positive digit counts fall back to 2
func NewRenderer(config Config) *Renderer {
	if config.Digits <= 0 {
		config.Digits = 2
	}
	return &Renderer{config: config}
}

// Text renders the effect table as an aligned plain-text report
func (r *Renderer) Text(result *mediation.Result) string {
	meta := result.Metadata
	var b strings.Builder

	b.WriteString("Causal Mediation Analysis\n\n")
	fmt.Fprintf(&b, "Treatment: %s\n", meta.Treatment)
	fmt.Fprintf(&b, " Mediator: %s\n", meta.Mediator)
	fmt.Fprintf(&b, " Response: %s\n\n", meta.Response)

	labelWidth := len("Effect")
	estimateWidth := len("Estimate")
	type line struct {
		label    string
		estimate string
		interval string
	}
	var lines []line
	for _, row := range result.Rows {
		if row.Label == mediation.LabelProportionMediated {
			continue
		}
		l := line{
			label:    row.Label,
			estimate: r.formatNumber(row.Estimate),
			interval: r.formatInterval(row.IntervalLow, row.IntervalHigh),
		}
		if len(l.label) > labelWidth {
			labelWidth = len(l.label)
		}
		if len(l.estimate) > estimateWidth {
			estimateWidth = len(l.estimate)
		}
		lines = append(lines, l)
	}

	fmt.Fprintf(&b, "%-*s  %*s  %s HDI\n", labelWidth, "Effect", estimateWidth, "Estimate", r.massLabel(meta.IntervalMass))
	for _, l := range lines {
		fmt.Fprintf(&b, "%-*s  %*s  %s\n", labelWidth, l.label, estimateWidth, l.estimate, l.interval)
	}

	if row, ok := result.Row(mediation.LabelProportionMediated); ok {
		fmt.Fprintf(&b, "\nProportion mediated: %s %s\n",
			r.formatPercent(row.Estimate), r.formatPercentInterval(row.IntervalLow, row.IntervalHigh))
	}

	if len(meta.Formulas) > 0 {
		b.WriteString("\nFormulas:\n")
		for _, formula := range meta.Formulas {
			fmt.Fprintf(&b, "  %s\n", formula)
		}
	}

	fmt.Fprintf(&b, "\nEstimates are posterior %ss, intervals are %s highest-density intervals.\n",
		meta.Typical, r.massLabel(meta.IntervalMass))

	for _, d := range result.Diagnostics {
		fmt.Fprintf(&b, "Note: %s\n", d.Message)
	}

	return b.String()
}

// Markdown renders the effect table as a markdown document
func (r *Renderer) Markdown(result *mediation.Result) string {
	meta := result.Metadata
	var b strings.Builder

	b.WriteString("# Causal Mediation Analysis\n\n")
	fmt.Fprintf(&b, "- Treatment: `%s`\n", meta.Treatment)
	fmt.Fprintf(&b, "- Mediator: `%s`\n", meta.Mediator)
	fmt.Fprintf(&b, "- Response: `%s`\n\n", meta.Response)

	fmt.Fprintf(&b, "| Effect | Estimate | %s HDI |\n", r.massLabel(meta.IntervalMass))
	b.WriteString("|---|---:|---|\n")
	for _, row := range result.Rows {
		if row.Label == mediation.LabelProportionMediated {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n",
			row.Label, r.formatNumber(row.Estimate), r.formatInterval(row.IntervalLow, row.IntervalHigh))
	}

	if row, ok := result.Row(mediation.LabelProportionMediated); ok {
		fmt.Fprintf(&b, "\n**Proportion mediated:** %s %s\n",
			r.formatPercent(row.Estimate), r.formatPercentInterval(row.IntervalLow, row.IntervalHigh))
	}

	if len(meta.Formulas) > 0 {
		b.WriteString("\n## Formulas\n\n")
		for _, formula := range meta.Formulas {
			fmt.Fprintf(&b, "- `%s`\n", formula)
		}
	}

	fmt.Fprintf(&b, "\nEstimates are posterior %ss, intervals are %s highest-density intervals.\n",
		meta.Typical, r.massLabel(meta.IntervalMass))

	for _, d := range result.Diagnostics {
		fmt.Fprintf(&b, "\n> Note: %s\n", d.Message)
	}

	return b.String()
}

func (r *Renderer) formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', r.config.Digits, 64)
}

func (r *Renderer) formatInterval(low, high float64) string {
	return fmt.Sprintf("[%s, %s]", r.formatNumber(low), r.formatNumber(high))
}

func (r *Renderer) formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func (r *Renderer) formatPercentInterval(low, high float64) string {
	return fmt.Sprintf("[%s, %s]", r.formatPercent(low), r.formatPercent(high))
}

func (r *Renderer) massLabel(mass float64) string {
	return strconv.FormatFloat(mass*100, 'f', -1, 64) + "%"
}
