package report

import (
	"strings"
	"testing"

	"github.com/Mattkaye3/sjstats/domain/estimate"
	"github.com/Mattkaye3/sjstats/domain/mediation"
)

func fixtureResult() *mediation.Result {
	return &mediation.Result{
		Rows: []mediation.EffectRow{
			{Label: mediation.LabelDirect, Estimate: -0.04, IntervalLow: -0.11, IntervalHigh: 0.03},
			{Label: mediation.LabelIndirect, Estimate: -0.018, IntervalLow: -0.04, IntervalHigh: 0.0},
			{Label: mediation.LabelMediator, Estimate: -0.27, IntervalLow: -0.34, IntervalHigh: -0.21},
			{Label: mediation.LabelTotal, Estimate: -0.057, IntervalLow: -0.13, IntervalHigh: 0.01},
			{Label: mediation.LabelProportionMediated, Estimate: 0.314, IntervalLow: -0.796, IntervalHigh: 1.359},
		},
		Metadata: mediation.Metadata{
			Treatment:    "treat",
			Mediator:     "job_seek",
			Response:     "depress2",
			IntervalMass: 0.90,
			Typical:      estimate.TypicalMedian,
			Formulas: []string{
				"job_seek ~ treat + econ_hard + sex + age",
				"depress2 ~ treat + job_seek + econ_hard + sex + age",
			},
		},
		Diagnostics: []mediation.Diagnostic{
			mediation.NewUndefinedRatioWarning(3, 4000),
		},
	}
}

func TestTextReportLayout(t *testing.T) {
	text := NewRenderer(Config{Digits: 2}).Text(fixtureResult())

	for _, want := range []string{
		"Causal Mediation Analysis",
		"Treatment: treat",
		" Mediator: job_seek",
		" Response: depress2",
		"90% HDI",
		"direct",
		"[-0.11, 0.03]",
		"Proportion mediated: 31.4% [-79.6%, 135.9%]",
		"job_seek ~ treat + econ_hard + sex + age",
		"Estimates are posterior medians, intervals are 90% highest-density intervals.",
		"Note: 3 of 4000 draws have zero total effect",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("text report should contain %q, got:\n%s", want, text)
		}
	}
}

func TestTextReportHonorsDigits(t *testing.T) {
	text := NewRenderer(Config{Digits: 3}).Text(fixtureResult())
	if !strings.Contains(text, "-0.018") {
		t.Errorf("three-digit rendering should keep -0.018, got:\n%s", text)
	}

	fallback := NewRenderer(Config{}).Text(fixtureResult())
	if !strings.Contains(fallback, "-0.02") {
		t.Errorf("zero digits should fall back to two, got:\n%s", fallback)
	}
}

func TestMarkdownReportLayout(t *testing.T) {
	md := NewRenderer(Config{Digits: 2}).Markdown(fixtureResult())

	for _, want := range []string{
		"# Causal Mediation Analysis",
		"- Treatment: `treat`",
		"| Effect | Estimate | 90% HDI |",
		"| direct | -0.04 | [-0.11, 0.03] |",
		"**Proportion mediated:** 31.4% [-79.6%, 135.9%]",
		"## Formulas",
		"- `depress2 ~ treat + job_seek + econ_hard + sex + age`",
		"> Note: 3 of 4000 draws",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown report should contain %q, got:\n%s", want, md)
		}
	}

	if strings.Contains(md, "| proportion mediated |") {
		t.Error("the proportion row should render as a footer line, not a table row")
	}
}
