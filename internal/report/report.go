// Package report renders the plain-text analysis report and its HTML preview.
package report

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"

	"mincerdash/domain/artifacts"
	"mincerdash/domain/core"
	domainstats "mincerdash/domain/stats"
	"mincerdash/domain/wage"
)

//go:embed templates/report.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(
	template.New("report.tmpl").Funcs(funcMap).ParseFS(templateFS, "templates/report.tmpl"),
)

var funcMap = template.FuncMap{
	"join":  strings.Join,
	"pct":   func(v float64) string { return fmt.Sprintf("%.2f%%", v*100) },
	"num":   formatNumber,
	"sci":   formatScientific,
	"yesno": yesNo,
}

// ReportInput is everything the report needs from one pipeline run.
type ReportInput struct {
	GeneratedAt time.Time
	ExportID    core.ExportID
	Criteria    wage.FilterCriteria
	View        *wage.FilteredView
	Result      *domainstats.RegressionResult
	Summary     domainstats.Summary
}

type reportData struct {
	ReportInput
	Findings       domainstats.KeyFindings
	Interpretation []string
}

// ComposeReport renders the text report. It requires a fitted regression;
// template or encoding failures come back as *artifacts.ExportEncodingError.
func ComposeReport(in ReportInput) (string, error) {
	if in.Result == nil || in.View == nil {
		return "", fmt.Errorf("%w: report requires a fitted regression", core.ErrInsufficientData)
	}

	data := reportData{
		ReportInput:    in,
		Findings:       in.Result.Findings(),
		Interpretation: Interpret(in.Result),
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", artifacts.EncodingFailed(core.ArtifactReport, err)
	}
	if !utf8.Valid(buf.Bytes()) {
		return "", artifacts.EncodingFailed(core.ArtifactReport, errors.New("report is not valid UTF-8"))
	}
	return buf.String(), nil
}

// Interpret turns the sign and significance of the key coefficients into
// plain-language statements.
func Interpret(r *domainstats.RegressionResult) []string {
	var out []string

	if edu, ok := r.Coefficient(domainstats.TermEducation); ok {
		switch {
		case edu.Significant() && edu.Estimate > 0:
			out = append(out, "The education coefficient is positive and significant: more schooling raises wages, in line with human capital theory.")
		case edu.Significant():
			out = append(out, "The education coefficient is negative and significant: in this sample more schooling goes with lower wages.")
		default:
			out = append(out, "The education coefficient is not statistically significant in this sample.")
		}
	}

	if g, ok := r.Coefficient(domainstats.TermGender); ok {
		switch {
		case g.Significant() && g.Estimate > 0:
			out = append(out, "The gender coefficient is positive and significant: at equal education and experience, men still earn a wage premium.")
		case g.Significant():
			out = append(out, "The gender coefficient is negative and significant: at equal education and experience, women earn more.")
		default:
			out = append(out, "The gender coefficient is not statistically significant: no wage gap remains once education and experience are controlled for.")
		}
	}

	if sq, ok := r.Coefficient(domainstats.TermExperienceSq); ok {
		if sq.Estimate < 0 {
			out = append(out, "The squared experience term is negative: wages rise with experience at a decreasing rate, the usual life-cycle profile.")
		} else {
			out = append(out, "The squared experience term is not negative: the experience profile shows no concavity in this sample.")
		}
	}
	return out
}

func formatNumber(v float64, decimals int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.*f", decimals, v)
}

func formatScientific(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.2e", v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
