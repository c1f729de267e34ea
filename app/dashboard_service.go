package app

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"math"
	"time"

	"mincerdash/adapters/excel"
	"mincerdash/adapters/stats/describe"
	"mincerdash/adapters/stats/ols"
	"mincerdash/domain/artifacts"
	"mincerdash/domain/core"
	domainstats "mincerdash/domain/stats"
	"mincerdash/domain/wage"
	"mincerdash/internal"
	"mincerdash/internal/charts"
	"mincerdash/internal/filter"
	"mincerdash/internal/generator"
	"mincerdash/internal/report"
	"mincerdash/ports"
)

// DashboardRequest is one set of widget values
type DashboardRequest struct {
	Criteria wage.FilterCriteria
	Robust   bool
	Seed     int64 // zero selects the configured seed
}

// DisplayRow is a filtered observation with display names, rounded to 2
type DisplayRow struct {
	Gender     string  `json:"gender"`
	Education  float64 `json:"education_years"`
	Experience float64 `json:"experience_years"`
	Wage       float64 `json:"hourly_wage"`
	LogWage    float64 `json:"log_wage"`
}

// Snapshot is everything the dashboard shows for one request. When the
// regression cannot be fitted, Result, Findings and Forest are nil and
// RegressionError carries the message; the rest is still populated.
type Snapshot struct {
	Criteria        wage.CriteriaResult           `json:"criteria"`
	Robust          bool                          `json:"robust"`
	Seed            int64                         `json:"seed"`
	Fingerprint     string                        `json:"fingerprint"`
	Overview        domainstats.Overview          `json:"overview"`
	Summary         domainstats.Summary           `json:"summary"`
	Result          *domainstats.RegressionResult `json:"regression,omitempty"`
	Findings        *domainstats.KeyFindings      `json:"findings,omitempty"`
	RegressionError string                        `json:"regression_error,omitempty"`
	Scatter         []charts.ScatterSeries        `json:"scatter"`
	Forest          *charts.Forest                `json:"forest,omitempty"`
	Table           []DisplayRow                  `json:"table"`

	View        *wage.FilteredView `json:"-"`
	ReportHTML  template.HTML      `json:"-"`
	GeneratedAt time.Time          `json:"generated_at"`
	err         error
}

// Err returns the regression failure, if any
func (s *Snapshot) Err() error { return s.err }

// DashboardService runs the filter, summarize, fit and export pipeline.
type DashboardService struct {
	cache      *generator.Cache
	estimator  *ols.Estimator
	ledger     ports.ExportLedger
	reportName string
	dataName   string
	now        func() time.Time
	logger     *internal.Logger
}

// Option customizes a DashboardService
type Option func(*DashboardService)

// WithLedger records every successful export
func WithLedger(l ports.ExportLedger) Option {
	return func(s *DashboardService) { s.ledger = l }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *DashboardService) { s.now = now }
}

// WithExportNames sets the base names of the report and workbook files
func WithExportNames(reportName, dataName string) Option {
	return func(s *DashboardService) {
		if reportName != "" {
			s.reportName = reportName
		}
		if dataName != "" {
			s.dataName = dataName
		}
	}
}

// NewDashboardService creates the pipeline over a dataset cache
func NewDashboardService(cache *generator.Cache, opts ...Option) *DashboardService {
	s := &DashboardService{
		cache:      cache,
		estimator:  ols.NewEstimator(),
		reportName: "education_return_report",
		dataName:   "education_return_data",
		now:        time.Now,
		logger:     internal.DefaultLogger.With("dashboard"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Render runs the full pipeline. Only dataset generation failures are
// returned as errors.
func (s *DashboardService) Render(ctx context.Context, req DashboardRequest) (*Snapshot, error) {
	run, err := s.run(ctx, req)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Criteria:    run.criteria,
		Robust:      req.Robust,
		Seed:        run.dataset.Seed(),
		Fingerprint: run.dataset.Fingerprint().Short(),
		Overview:    describe.Overview(run.view),
		Summary:     run.summary,
		Result:      run.result,
		Scatter:     charts.Scatter(run.view),
		View:        run.view,
		GeneratedAt: run.at,
		err:         run.fitErr,
	}
	snap.Table = displayRows(run.view)

	if run.fitErr != nil {
		snap.RegressionError = run.fitErr.Error()
		return snap, nil
	}

	findings := run.result.Findings()
	forest := charts.ForestPlot(run.result)
	snap.Findings = &findings
	snap.Forest = &forest

	text, err := report.ComposeReport(run.reportInput(""))
	if err != nil {
		s.logger.Warn("report preview failed: %v", err)
	} else {
		snap.ReportHTML = report.PreviewHTML(text)
	}
	return snap, nil
}

// ExportReport builds the text report artifact
func (s *DashboardService) ExportReport(ctx context.Context, req DashboardRequest) (*artifacts.Artifact, error) {
	run, err := s.run(ctx, req)
	if err != nil {
		return nil, err
	}
	if run.fitErr != nil {
		return nil, run.fitErr
	}

	id := core.NewExportID()
	text, err := report.ComposeReport(run.reportInput(id))
	if err != nil {
		return nil, err
	}
	a := artifacts.NewReport(s.reportName, run.at, text)
	a.ID = id
	if err := artifacts.Validate(a); err != nil {
		return nil, err
	}

	s.record(ctx, a, run, req.Robust)
	return a, nil
}

// ExportWorkbook builds the xlsx artifact
func (s *DashboardService) ExportWorkbook(ctx context.Context, req DashboardRequest) (*artifacts.Artifact, error) {
	run, err := s.run(ctx, req)
	if err != nil {
		return nil, err
	}
	if run.fitErr != nil {
		return nil, run.fitErr
	}

	data, err := excel.ComposeWorkbook(run.view, run.summary)
	if err != nil {
		return nil, err
	}
	a := artifacts.NewWorkbook(s.dataName, run.at, data)
	if err := artifacts.Validate(a); err != nil {
		return nil, err
	}

	s.record(ctx, a, run, req.Robust)
	return a, nil
}

// RecentExports lists recorded exports, newest first. Without a ledger the
// list is empty.
func (s *DashboardService) RecentExports(ctx context.Context, limit int) ([]artifacts.Record, error) {
	if s.ledger == nil {
		return []artifacts.Record{}, nil
	}
	return s.ledger.Recent(ctx, limit)
}

// DefaultSeed returns the seed used when a request does not name one
func (s *DashboardService) DefaultSeed() int64 {
	return s.cache.Seed()
}

// record stores the export in the ledger. A ledger failure is logged and does
// not fail the download.
func (s *DashboardService) record(ctx context.Context, a *artifacts.Artifact, run *pipelineRun, robust bool) {
	s.logger.Info("export %s %s (%d bytes, n=%d)", a.Kind, a.Filename, len(a.Data), run.view.Len())
	if s.ledger == nil {
		return
	}
	rec := artifacts.NewRecord(a, run.criteria.Criteria, run.view.Len(), robust, run.dataset.Seed(), run.at)
	if err := s.ledger.Record(ctx, rec); err != nil {
		s.logger.Warn("failed to record export %s: %v", a.ID, err)
	}
}

type pipelineRun struct {
	at       time.Time
	dataset  *wage.Dataset
	criteria wage.CriteriaResult
	view     *wage.FilteredView
	summary  domainstats.Summary
	result   *domainstats.RegressionResult
	fitErr   error
}

func (r *pipelineRun) reportInput(id core.ExportID) report.ReportInput {
	return report.ReportInput{
		GeneratedAt: r.at,
		ExportID:    id,
		Criteria:    r.criteria.Criteria,
		View:        r.view,
		Result:      r.result,
		Summary:     r.summary,
	}
}

func (s *DashboardService) run(ctx context.Context, req DashboardRequest) (*pipelineRun, error) {
	seed := req.Seed
	if seed == 0 {
		seed = s.cache.Seed()
	}
	ds, err := s.cache.Get(ctx, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset for seed %d: %w", seed, err)
	}

	criteria, view := filter.Run(ds, req.Criteria)
	if criteria.Adjusted {
		s.logger.Warn("%s", criteria.Warning)
	}

	run := &pipelineRun{
		at:       s.now(),
		dataset:  ds,
		criteria: criteria,
		view:     view,
		summary:  describe.Summarize(view),
	}
	run.result, run.fitErr = s.estimator.Fit(view, req.Robust)
	if run.fitErr != nil {
		var ide *domainstats.InsufficientDataError
		if !errors.As(run.fitErr, &ide) {
			return nil, run.fitErr
		}
		s.logger.Debug("regression skipped: %v", run.fitErr)
	}
	s.logger.Debug("pipeline %s n=%d robust=%t", criteria.Criteria, view.Len(), req.Robust)
	return run, nil
}

// displayRows renders every filtered row; the page scrolls the table
func displayRows(view *wage.FilteredView) []DisplayRow {
	rows := make([]DisplayRow, view.Len())
	for i := range rows {
		o := view.At(i)
		rows[i] = DisplayRow{
			Gender:     o.Gender.Label(),
			Education:  round2(o.Education),
			Experience: round2(o.Experience),
			Wage:       round2(o.Wage),
			LogWage:    round2(o.LogWage),
		}
	}
	return rows
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
