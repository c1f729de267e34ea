package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mincerdash/adapters/excel"
	"mincerdash/app"
	"mincerdash/domain/artifacts"
	"mincerdash/domain/wage"
	"mincerdash/internal/config"
	"mincerdash/internal/container"
	"mincerdash/internal/errors"
	"mincerdash/internal/generator"

	"github.com/spf13/cobra"
)

type generateOptions struct {
	Seed   int64
	Size   int
	Format string
	Out    string
}

// analysisOptions are the dashboard widgets as flags
type analysisOptions struct {
	Genders []string
	EduMin  int
	EduMax  int
	Robust  bool
	Seed    int64
	Input   string
}

func (o *analysisOptions) bind(cmd *cobra.Command) {
	def := wage.DefaultCriteria()
	cmd.Flags().StringSliceVar(&o.Genders, "gender", def.GenderLabels(), "Genders to include (female, male)")
	cmd.Flags().IntVar(&o.EduMin, "edu-min", def.EducationMin, "Minimum years of education")
	cmd.Flags().IntVar(&o.EduMax, "edu-max", def.EducationMax, "Maximum years of education")
	cmd.Flags().BoolVar(&o.Robust, "robust", true, "Use HC1 robust standard errors")
	cmd.Flags().Int64Var(&o.Seed, "seed", 0, "Dataset seed (default DATA_SEED)")
	cmd.Flags().StringVar(&o.Input, "input", "", "Analyze a csv or xlsx dataset instead of simulating one")
}

func (o analysisOptions) criteria() (wage.FilterCriteria, error) {
	c := wage.FilterCriteria{
		Genders:      []wage.Gender{},
		EducationMin: o.EduMin,
		EducationMax: o.EduMax,
	}
	for _, raw := range o.Genders {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		g, err := wage.ParseGender(raw)
		if err != nil {
			return wage.FilterCriteria{}, errors.InvalidInput(err.Error())
		}
		if !c.Includes(g) {
			c.Genders = append(c.Genders, g)
		}
	}
	return c, nil
}

func runGenerate(out io.Writer, opts generateOptions) error {
	format := strings.ToLower(opts.Format)
	if format != "xlsx" && format != "csv" {
		return errors.InvalidInput("format must be xlsx or csv, got " + opts.Format)
	}

	cfg := generator.WithSeed(opts.Seed)
	cfg.Size = opts.Size
	ds, err := generator.Generate(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to generate dataset")
	}

	path := opts.Out
	if path == "" {
		path = fmt.Sprintf("wage_data_%d.%s", opts.Seed, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer f.Close()

	if format == "csv" {
		err = generator.WriteCSV(f, ds)
	} else {
		err = generator.WriteXLSX(f, ds)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}

	fmt.Fprintf(out, "Wrote %d rows (seed %d, fingerprint %s) to %s\n", ds.Len(), ds.Seed(), ds.Fingerprint().Short(), path)
	return f.Close()
}

func runReport(ctx context.Context, out, errOut io.Writer, opts analysisOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c, err := container.New(cfg)
	if err != nil {
		return err
	}

	req, err := prepareRequest(c, opts, errOut)
	if err != nil {
		return err
	}

	a, err := c.Dashboard.ExportReport(ctx, req)
	if err != nil {
		return err
	}
	_, err = out.Write(a.Data)
	return err
}

func runExport(ctx context.Context, out, errOut io.Writer, opts analysisOptions, dir string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c, err := container.New(cfg)
	if err != nil {
		return err
	}
	if err := c.Open(ctx); err != nil {
		return err
	}
	defer c.Close()

	req, err := prepareRequest(c, opts, errOut)
	if err != nil {
		return err
	}
	return exportAll(ctx, c.Dashboard, req, dir, out)
}

// prepareRequest turns the flags into a dashboard request, pinning an input
// dataset in the cache when one is given. The criteria warning goes to errOut.
func prepareRequest(c *container.Container, opts analysisOptions, errOut io.Writer) (app.DashboardRequest, error) {
	criteria, err := opts.criteria()
	if err != nil {
		return app.DashboardRequest{}, err
	}
	if res := wage.NormalizeCriteria(criteria); res.Warning != "" {
		fmt.Fprintf(errOut, "warning: %s\n", res.Warning)
	}

	req := app.DashboardRequest{Criteria: criteria, Robust: opts.Robust, Seed: opts.Seed}
	if opts.Input == "" {
		return req, nil
	}

	seed := opts.Seed
	if seed == 0 {
		seed = c.Dashboard.DefaultSeed()
	}
	ds, err := excel.NewDataReader(opts.Input).ReadDataset(seed)
	if err != nil {
		return app.DashboardRequest{}, errors.Wrapf(err, "failed to load %s", opts.Input)
	}
	c.Cache.Store(ds)
	req.Seed = seed
	return req, nil
}

func exportAll(ctx context.Context, svc *app.DashboardService, req app.DashboardRequest, dir string, out io.Writer) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create %s", dir)
	}

	builders := []func(context.Context, app.DashboardRequest) (*artifacts.Artifact, error){
		svc.ExportReport,
		svc.ExportWorkbook,
	}
	for _, build := range builders {
		a, err := build(ctx, req)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, a.Filename)
		if err := os.WriteFile(path, a.Data, 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", path)
		}
		fmt.Fprintf(out, "%s\t%s\t%d bytes\n", a.Kind, path, len(a.Data))
	}
	return nil
}
