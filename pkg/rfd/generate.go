package rfd

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ukaji3/rfdgen/pkg/rfd/config"
	"github.com/ukaji3/rfdgen/pkg/rfd/export"
	"github.com/ukaji3/rfdgen/pkg/rfd/models"
	"github.com/ukaji3/rfdgen/pkg/rfd/naming"
	"github.com/ukaji3/rfdgen/pkg/rfd/period"
	"github.com/ukaji3/rfdgen/pkg/rfd/source"
	"github.com/ukaji3/rfdgen/pkg/rfd/template"
)

// FieldPeriod is the source field expanded into config.FieldTotalPeriod.
const FieldPeriod = "declaration_period"

// IssueDateLayout formats the declaration issue date (dd/mm/yyyy).
const IssueDateLayout = "02/01/2006"

// Generator runs declaration batches for one configuration.
type Generator struct {
	cfg             config.Config
	exporter        export.Exporter
	ledger          Ledger
	log             logrus.FieldLogger
	now             func() time.Time
	cleanupAttempts int
	cleanupPause    time.Duration
}

// New validates cfg, checks that the source and template exist, and creates
// the output folder.
func New(cfg config.Config, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, path := range []string{cfg.Source.Path, cfg.Template.Path} {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrapf(ErrFileNotFound, "%s", path)
			}
			return nil, err
		}
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating output folder")
	}

	g := &Generator{
		cfg:             cfg,
		now:             time.Now,
		cleanupAttempts: DefaultCleanupAttempts,
		cleanupPause:    DefaultCleanupPause,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = discardLogger()
	}
	if g.exporter == nil && cfg.Export.SaveAsPDF {
		e, err := export.New(cfg.Export, cfg.Template.Sheet)
		if err != nil {
			return nil, err
		}
		g.exporter = e
	}
	return g, nil
}

// Exporter returns the PDF exporter, or nil when PDFs are disabled.
func (g *Generator) Exporter() export.Exporter { return g.exporter }

// Scan lists the qualifying rows of the source sheet.
func (g *Generator) Scan(ctx context.Context) ([]models.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rd, err := source.Open(g.cfg.Source.Path, g.cfg.Source.Sheet)
	if err != nil {
		return nil, err
	}
	return rd.Scan(g.cfg.Source)
}

// Run scans the source and produces a declaration for every qualifying row.
// Rows are processed one at a time; a failed row is recorded in the summary
// and does not stop the batch. A cancelled ctx stops the batch between rows
// and its error is returned with the partial summary.
func (g *Generator) Run(ctx context.Context) (models.Summary, error) {
	g.log.WithField("source", g.cfg.Source.Path).Info("scanning source for qualifying customers")

	rd, err := source.Open(g.cfg.Source.Path, g.cfg.Source.Sheet)
	if err != nil {
		return g.newSummary(), err
	}
	candidates, err := rd.Scan(g.cfg.Source)
	if err != nil {
		return g.newSummary(), err
	}

	rows := make([]int, 0, len(candidates))
	for _, c := range candidates {
		g.log.WithFields(logrus.Fields{"row": c.Row, "key": c.Key, "blend": c.Blend}).Debug("qualifying row")
		rows = append(rows, c.Row)
	}
	g.log.WithField("count", len(rows)).Info("found qualifying customers")

	if len(rows) == 0 {
		return g.newSummary(), ErrNoQualifyingRows
	}
	return g.process(ctx, rd, rows)
}

// ProcessRows produces declarations for the given source rows only, without
// applying the blend filter.
func (g *Generator) ProcessRows(ctx context.Context, rows []int) (models.Summary, error) {
	rd, err := source.Open(g.cfg.Source.Path, g.cfg.Source.Sheet)
	if err != nil {
		return g.newSummary(), err
	}
	return g.process(ctx, rd, rows)
}

func (g *Generator) newSummary() models.Summary {
	format := "Excel"
	if g.cfg.Export.SaveAsPDF {
		format = "PDF"
	}
	return models.Summary{OutputDir: g.cfg.Output.Dir, Format: format}
}

func (g *Generator) process(ctx context.Context, rd *source.Reader, rows []int) (models.Summary, error) {
	summary := g.newSummary()

	var runID int64
	led := g.ledger
	if led != nil {
		id, err := led.BeginRun(ctx, g.cfg.Source.Path, g.cfg.Template.Path, g.cfg.Output.Dir)
		if err != nil {
			g.log.WithError(err).Warn("ledger unavailable, continuing without it")
			led = nil
		}
		runID = id
	}

	var (
		temps  []string
		runErr error
	)
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			g.log.WithField("remaining", len(rows)-i).Warn("run cancelled")
			runErr = err
			break
		}

		g.log.WithField("row", row).Infof("processing customer %d of %d", i+1, len(rows))
		outcome, temp := g.processRow(ctx, rd, row)
		if temp != "" {
			temps = append(temps, temp)
		}
		summary.Add(outcome)

		if led != nil {
			if err := led.Record(ctx, runID, outcome); err != nil {
				g.log.WithError(err).Warn("could not record outcome in ledger")
			}
		}
	}

	Cleanup(g.log, temps, g.cleanupAttempts, g.cleanupPause)

	if led != nil {
		if err := led.FinishRun(context.WithoutCancel(ctx), runID, summary); err != nil {
			g.log.WithError(err).Warn("could not record run totals in ledger")
		}
	}

	return summary, runErr
}

// processRow produces the declaration for one row. It returns the outcome
// and, when the working copy is no longer needed, its path for cleanup.
func (g *Generator) processRow(ctx context.Context, rd *source.Reader, row int) (models.Outcome, string) {
	log := g.log.WithField("row", row)

	rec, err := rd.Extract(row, g.cfg.Source.Fields)
	if err != nil {
		return g.fail(log, models.Outcome{Row: row}, StageExtract, err), ""
	}

	if rec.IsBlank(g.cfg.Source.NameField) {
		log.Info("no customer name found, skipping row")
		return models.Outcome{Row: row, Status: models.StatusSkipped}, ""
	}

	customer := rec.String(g.cfg.Source.NameField)
	log = log.WithField("customer", customer)
	outcome := models.Outcome{Row: row, Customer: customer}

	values := g.declarationValues(log, rec)

	vars := make(map[string]string, len(values)+1)
	for field, v := range values {
		vars[field] = models.Stringify(v)
	}
	vars["row"] = strconv.Itoa(row)

	paths, err := naming.Plan(g.cfg.Output, row, vars, g.cfg.Template.WorkbookExt())
	if err != nil {
		return g.fail(log, outcome, StagePlan, err), ""
	}

	log.WithField("fields", len(g.cfg.Template.Cells)).Debug("filling template")
	if err := template.Populate(g.cfg.Template.Path, paths.Temp, g.cfg.Template.Sheet, g.cfg.Template.Cells, values); err != nil {
		os.Remove(paths.Temp)
		return g.fail(log, outcome, StagePopulate, err), ""
	}

	if !g.cfg.Export.SaveAsPDF {
		if err := os.Rename(paths.Temp, paths.Workbook); err != nil {
			return g.fail(log, outcome, StageSave, err), paths.Temp
		}
		outcome.Status = models.StatusKept
		outcome.Output = paths.Workbook
		log.WithField("file", paths.Workbook).Info("saved declaration workbook")
		return outcome, ""
	}

	log.WithField("engine", g.exporter.Name()).Debug("creating pdf")
	if err := g.exporter.Export(ctx, paths.Temp, paths.PDF); err != nil {
		exportErr := NewRecordError(row, StageExport, err)
		if rerr := os.Rename(paths.Temp, paths.Workbook); rerr != nil {
			log.WithError(rerr).Error("could not keep workbook after failed export")
			outcome.Status = models.StatusFailed
			outcome.Err = exportErr
			return outcome, paths.Temp
		}
		outcome.Status = models.StatusFallback
		outcome.Output = paths.Workbook
		outcome.Err = exportErr
		log.WithError(err).WithField("file", paths.Workbook).Error("pdf creation failed, kept workbook instead")
		return outcome, ""
	}

	outcome.Status = models.StatusCreated
	outcome.Output = paths.PDF
	log.WithField("file", paths.PDF).Info("created pdf")

	if g.cfg.Export.KeepWorkbook {
		if err := os.Rename(paths.Temp, paths.Workbook); err != nil {
			log.WithError(err).Warn("could not keep workbook")
			return outcome, paths.Temp
		}
		outcome.Workbook = paths.Workbook
		return outcome, ""
	}
	return outcome, paths.Temp
}

// declarationValues returns the record values plus the derived period and
// issue date fields.
func (g *Generator) declarationValues(log logrus.FieldLogger, rec models.Record) map[string]interface{} {
	values := make(map[string]interface{}, len(rec.Values)+2)
	for k, v := range rec.Values {
		values[k] = v
	}

	values[config.FieldTotalPeriod] = nil
	if raw := rec.String(FieldPeriod); raw != "" {
		total, err := period.Expand(raw)
		if err != nil {
			log.WithError(err).Warn("could not parse declaration period, using it unchanged")
		}
		values[config.FieldTotalPeriod] = total
	}
	values[config.FieldDateIssued] = g.now().Format(IssueDateLayout)
	return values
}

func (g *Generator) fail(log logrus.FieldLogger, o models.Outcome, stage Stage, err error) models.Outcome {
	var re *RecordError
	if !errors.As(err, &re) {
		re = NewRecordError(o.Row, stage, err)
	}
	log.WithError(err).WithField("stage", stage).Error("error processing row")
	o.Status = models.StatusFailed
	o.Err = re
	return o
}
