package reporting

import (
	"errors"
	"fmt"
	"html/template"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/phantomnet/phantomnet/database"
	htmlTempl "github.com/phantomnet/phantomnet/reporting/templates"
	"github.com/phantomnet/phantomnet/resources"
	"github.com/phantomnet/phantomnet/util"
	log "github.com/sirupsen/logrus"
	"github.com/skratchdot/open-golang/open"
)

// Result lists what a report run produced
type Result struct {
	Written []string
	Skipped []htmlTempl.SkippedInfo
	Index   string
}

// Reporter renders the descriptive charts into the figures directory
type Reporter struct {
	res *resources.Resources
	now func() time.Time
}

// NewReporter creates a Reporter for the configured tables
func NewReporter(res *resources.Resources) *Reporter {
	return &Reporter{res: res, now: time.Now}
}

// OutDir returns the directory the report is written to
func (r *Reporter) OutDir() string {
	return r.res.Config.R.Paths.FiguresDir
}

// Render draws every figure whose inputs exist and writes the index page.
// Figures lacking a table or column are skipped and logged.
func (r *Reporter) Render() (*Result, error) {
	in, err := r.loadInputs()
	if err != nil {
		return nil, err
	}

	outDir := r.OutDir()
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create %s: %w", outDir, err)
	}

	result := &Result{}
	var linked []htmlTempl.FigureInfo
	for _, fig := range figures {
		p, err := fig.render(in)
		var skipped *skipError
		if errors.As(err, &skipped) {
			r.res.Log.WithFields(log.Fields{
				"figure": fig.File,
				"reason": skipped.reason,
			}).Warn("Skipping figure")
			fmt.Printf("\t[!] Skipping %s: %s\n", fig.File, skipped.reason)
			result.Skipped = append(result.Skipped, htmlTempl.SkippedInfo{File: fig.File, Reason: skipped.reason})
			continue
		}
		if err != nil {
			return result, fmt.Errorf("could not draw %s: %w", fig.File, err)
		}

		path := filepath.Join(outDir, fig.File)
		if err := p.Save(fig.Width, fig.Height, path); err != nil {
			return result, fmt.Errorf("could not save %s: %w", fig.File, err)
		}
		r.res.Log.WithFields(log.Fields{"figure": path}).Info("Wrote figure")
		fmt.Printf("\t[-] Wrote %s\n", path)
		result.Written = append(result.Written, path)
		linked = append(linked, htmlTempl.FigureInfo{File: fig.File, Title: fig.Title})
	}

	result.Index, err = r.writeIndex(linked, result.Skipped)
	if err != nil {
		return result, err
	}
	return result, nil
}

// Open shows the index page in the default browser
func (r *Reporter) Open(result *Result) error {
	return open.Run(result.Index)
}

// loadInputs reads whichever tables exist
func (r *Reporter) loadInputs() (*inputs, error) {
	tables := r.res.Config.T
	in := &inputs{}
	var err error
	if in.sessions, err = r.readOptional(tables.Structure.SessionTable); err != nil {
		return nil, err
	}
	if in.labeled, err = r.readOptional(tables.Analysis.LabeledTable); err != nil {
		return nil, err
	}
	if in.scores, err = r.readOptional(tables.Analysis.AnomalyTable); err != nil {
		return nil, err
	}
	return in, nil
}

func (r *Reporter) readOptional(table string) (*database.Table, error) {
	t, err := r.res.DB.Read(table)
	if database.IsNotExist(err) {
		return nil, nil
	}
	return t, err
}

func (r *Reporter) writeIndex(figs []htmlTempl.FigureInfo, skipped []htmlTempl.SkippedInfo) (string, error) {
	outDir := r.OutDir()
	if err := ioutil.WriteFile(filepath.Join(outDir, "style.css"), htmlTempl.CSStempl, 0644); err != nil {
		return "", err
	}

	out, err := template.New("index.html").Parse(htmlTempl.IndexTempl)
	if err != nil {
		return "", err
	}

	path := filepath.Join(outDir, r.res.Config.T.Report.IndexFile)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	err = out.Execute(f, htmlTempl.ReportingInfo{
		Generated: r.now().UTC().Format(util.TimeFormat),
		Version:   r.res.Config.S.ExactVersion,
		Figures:   figs,
		Skipped:   skipped,
	})
	if err != nil {
		return "", err
	}
	return path, nil
}
