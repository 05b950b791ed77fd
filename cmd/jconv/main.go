// jconv turns JATS, OAI-PMH Dublin Core and MARCXML article records into
// normalized article JSON records.
//
// $ jconv -f jats -o out -validate springer-delivery.zip
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gbv/jconv"
	"github.com/gbv/jconv/atomicfile"
	"github.com/gbv/jconv/config"
	"github.com/gbv/jconv/convert"
	"github.com/gbv/jconv/dateutil"
	"github.com/gbv/jconv/feeds"
	"github.com/gbv/jconv/schema/article"
	"github.com/gbv/jconv/xmldoc"
	"github.com/klauspost/compress/zstd"
	"github.com/segmentio/encoding/json"
	"github.com/sirupsen/logrus"
)

var (
	configFile  = flag.String("config", config.DefaultPath(), "path to YAML config file")
	format      = flag.String("f", "", "input format (one of: jats, oai, marc)")
	outputDir   = flag.String("o", "", `output directory, "-" writes JSON lines to stdout`)
	validate    = flag.Bool("validate", false, "drop records failing schema validation")
	dryRun      = flag.Bool("n", false, "dry run, convert but do not write")
	publisher   = flag.String("publisher", "", "publisher name override for JATS primary ids")
	compress    = flag.Bool("zstd", false, "write zstd compressed files")
	verbose     = flag.Bool("v", false, "verbose output")
	debug       = flag.Bool("debug", false, "debug output")
	endpoint    = flag.String("endpoint", "", "OAI-PMH endpoint to harvest")
	prefix      = flag.String("prefix", "", "OAI metadata prefix")
	set         = flag.String("set", "", "OAI set")
	articleType = flag.String("article-type", "", "OAI article type (one of: cairn, openedition)")
	from        = flag.String("from", "", "harvest from date, inclusive")
	until       = flag.String("until", "", "harvest until date, inclusive, defaults to yesterday")
	useCache    = flag.Bool("cache", false, "harvest through compressed day slices in the cache dir")
	showVersion = flag.Bool("version", false, "show version")
)

var help = `jconv normalizes article metadata

Converts JATS (multiple publishers), OAI-PMH Dublin Core (Cairn,
OpenEdition) and MARCXML records into article JSON records. Inputs are
files, directories or zip archives; without arguments, stdin is read.

Examples:

    $ jconv -f jats -o out -validate delivery.zip
    $ jconv -f marc -o - records.xml.gz
    $ jconv -f oai -article-type cairn -endpoint https://oai.cairn.info/oai.php -from 2024-03-01

Usage:

`

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, help)
		flag.PrintDefaults()
	}
	flag.Parse()
	if *showVersion {
		fmt.Println(jconv.Version)
		os.Exit(0)
	}
	cfg, err := loadConfig()
	if err != nil {
		logrus.Fatal(err)
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Fatal(err)
	}
	switch {
	case *debug:
		level = logrus.DebugLevel
	case *verbose:
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)

	r := &runner{cfg: cfg}
	if cfg.Validate {
		r.batch = convert.NewBatch(article.NewValidator())
	} else {
		r.batch = convert.NewBatch(nil)
	}
	if err := r.run(flag.Args()); err != nil {
		logrus.Fatal(err)
	}
	logrus.WithFields(logrus.Fields{
		"written":  r.written,
		"skipped":  r.skipped,
		"rejected": r.batch.NumRejected,
	}).Info(r.batch.String())
	if r.batch.ValidationFailed {
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flags set on the command line.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "f":
			cfg.Format = *format
		case "o":
			cfg.OutputDir = *outputDir
		case "validate":
			cfg.Validate = *validate
		case "n":
			cfg.DryRun = *dryRun
		case "publisher":
			cfg.Publisher = *publisher
		case "zstd":
			cfg.Compress = *compress
		case "endpoint":
			cfg.OAI.Endpoint = *endpoint
		case "prefix":
			cfg.OAI.MetadataPrefix = *prefix
		case "set":
			cfg.OAI.Set = *set
		case "article-type":
			cfg.OAI.ArticleType = *articleType
		case "from":
			cfg.OAI.From = *from
		case "until":
			cfg.OAI.Until = *until
		}
	})
	return cfg, cfg.Check()
}

type runner struct {
	cfg     *config.Config
	batch   *convert.Batch
	written int
	skipped int
}

func (r *runner) run(args []string) error {
	switch r.cfg.Format {
	case "oai":
		v, err := convert.ParseOAIVariant(r.cfg.OAI.ArticleType)
		if err != nil {
			return err
		}
		handle := func(doc *xmldoc.Document) error {
			a, err := convert.NewOAIArticle(doc, v)
			if convert.IsSkip(err) {
				logrus.WithField("doc", doc.Name).WithError(err).Debug("skipping")
				r.skipped++
				return nil
			}
			if err != nil {
				return err
			}
			return r.add(a)
		}
		if r.cfg.OAI.Endpoint != "" {
			return r.harvest(handle)
		}
		return r.split(args, handle)
	case "marc":
		return r.split(args, func(doc *xmldoc.Document) error {
			return r.add(convert.NewMarcArticle(doc))
		})
	default:
		handle := func(doc *xmldoc.Document) error {
			return r.add(convert.NewJats(doc, convert.JatsOptions{Publisher: r.cfg.Publisher}))
		}
		if len(args) == 0 {
			doc, err := xmldoc.Parse(os.Stdin, "stdin")
			if err != nil {
				return err
			}
			return handle(doc)
		}
		for _, arg := range args {
			if err := feeds.Walk(arg, handle); err != nil {
				return err
			}
		}
		return nil
	}
}

// split reads record elements from files or stdin.
func (r *runner) split(args []string, fn feeds.DocumentFunc) error {
	if len(args) == 0 {
		return feeds.Split(os.Stdin, "stdin", "record", fn)
	}
	for _, arg := range args {
		if err := feeds.ReadFile(arg, "record", fn); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) harvest(fn feeds.DocumentFunc) error {
	h, err := feeds.NewOAIHarvester(r.cfg.OAI.Endpoint)
	if err != nil {
		return err
	}
	h.Client = &http.Client{Timeout: r.cfg.OAI.Timeout}
	h.MetadataPrefix = r.cfg.OAI.MetadataPrefix
	h.Set = r.cfg.OAI.Set
	if r.cfg.OAI.CacheDir != "" {
		h.CacheDir = r.cfg.OAI.CacheDir
	}
	start, end, err := harvestWindow(r.cfg.OAI.From, r.cfg.OAI.Until, time.Now())
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"from": start, "until": end}).Info("harvesting")
	ctx := context.Background()
	if !*useCache {
		return h.Harvest(ctx, start, end, fn)
	}
	for _, iv := range dateutil.Daily(start, end) {
		p, err := h.WriteDaySlice(ctx, iv.Start, h.CacheDir)
		if err != nil {
			return err
		}
		if err := feeds.ReadFile(p, "record", fn); err != nil {
			return err
		}
	}
	return nil
}

// harvestWindow parses inclusive from and until dates into a half open
// window. Until defaults to yesterday, from to the day before until.
func harvestWindow(from, until string, now time.Time) (start, end time.Time, err error) {
	end = now.AddDate(0, 0, -1)
	if until != "" {
		if end, err = dateutil.Parse(until); err != nil {
			return
		}
	}
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	start = end.AddDate(0, 0, -1)
	if from != "" {
		var t time.Time
		if t, err = dateutil.Parse(from); err != nil {
			return
		}
		start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	if !start.Before(end) {
		err = fmt.Errorf("empty harvest window: %s to %s", from, until)
	}
	return
}

func (r *runner) add(a convert.Assembler) error {
	for _, result := range r.batch.Add(a) {
		if r.cfg.DryRun {
			continue
		}
		if err := r.write(result); err != nil {
			return err
		}
		r.written++
	}
	r.batch.Reset()
	return nil
}

func (r *runner) write(result convert.Result) error {
	b, err := json.Marshal(result.Record)
	if err != nil {
		return err
	}
	if r.cfg.OutputDir == "-" {
		b = append(b, '\n')
		_, err := os.Stdout.Write(b)
		return err
	}
	name := outputName(result.Name, result.Form)
	if r.cfg.Compress {
		name += ".zst"
	}
	if err := os.MkdirAll(r.cfg.OutputDir, 0755); err != nil {
		return err
	}
	f, err := atomicfile.New(filepath.Join(r.cfg.OutputDir, name))
	if err != nil {
		return err
	}
	var w io.WriteCloser = nopCloser{f}
	if r.cfg.Compress {
		if w, err = zstd.NewWriter(f); err != nil {
			f.Abort()
			return err
		}
	}
	if _, err := io.Copy(w, bytes.NewReader(b)); err != nil {
		f.Abort()
		return err
	}
	if err := w.Close(); err != nil {
		f.Abort()
		return err
	}
	return f.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// outputName derives a file name from a document name, like
// "delivery.zip/ART=1/a.xml" or "oai:cairn.info:ARSS_123".
func outputName(name, form string) string {
	for _, ext := range []string{".gz", ".xml"} {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.NewReplacer("/", "_", ":", "_", "#", "_", "\\", "_").Replace(name)
	if name == "" {
		name = "record"
	}
	return fmt.Sprintf("%s_%s.json", name, form)
}
