package feeds

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/gbv/jconv"
	"github.com/gbv/jconv/atomicfile"
	"github.com/gbv/jconv/dateutil"
	"github.com/gbv/jconv/xmldoc"
	"github.com/gbv/jconv/xmlsplit"
	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
)

const oaiDateLayout = "2006-01-02"

var bNewline = []byte("\n")

// OAIHarvester fetches records from an OAI-PMH endpoint with ListRecords,
// following resumption tokens. There are no retries.
type OAIHarvester struct {
	Client         Doer
	BaseURL        string
	MetadataPrefix string
	Set            string
	// Interval splits a harvest into request windows, daily by default.
	Interval dateutil.IntervalFunc
	// CacheDir keeps day slices.
	CacheDir string
}

// NewOAIHarvester creates a harvester with default settings and a cache
// directory under the XDG cache home.
func NewOAIHarvester(baseURL string) (*OAIHarvester, error) {
	cacheDir, err := xdg.CacheFile(filepath.Join(jconv.AppName, "oai"))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}
	return &OAIHarvester{
		Client:         http.DefaultClient,
		BaseURL:        baseURL,
		MetadataPrefix: "oai_dc",
		Interval:       dateutil.Daily,
		CacheDir:       cacheDir,
	}, nil
}

// oaiPage is a single ListRecords response.
type oaiPage struct {
	records          [][]byte
	token            string
	completeListSize int
}

// parsePage reads the envelope of a response. Records are cut from the raw
// bytes, so they can be stored unchanged.
func parsePage(b []byte) (*oaiPage, error) {
	doc, err := xmldoc.Parse(bytes.NewReader(b), "oai-response")
	if err != nil {
		return nil, err
	}
	if e := xmldoc.Elements(doc.Selection, "error"); e.Length() > 0 {
		code, _ := xmldoc.Attr(e, "code")
		if code == "noRecordsMatch" {
			return nil, ErrNoRecordsMatch
		}
		msg, _ := xmldoc.Text(e)
		return nil, fmt.Errorf("oai: %s: %s", code, msg)
	}
	page := &oaiPage{}
	tok := xmldoc.Elements(doc.Selection, "resumptionToken")
	page.token, _ = xmldoc.Text(tok)
	if v, ok := xmldoc.Attr(tok, "completeListSize"); ok {
		page.completeListSize, _ = strconv.Atoi(v)
	}
	scanner := xmlsplit.NewScanner(bytes.NewReader(b), "record", 0)
	for scanner.Scan() {
		page.records = append(page.records, bytes.Clone(scanner.Bytes()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if page.completeListSize == 0 && page.token == "" {
		page.completeListSize = len(page.records)
	}
	return page, nil
}

func (h *OAIHarvester) fetch(ctx context.Context, vs url.Values) (*oaiPage, error) {
	link := fmt.Sprintf("%s?%s", h.BaseURL, vs.Encode())
	logrus.WithField("url", link).Debug("oai: fetching")
	req, err := http.NewRequestWithContext(ctx, "GET", link, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", fmt.Sprintf("%s/%s", jconv.AppName, jconv.Version))
	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("oai: HTTP %d while fetching %s", resp.StatusCode, link)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return parsePage(b)
}

func (h *OAIHarvester) initialValues(from, until time.Time) url.Values {
	vs := url.Values{}
	vs.Set("verb", "ListRecords")
	vs.Set("metadataPrefix", h.MetadataPrefix)
	if !from.IsZero() {
		vs.Set("from", from.Format(oaiDateLayout))
	}
	if !until.IsZero() {
		vs.Set("until", until.Format(oaiDateLayout))
	}
	if h.Set != "" {
		vs.Set("set", h.Set)
	}
	return vs
}

// ListRecords passes each raw record element between from and until (days,
// inclusive) to fn. An empty window yields ErrNoRecordsMatch.
func (h *OAIHarvester) ListRecords(ctx context.Context, from, until time.Time, fn func(raw []byte) error) error {
	var (
		vs   = h.initialValues(from, until)
		seen int
	)
	for {
		page, err := h.fetch(ctx, vs)
		if err != nil {
			return err
		}
		for _, raw := range page.records {
			if err := fn(raw); err != nil {
				return err
			}
		}
		seen += len(page.records)
		logrus.WithFields(logrus.Fields{
			"seen":  seen,
			"total": page.completeListSize,
		}).Debug("oai: page done")
		if page.token == "" {
			return nil
		}
		vs = url.Values{}
		vs.Set("verb", "ListRecords")
		vs.Set("resumptionToken", page.token)
	}
}

// NumRecords returns the complete list size reported for a window, zero for
// an empty window.
func (h *OAIHarvester) NumRecords(ctx context.Context, from, until time.Time) (int, error) {
	page, err := h.fetch(ctx, h.initialValues(from, until))
	if errors.Is(err, ErrNoRecordsMatch) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return page.completeListSize, nil
}

// Harvest fetches records from from (inclusive) to until (exclusive), one
// window at a time, and passes each record as a document named by its OAI
// identifier to fn. Empty windows are skipped.
func (h *OAIHarvester) Harvest(ctx context.Context, from, until time.Time, fn DocumentFunc) error {
	intervalFunc := h.Interval
	if intervalFunc == nil {
		intervalFunc = dateutil.Daily
	}
	for _, iv := range intervalFunc(from, until) {
		err := h.ListRecords(ctx, iv.Start, iv.End, func(raw []byte) error {
			doc, err := xmldoc.Parse(bytes.NewReader(raw), "record")
			if err != nil {
				logrus.WithError(err).Error("oai: cannot parse record")
				return nil
			}
			if id, ok := xmldoc.Text(doc.Find("header > identifier")); ok {
				doc.Name = id
			}
			return fn(doc)
		})
		if errors.Is(err, ErrNoRecordsMatch) {
			logrus.WithField("window", iv.String()).Debug("oai: no records")
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// SlicePath returns the cache file name for the day of t.
func (h *OAIHarvester) SlicePath(t time.Time, dir string) string {
	u, err := url.Parse(h.BaseURL)
	host := "oai"
	if err == nil && u.Host != "" {
		host = u.Host
	}
	name := strings.Join([]string{host, h.MetadataPrefix, h.Set}, "-")
	name = strings.NewReplacer(":", "_", "/", "_").Replace(strings.Trim(name, "-"))
	return filepath.Join(dir, fmt.Sprintf("%s-%s.xml.zst", name, t.Format(oaiDateLayout)))
}

// WriteDaySlice atomically writes the raw records of a single day, zstd
// compressed and newline separated, to a file under dir and returns its
// path. Idempotent, once the data has been captured. An empty day results in
// an empty file.
func (h *OAIHarvester) WriteDaySlice(ctx context.Context, t time.Time, dir string) (string, error) {
	if dir == "" {
		dir = h.CacheDir
	}
	cachePath := h.SlicePath(t, dir)
	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	f, err := atomicfile.New(cachePath)
	if err != nil {
		return "", err
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Abort()
		return "", err
	}
	err = h.ListRecords(ctx, t, t, func(raw []byte) error {
		if _, err := enc.Write(raw); err != nil {
			return err
		}
		_, err := enc.Write(bNewline)
		return err
	})
	if err != nil && !errors.Is(err, ErrNoRecordsMatch) {
		enc.Close()
		f.Abort()
		return "", err
	}
	if err := enc.Close(); err != nil {
		f.Abort()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return cachePath, nil
}
