package feeds

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gbv/jconv/xmldoc"
	"github.com/klauspost/pgzip"
	"github.com/sirupsen/logrus"
)

// Walk finds .xml, .xml.gz and .zip files below root (which may be a single
// file) and passes each document to fn. Unparsable files are logged and
// skipped.
func Walk(root string, fn DocumentFunc) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		lower := strings.ToLower(p)
		switch {
		case strings.HasSuffix(lower, ".zip"):
			a := &ZipArchive{Path: p}
			return a.Each(fn)
		case strings.HasSuffix(lower, ".xml"), strings.HasSuffix(lower, ".xml.gz"):
			doc, err := parseFile(p)
			if err != nil {
				logrus.WithField("doc", p).WithError(err).Error("cannot parse file")
				return nil
			}
			return fn(doc)
		default:
			logrus.WithField("path", p).Debug("skipping file")
			return nil
		}
	})
}

// parseFile parses a single, possibly gzip compressed, file.
func parseFile(p string) (*xmldoc.Document, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(p), ".gz") {
		zr, err := pgzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	}
	return xmldoc.Parse(r, filepath.Base(p))
}
