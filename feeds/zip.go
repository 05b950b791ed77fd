package feeds

import (
	"fmt"
	"path"
	"strings"

	"github.com/gbv/jconv/xmldoc"
	"github.com/klauspost/compress/zip"
	"github.com/sirupsen/logrus"
)

// ZipArchive is a publisher delivery, e.g. a Springer zip file with one JATS
// XML file per article, next to PDF and image files.
type ZipArchive struct {
	Path string
}

func isXML(name string) bool {
	return strings.EqualFold(path.Ext(name), ".xml")
}

// NumFiles returns the number of XML members.
func (a *ZipArchive) NumFiles() (int, error) {
	r, err := zip.OpenReader(a.Path)
	if err != nil {
		return 0, err
	}
	defer r.Close()
	var n int
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && isXML(f.Name) {
			n++
		}
	}
	return n, nil
}

// Each parses every XML member and passes it to fn, in archive order.
// Documents are named "archive.zip/member.xml". Members which cannot be
// parsed are logged and skipped, an error from fn stops the iteration.
func (a *ZipArchive) Each(fn DocumentFunc) error {
	r, err := zip.OpenReader(a.Path)
	if err != nil {
		return err
	}
	defer r.Close()
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !isXML(f.Name) {
			continue
		}
		name := path.Join(path.Base(a.Path), f.Name)
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("zip: %s: %w", name, err)
		}
		doc, err := xmldoc.Parse(rc, name)
		rc.Close()
		if err != nil {
			logrus.WithField("doc", name).WithError(err).Error("cannot parse archive member")
			continue
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	return nil
}
