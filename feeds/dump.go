package feeds

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gbv/jconv/xmldoc"
	"github.com/gbv/jconv/xmlsplit"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/sirupsen/logrus"
)

// ReadFile splits a file of concatenated XML, like a MARCXML collection, an
// OAI-PMH response or a harvested day slice, into elements named tagName and
// passes each as a document to fn. Files ending in .gz or .zst are
// decompressed. Documents are named "file#n", starting at 1.
func ReadFile(p, tagName string, fn DocumentFunc) error {
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()
	var r io.Reader = f
	switch strings.ToLower(filepath.Ext(p)) {
	case ".gz":
		zr, err := pgzip.NewReader(f)
		if err != nil {
			return err
		}
		defer zr.Close()
		r = zr
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			return err
		}
		defer zr.Close()
		r = zr
	}
	return Split(r, filepath.Base(p), tagName, fn)
}

// Split is like ReadFile, but reads from r.
func Split(r io.Reader, name, tagName string, fn DocumentFunc) error {
	var (
		scanner = xmlsplit.NewScanner(r, tagName, 0)
		i       int
	)
	for scanner.Scan() {
		i++
		docName := fmt.Sprintf("%s#%d", name, i)
		doc, err := xmldoc.Parse(bytes.NewReader(scanner.Bytes()), docName)
		if err != nil {
			logrus.WithField("doc", docName).WithError(err).Error("cannot parse element")
			continue
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	return scanner.Err()
}
