package track

import (
	"io"
	"os"

	"github.com/klauspost/pgzip"
	"github.com/pkg/errors"
	"github.com/vertgenlab/gonomics/fileio"
)

// Open returns a reader for a bedGraph file. Files ending in .gz are
// decompressed transparently; forceGzip decompresses regardless of name.
// The name "stdin" reads standard input.
func Open(filename string, forceGzip bool) (io.ReadCloser, error) {
	if filename != "stdin" {
		if _, err := os.Stat(filename); err != nil {
			return nil, errors.Wrapf(err, "bedGraph file %s", filename)
		}
	}
	if !forceGzip {
		return fileio.EasyOpen(filename), nil
	}
	f := os.Stdin
	if filename != "stdin" {
		var err error
		if f, err = os.Open(filename); err != nil {
			return nil, errors.Wrapf(err, "bedGraph file %s", filename)
		}
	}
	zr, err := pgzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "bedGraph file %s is not gzip compressed", filename)
	}
	return &gzipFile{Reader: zr, file: f}, nil
}

type gzipFile struct {
	*pgzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	err := g.Reader.Close()
	if ferr := g.file.Close(); err == nil {
		err = ferr
	}
	return err
}
