package ags

import (
	"bufio"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// ReadFile opens name, hands it to decode and closes it again on every path.
func ReadFile(name string, decode func(io.Reader) error) error {
	f, err := os.Open(name)
	if err != nil {
		return errors.Wrapf(err, "opening %s", name)
	}
	defer f.Close()
	return decode(bufio.NewReader(f))
}

// WriteFile creates name and hands a buffered writer for it to encode. When
// encode, flushing or closing fails, the partial file is removed.
func WriteFile(name string, encode func(io.Writer) error) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrapf(err, "creating %s", name)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "closing %s", name)
		}
		if err != nil {
			if rerr := os.Remove(name); rerr != nil {
				glog.Warningf("could not remove partial file %s: %v", name, rerr)
			}
		}
	}()
	bw := bufio.NewWriter(f)
	if err := encode(bw); err != nil {
		return err
	}
	return errors.Wrapf(bw.Flush(), "writing %s", name)
}
