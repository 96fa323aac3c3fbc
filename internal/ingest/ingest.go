// Package ingest streams roster rows from a file, stdin or a followed
// CSV that another process appends to (field collection). Completion
// always re-enters the UI as one atomic commit; this package only moves
// rows.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nxadm/tail"
)

type SourceKind string

const (
	SourceStdin  SourceKind = "stdin"
	SourceFile   SourceKind = "file"
	SourceFollow SourceKind = "follow"
)

type Options struct {
	Source SourceKind
	Path   string
}

// Row is one decoded CSV record.
type Row struct {
	Cells  []string
	Source string
	When   time.Time
}

// Read streams rows until the source is exhausted or ctx is cancelled.
// Both channels close when the stream ends. The header row is emitted
// like any other; the consumer decides whether to drop it.
func Read(ctx context.Context, opt Options) (<-chan Row, <-chan error) {
	out := make(chan Row, 256)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		switch opt.Source {
		case SourceStdin:
			readAll(ctx, os.Stdin, "stdin", out, errs)
		case SourceFile:
			f, err := os.Open(opt.Path)
			if err != nil {
				errs <- err
				return
			}
			defer f.Close()
			readAll(ctx, f, opt.Path, out, errs)
		case SourceFollow:
			follow(ctx, opt.Path, out, errs)
		default:
			errs <- errors.New("unknown source kind")
		}
	}()

	return out, errs
}

func readAll(ctx context.Context, r io.Reader, src string, out chan<- Row, errs chan<- error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return
		}
		if err != nil {
			errs <- err
			return
		}
		select {
		case <-ctx.Done():
			return
		case out <- Row{Cells: rec, Source: src, When: time.Now()}:
		}
	}
}

// follow tails from the end of the file, so only rows appended after
// the editor attached arrive. Quoted fields must not span lines in
// follow mode; each appended line is decoded on its own.
func follow(ctx context.Context, path string, out chan<- Row, errs chan<- error) {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
		Poll:      true,
		Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
	})
	if err != nil {
		errs <- err
		return
	}
	defer t.Cleanup()
	for {
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case l, ok := <-t.Lines:
			if !ok {
				return
			}
			if l.Err != nil {
				errs <- l.Err
				continue
			}
			if strings.TrimSpace(l.Text) == "" {
				continue
			}
			cells, err := decodeLine(l.Text)
			if err != nil {
				errs <- err
				continue
			}
			select {
			case out <- Row{Cells: cells, Source: path, When: time.Now()}:
			case <-ctx.Done():
				t.Stop()
				return
			}
		}
	}
}

func decodeLine(line string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(line))
	cr.FieldsPerRecord = -1
	return cr.Read()
}
