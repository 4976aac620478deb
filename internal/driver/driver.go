// Package driver folds classified pahole lines into aggregates and
// writes their diagrams.
package driver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"

	"github.com/skdltmxn/paholefmt/internal/classify"
	"github.com/skdltmxn/paholefmt/internal/render"
	"github.com/skdltmxn/paholefmt/layout"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1024 * 1024

// State is the position of the driver within the input.
type State uint8

const (
	Idle State = iota
	Collecting
	Skipping
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Collecting:
		return "collecting"
	case Skipping:
		return "skipping"
	default:
		return "unknown"
	}
}

// Options configures a Driver.
type Options struct {
	Render render.Options

	// KeepGoing logs a failed block and continues with the next one
	// instead of stopping the run.
	KeepGoing bool

	// Logger receives warnings. Nil discards them.
	Logger *log.Logger
}

// Stats counts what happened to the blocks seen so far.
type Stats struct {
	Rendered int // Blocks written to the output
	Failed   int // Blocks rejected with an error
	Dropped  int // Blocks replaced or left open at end of input
}

// Driver accumulates one aggregate at a time and renders it when its
// closing line is seen. It is not safe for concurrent use.
type Driver struct {
	w     io.Writer
	opts  Options
	log   *log.Logger
	state State
	cur   layout.Aggregate
	stats Stats
}

// New returns a Driver writing diagrams to w.
func New(w io.Writer, opts Options) *Driver {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Driver{w: w, opts: opts, log: logger}
}

// State returns the current state.
func (d *Driver) State() State { return d.state }

// Stats returns the block counters.
func (d *Driver) Stats() Stats { return d.stats }

// Line feeds one line of input. It returns an error for a failed block
// unless KeepGoing is set, and for write failures.
func (d *Driver) Line(line string) error {
	ev := classify.Classify(line)
	switch ev.Kind {
	case classify.StructStart, classify.UnionStart:
		d.start(ev)
	case classify.BlockEnd:
		return d.end()
	case classify.FieldDecl:
		return d.field(ev.Field)
	case classify.HoleDecl:
		if d.state == Collecting {
			d.cur.AddHole(ev.Field.Size)
		}
	}
	return nil
}

func (d *Driver) start(ev classify.Event) {
	if d.state == Collecting {
		d.log.Printf("warning: %s %s is not closed, discarding it for %s %s",
			d.cur.Kind(), d.cur.Name(), ev.Keyword, ev.Name)
		d.stats.Dropped++
	}

	switch ev.Keyword {
	case "class":
		d.cur = layout.NewClass(ev.Name)
	case "union":
		d.cur = layout.NewUnion(ev.Name)
	default:
		d.cur = layout.NewStruct(ev.Name)
	}
	d.state = Collecting
}

func (d *Driver) field(f layout.Field) error {
	if d.state != Collecting {
		return nil
	}
	switch cur := d.cur.(type) {
	case *layout.Struct:
		if err := cur.Add(f); err != nil {
			return d.fail(err)
		}
	case *layout.Union:
		cur.Add(f)
	}
	return nil
}

func (d *Driver) end() error {
	switch d.state {
	case Skipping:
		d.state = Idle
		return nil
	case Idle:
		return nil
	}

	out, err := render.Aggregate(d.cur, d.opts.Render)
	if err != nil {
		if err := d.fail(err); err != nil {
			return err
		}
		d.state = Idle
		return nil
	}
	d.cur = nil
	d.state = Idle

	if _, err := io.WriteString(d.w, out+"\n"); err != nil {
		return fmt.Errorf("driver: failed to write output: %w", err)
	}
	d.stats.Rendered++
	return nil
}

// fail records a block error. In keep-going mode the block is skipped
// and nil is returned.
func (d *Driver) fail(err error) error {
	d.stats.Failed++
	d.cur = nil
	if !d.opts.KeepGoing {
		d.state = Idle
		return err
	}
	d.log.Printf("error: %v", err)
	d.state = Skipping
	return nil
}

// Run feeds every line of r to the driver. It stops early when ctx is
// done. The driver state carries over between calls, so several inputs
// form one stream.
func (d *Driver) Run(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.Line(sc.Text()); err != nil {
			return err
		}
	}
	return sc.Err()
}

// Close finishes the stream. An aggregate still open is dropped with a
// warning. In keep-going mode Close reports ErrBlocksFailed if any block
// failed.
func (d *Driver) Close() error {
	if d.state == Collecting {
		d.log.Printf("warning: input ended inside %s %s, dropping it", d.cur.Kind(), d.cur.Name())
		d.stats.Dropped++
	}
	d.cur = nil
	d.state = Idle

	if d.stats.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", layout.ErrBlocksFailed, d.stats.Failed, d.stats.Failed+d.stats.Rendered)
	}
	return nil
}
