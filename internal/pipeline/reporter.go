package pipeline

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"streamstore/internal/logging"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Side identifies which half of the pipeline reached a checkpoint.
type Side int

const (
	SideIngest Side = iota
	SidePersist
)

func (s Side) String() string {
	if s == SidePersist {
		return "persist"
	}
	return "ingest"
}

// Checkpoint is a named point in the ingest or persistence loop.
type Checkpoint int

const (
	CheckpointStart Checkpoint = iota
	CheckpointStreamNext
	CheckpointPut
	CheckpointGet
	CheckpointWrite
	CheckpointTaskDone
	CheckpointJoin
	CheckpointCancel
	CheckpointFinish
)

var checkpointNames = map[Checkpoint]string{
	CheckpointStart:      "start",
	CheckpointStreamNext: "stream-next",
	CheckpointPut:        "put",
	CheckpointGet:        "get",
	CheckpointWrite:      "write",
	CheckpointTaskDone:   "task-done",
	CheckpointJoin:       "join",
	CheckpointCancel:     "cancel",
	CheckpointFinish:     "finish",
}

func (c Checkpoint) String() string {
	if name, ok := checkpointNames[c]; ok {
		return name
	}
	return fmt.Sprintf("checkpoint(%d)", int(c))
}

// Reporter receives progress markers from both sides of a session. It is
// purely diagnostic.
type Reporter interface {
	Checkpoint(label string, side Side, cp Checkpoint)
}

// NopReporter discards every checkpoint.
type NopReporter struct{}

func (NopReporter) Checkpoint(string, Side, Checkpoint) {}

// LogReporter emits each checkpoint as a trace-level log entry.
type LogReporter struct{}

func (LogReporter) Checkpoint(label string, side Side, cp Checkpoint) {
	logging.Log.WithFields(logrus.Fields{
		"label":      label,
		"side":       side.String(),
		"checkpoint": cp.String(),
	}).Trace("pipeline checkpoint")
}

// MultiReporter fans a checkpoint out to several reporters.
type MultiReporter []Reporter

func (m MultiReporter) Checkpoint(label string, side Side, cp Checkpoint) {
	for _, r := range m {
		r.Checkpoint(label, side, cp)
	}
}

// persistIndent shifts persistence tokens right so the two sides read as columns.
const persistIndent = "\t\t\t\t\t\t"

// TraceReporter prints human-readable tokens such as "-> put()". Consecutive
// tokens from the same side share a line; a side switch starts a new line, and
// persistence lines are indented.
type TraceReporter struct {
	mu       sync.Mutex
	out      io.Writer
	lastSide Side
	started  bool
	ingest   *color.Color
	persist  *color.Color
}

// NewTraceReporter writes tokens to out. Colors follow fatih/color's
// terminal detection.
func NewTraceReporter(out io.Writer) *TraceReporter {
	return &TraceReporter{
		out:      out,
		lastSide: SidePersist,
		ingest:   color.New(color.FgCyan),
		persist:  color.New(color.FgYellow),
	}
}

func (r *TraceReporter) Checkpoint(label string, side Side, cp Checkpoint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	if r.started && r.lastSide != side {
		b.WriteString("\n")
	}
	if (!r.started || r.lastSide != side) && side == SidePersist {
		b.WriteString(persistIndent)
	}
	r.started = true
	r.lastSide = side
	io.WriteString(r.out, b.String())

	c := r.ingest
	if side == SidePersist {
		c = r.persist
	}
	c.Fprint(r.out, token(label, cp)+" ")
}

func token(label string, cp Checkpoint) string {
	switch cp {
	case CheckpointStart:
		return label + ": Starting"
	case CheckpointFinish:
		return label + ": Done"
	case CheckpointStreamNext:
		return "-> stream().next()"
	case CheckpointTaskDone:
		return "-> task_done()"
	default:
		return "-> " + cp.String() + "()"
	}
}
