package store

import "github.com/LISSConsulting/mainloop/internal/session"

// stepRange is the [start, end) byte range of one step in the JSONL file.
// start is the offset of the first line recorded for the step (an error
// entry or the step entry itself); end is the first byte after the
// LogStep line.
type stepRange struct {
	start int64
	end   int64
}

// fileIndex maintains in-memory byte-offset bookmarks per completed step.
// It is updated by onAppend as each LogEntry is written and provides O(1)
// lookup for StepLog reads via file.ReadAt.
type fileIndex struct {
	summaries []StepSummary
	ranges    map[int]stepRange
	pending   *pendingStep
	project   string
	outcome   string
}

// pendingStep accumulates state for the step currently being written.
type pendingStep struct {
	startOffset int64
	number      int
	errors      int
}

func newFileIndex() *fileIndex {
	return &fileIndex{ranges: make(map[int]stepRange)}
}

// onAppend updates the index when a LogEntry line has been appended.
// lineOffset is the byte offset of the first byte of the written line;
// lineLen is the total bytes written (including the trailing newline).
func (idx *fileIndex) onAppend(entry session.LogEntry, lineOffset, lineLen int64) {
	if entry.Project != "" {
		idx.project = entry.Project
	}

	switch entry.Kind {
	case session.LogError:
		if entry.Step == 0 {
			return
		}
		if idx.pending == nil || idx.pending.number != entry.Step {
			if _, done := idx.ranges[entry.Step]; done {
				return
			}
			idx.pending = &pendingStep{startOffset: lineOffset, number: entry.Step}
		}
		idx.pending.errors++
	case session.LogStep:
		start := lineOffset
		errs := 0
		if idx.pending != nil && idx.pending.number == entry.Step {
			start = idx.pending.startOffset
			errs = idx.pending.errors
		}
		idx.pending = nil
		idx.ranges[entry.Step] = stepRange{start: start, end: lineOffset + lineLen}
		idx.summaries = append(idx.summaries, StepSummary{
			Number:   entry.Step,
			Event:    entry.Event,
			Duration: entry.Duration,
			Errors:   errs,
			At:       entry.Timestamp,
		})
	case session.LogTerminate:
		idx.outcome = "terminate"
	case session.LogStopped:
		idx.outcome = "stopped"
	case session.LogDone:
		if idx.outcome == "" {
			idx.outcome = "done"
		}
	}
}

func (idx *fileIndex) summary() (steps int, lastEvent string) {
	if len(idx.summaries) == 0 {
		return 0, ""
	}
	last := idx.summaries[len(idx.summaries)-1]
	return len(idx.summaries), last.Event
}
