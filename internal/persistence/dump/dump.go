// Package dump writes episode traces as zstd-compressed JSONL, one file per
// dumped episode. Mirrors the engine-side trace dumps trainers expect:
// full-episode dumps, goal-only dumps, and episode sub-sampling.
package dump

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"pitchcraft.ai/internal/env"
)

type Options struct {
	// Dir is the traces directory; created on first write.
	Dir string
	// FullEpisodes dumps every episode.
	FullEpisodes bool
	// GoalDumps dumps only episodes in which either side scored.
	GoalDumps bool
	// Frequency keeps every Nth episode (1 = all). Applies on top of the
	// two selectors above.
	Frequency int
}

// Writer implements env.TraceLogger. Entries are buffered per episode and
// flushed when the terminal step arrives, so goal-only selection can look at
// the final score.
type Writer struct {
	opts Options

	mu       sync.Mutex
	episode  int
	id       string
	buf      []any
	hasGoal  bool
	finished bool
}

func NewWriter(opts Options) *Writer {
	if opts.Frequency <= 0 {
		opts.Frequency = 1
	}
	return &Writer{opts: opts, finished: true}
}

func (w *Writer) WriteEpisodeStart(e env.EpisodeStartTrace) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.finished {
		// Previous episode was abandoned mid-way (reset without a
		// terminal step); dump what we have.
		if err := w.flushLocked(); err != nil {
			return err
		}
	}
	w.episode++
	w.id = e.EpisodeID
	w.buf = w.buf[:0]
	w.hasGoal = false
	w.finished = false
	w.buf = append(w.buf, e)
	return nil
}

func (w *Writer) WriteStep(e env.StepTrace) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, e)
	if e.ScoreLeft > 0 || e.ScoreRight > 0 {
		w.hasGoal = true
	}
	if e.Terminated || e.Truncated {
		w.finished = true
		return w.flushLocked()
	}
	return nil
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.finished {
		return nil
	}
	w.finished = true
	return w.flushLocked()
}

func (w *Writer) flushLocked() error {
	defer func() { w.buf = w.buf[:0] }()

	if !w.opts.FullEpisodes && !(w.opts.GoalDumps && w.hasGoal) {
		return nil
	}
	if w.episode%w.opts.Frequency != 0 {
		return nil
	}
	if len(w.buf) == 0 || w.id == "" {
		return nil
	}

	if err := os.MkdirAll(w.opts.Dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(w.opts.Dir, fmt.Sprintf("episode-%s.jsonl.zst", w.id))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	bw := bufio.NewWriterSize(enc, 128*1024)

	for _, v := range w.buf {
		b, err := json.Marshal(v)
		if err != nil {
			continue
		}
		if _, err := bw.Write(b); err != nil {
			break
		}
		_ = bw.WriteByte('\n')
	}

	var err1 error
	if err := bw.Flush(); err != nil {
		err1 = err
	}
	if err := enc.Close(); err != nil && err1 == nil {
		err1 = err
	}
	if err := f.Close(); err != nil && err1 == nil {
		err1 = err
	}
	return err1
}

// Read loads every entry of a dumped episode (for tooling and tests).
func Read(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []json.RawMessage
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for sc.Scan() {
		line := append([]byte(nil), sc.Bytes()...)
		if len(line) == 0 {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}
