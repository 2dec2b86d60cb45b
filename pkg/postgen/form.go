package postgen

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// FallbackMessage is shown instead of any generation error.
const FallbackMessage = "An unexpected error occurred. Please try again later."

// State is the lifecycle of a Form.
type State int

const (
	Idle State = iota
	Generating
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Generating:
		return "generating"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Snapshot is what a UI renders. Raw errors never appear in it.
type Snapshot struct {
	State    State
	Platform Platform
	Brief    string
	Text     string
}

// PostGenerator is implemented by *Generator.
type PostGenerator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Form holds the fields of the post form and drives generation. It is safe
// for concurrent use; when submissions overlap the latest one wins.
type Form struct {
	gen PostGenerator
	log *slog.Logger

	// OnChange, when set, is called after every state change with the new
	// snapshot. It runs outside the form's lock.
	OnChange func(Snapshot)

	mu   sync.Mutex
	snap Snapshot
	seq  uint64
}

// NewForm creates an idle form. A nil logger discards log output.
func NewForm(gen PostGenerator, log *slog.Logger) *Form {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Form{
		gen:  gen,
		log:  log,
		snap: Snapshot{State: Idle, Platform: LinkedIn},
	}
}

// SetPlatform sets the selected platform.
func (f *Form) SetPlatform(p Platform) {
	f.update(func(s *Snapshot) { s.Platform = p })
}

// SetBrief sets the brief, cut to MaxBriefLength characters.
func (f *Form) SetBrief(brief string) {
	f.update(func(s *Snapshot) { s.Brief = TruncateBrief(brief) })
}

// Snapshot returns the current form state.
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

// Submit runs a generation with the current fields and blocks until it ends.
// A finished form first returns to Idle. On failure the error is logged and
// the display text is FallbackMessage. If another Submit started meanwhile,
// this result is dropped and the returned snapshot reflects the newer one.
func (f *Form) Submit(ctx context.Context) Snapshot {
	f.mu.Lock()
	if f.snap.State == Succeeded || f.snap.State == Failed {
		f.snap.State = Idle
		f.snap.Text = ""
		idle := f.snap
		f.mu.Unlock()
		f.notify(idle)
		f.mu.Lock()
	}

	f.seq++
	seq := f.seq
	f.snap.State = Generating
	f.snap.Text = ""
	req := Request{Platform: f.snap.Platform, Brief: f.snap.Brief}
	generating := f.snap
	f.mu.Unlock()

	f.notify(generating)

	text, err := f.gen.Generate(ctx, req)

	f.mu.Lock()
	if seq != f.seq {
		cur := f.snap
		f.mu.Unlock()
		return cur
	}

	if err != nil {
		f.log.ErrorContext(ctx, "post generation failed",
			"platform", req.Platform,
			"error", err,
		)
		f.snap.State = Failed
		f.snap.Text = FallbackMessage
	} else {
		f.snap.State = Succeeded
		f.snap.Text = strings.TrimSpace(text)
	}
	done := f.snap
	f.mu.Unlock()

	f.notify(done)

	return done
}

func (f *Form) update(fn func(*Snapshot)) {
	f.mu.Lock()
	fn(&f.snap)
	s := f.snap
	f.mu.Unlock()

	f.notify(s)
}

func (f *Form) notify(s Snapshot) {
	if f.OnChange != nil {
		f.OnChange(s)
	}
}
