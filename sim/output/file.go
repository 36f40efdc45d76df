package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vitalsim/vitalsim/sim"
)

// FileSink appends readings to one file per label under a base directory
// (label "ECG" goes to <base>/ECG.txt, shared by all patients). Each Deliver
// reopens the target in append mode and closes it again, so no handles
// outlive the call. Directory creation is attempted on every call and
// already-exists is not an error.
type FileSink struct {
	baseDir string

	// label -> resolved path, populated with compute-if-absent semantics:
	// the first caller for a label wins, all others reuse its path.
	paths sync.Map
}

// NewFileSink creates a FileSink rooted at baseDir.
func NewFileSink(baseDir string) *FileSink {
	return &FileSink{baseDir: baseDir}
}

// Name implements sim.Sink.
func (f *FileSink) Name() string { return "file" }

// Deliver appends one formatted line to the label's file.
func (f *FileSink) Deliver(r sim.Reading) error {
	if err := os.MkdirAll(f.baseDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", f.baseDir, err)
	}

	p, _ := f.paths.LoadOrStore(r.Label, filepath.Join(f.baseDir, r.Label+".txt"))
	path := p.(string)

	fh, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	_, werr := fmt.Fprintln(fh, r.String())
	cerr := fh.Close()
	if werr != nil {
		return fmt.Errorf("write %s: %w", path, werr)
	}
	if cerr != nil {
		return fmt.Errorf("close %s: %w", path, cerr)
	}
	return nil
}

// Close implements sim.Sink. No handles are held between Deliver calls.
func (f *FileSink) Close() error { return nil }
