package media

import (
	"fmt"

	"go.uber.org/multierr"
)

// Summary aggregates the outcome of one sync run. Counts are per file:
// succeeded operations, failed operations (errors collected), and entries
// deliberately skipped (scan warnings, already-present files, assets with
// nothing to fetch).
type Summary struct {
	Succeeded int
	Failed    int
	Skipped   int
	Warnings  []ScanWarning

	err error
}

func NewSummary() *Summary {
	return &Summary{}
}

func (s *Summary) Succeed() { s.Succeeded++ }

func (s *Summary) Skip() { s.Skipped++ }

// Fail records one failed file together with its error.
func (s *Summary) Fail(subject string, err error) {
	s.Failed++
	s.err = multierr.Append(s.err, fmt.Errorf("%s: %w", subject, err))
}

// FailSet records a whole set that could not be processed; every one of its
// n files counts as failed.
func (s *Summary) FailSet(key SetKey, n int, err error) {
	s.Failed += n
	s.err = multierr.Append(s.err, fmt.Errorf("set %s: %w", key, err))
}

// AddError records an error that is not tied to a file count, such as a
// failed reorder call.
func (s *Summary) AddError(err error) {
	s.err = multierr.Append(s.err, err)
}

// Err returns every collected error, combined.
func (s *Summary) Err() error { return s.err }

// Ok reports whether the run finished without failures.
func (s *Summary) Ok() bool { return s.Failed == 0 && s.err == nil }

func (s *Summary) String() string {
	return fmt.Sprintf("succeeded %d, failed %d, skipped %d", s.Succeeded, s.Failed, s.Skipped)
}

// absorbScan copies scan warnings into the summary, counting each ignored
// entry as skipped.
func (s *Summary) absorbScan(ix *LocalIndex) {
	s.Warnings = append(s.Warnings, ix.Warnings...)
	s.Skipped += len(ix.Warnings)
}
