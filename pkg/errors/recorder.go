package errors

import "sync"

// Recorder is an ErrorHandler that keeps everything it receives.
// It is intended for tests and for hosts that surface diagnostics in a UI.
type Recorder struct {
	mu          sync.Mutex
	errs        []*Error
	panics      []*PanicError
	diagnostics []*Diagnostic
}

// HandleError records err.
func (r *Recorder) HandleError(err *Error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

// HandlePanic records err.
func (r *Recorder) HandlePanic(err *PanicError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panics = append(r.panics, err)
}

// HandleDiagnostic records d.
func (r *Recorder) HandleDiagnostic(d *Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diagnostics = append(r.diagnostics, d)
}

// Errors returns a copy of the recorded errors.
func (r *Recorder) Errors() []*Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Error(nil), r.errs...)
}

// Panics returns a copy of the recorded panics.
func (r *Recorder) Panics() []*PanicError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*PanicError(nil), r.panics...)
}

// Diagnostics returns a copy of the recorded diagnostics.
func (r *Recorder) Diagnostics() []*Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Diagnostic(nil), r.diagnostics...)
}

// Install makes r the global handler and returns a func restoring the
// previous one.
func (r *Recorder) Install() (restore func()) {
	prev := SetHandler(r)
	return func() { SetHandler(prev) }
}
