package form

import (
	"maps"
	"sync"

	"github.com/dmitrymomot/carematch/pkg/sanitizer"
	"github.com/dmitrymomot/carematch/pkg/validator"
)

// Form is safe for concurrent use; deferred blurs may run on other goroutines.
type Form struct {
	mu        sync.Mutex
	schema    *validator.RecordSchema
	formatter func(field string) sanitizer.InputFormatter
	scheduler Scheduler

	values  validator.Record
	touched map[string]bool
	errors  validator.Result
}

// Option configures a Form.
type Option func(*Form)

// WithScheduler sets where deferred blurs run. Defaults to TimerScheduler.
func WithScheduler(s Scheduler) Option {
	return func(f *Form) {
		if s != nil {
			f.scheduler = s
		}
	}
}

// WithFormatters replaces the per-field formatter lookup.
// Defaults to sanitizer.FormatterFor.
func WithFormatters(lookup func(field string) sanitizer.InputFormatter) Option {
	return func(f *Form) {
		if lookup != nil {
			f.formatter = lookup
		}
	}
}

// WithValues seeds the committed values.
func WithValues(values map[string]string) Option {
	return func(f *Form) {
		maps.Copy(f.values, values)
	}
}

// WithTouched marks fields as already touched.
func WithTouched(fields ...string) Option {
	return func(f *Form) {
		for _, name := range fields {
			f.touched[name] = true
		}
	}
}

// New creates a form over schema with empty values and no touched fields.
func New(schema *validator.RecordSchema, opts ...Option) *Form {
	f := &Form{
		schema:    schema,
		formatter: sanitizer.FormatterFor,
		scheduler: TimerScheduler{},
		values:    validator.Record{},
		touched:   map[string]bool{},
		errors:    validator.Result{},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Input formats raw against the current value of field, commits it and
// schedules a blur of field. It returns the committed value. No validation
// happens before Input returns.
func (f *Form) Input(field, raw string) string {
	f.mu.Lock()
	committed := f.formatter(field)(f.values[field], raw)
	f.values[field] = committed
	f.mu.Unlock()

	f.scheduler.Defer(func() { f.Blur(field) })

	return committed
}

// Change commits raw as is, without formatting or scheduling.
func (f *Form) Change(field, raw string) {
	f.mu.Lock()
	f.values[field] = raw
	f.mu.Unlock()
}

// Blur marks field as touched and re-validates that field only.
func (f *Form) Blur(field string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.touched[field] = true

	next := f.errors.Clone()
	if msg, ok := f.schema.ValidateField(field, f.values); ok {
		delete(next, field)
	} else {
		next[field] = msg
	}
	f.errors = next
}

// Submit touches every schema field and validates the full record.
// It reports whether the record is valid.
func (f *Form) Submit() (validator.Result, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, name := range f.schema.Fields() {
		f.touched[name] = true
	}

	res := f.schema.Validate(f.values)
	f.errors = res

	return res.Clone(), res.Valid()
}

// Errors returns the visible errors.
func (f *Form) Errors() validator.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors.Clone()
}

// Validate evaluates every field regardless of touched state. Visible errors
// are left unchanged.
func (f *Form) Validate() validator.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.schema.Validate(f.values)
}

// Values returns a copy of the committed values.
func (f *Form) Values() validator.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.values)
}

// Value returns the committed value of field.
func (f *Form) Value(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[field]
}

// Touched reports whether field has been blurred or submitted.
func (f *Form) Touched(field string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.touched[field]
}

// TouchedFields returns the touched field names in schema order, followed by
// any touched names the schema does not declare.
func (f *Form) TouchedFields() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, len(f.touched))
	seen := make(map[string]bool, len(f.touched))
	for _, name := range f.schema.Fields() {
		if f.touched[name] {
			out = append(out, name)
			seen[name] = true
		}
	}
	for name, ok := range f.touched {
		if ok && !seen[name] {
			out = append(out, name)
		}
	}
	return out
}

// Reset clears values, touched state and errors.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values = validator.Record{}
	f.touched = map[string]bool{}
	f.errors = validator.Result{}
}
