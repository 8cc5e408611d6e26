package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Phase indicates where in the bridge the error occurred
type Phase string

const (
	PhaseCreate   Phase = "create"   // lifecycle guard
	PhaseMarshal  Phase = "marshal"  // host args to guest argv
	PhaseFrame    Phase = "frame"    // frame transfer
	PhaseDispatch Phase = "dispatch" // engine to host callbacks
	PhaseLoad     Phase = "load"     // guest compilation
	PhaseLink     Phase = "link"     // import/export resolution
	PhaseRuntime  Phase = "runtime"  // guest execution
	PhaseConfig   Phase = "config"   // configuration loading
	PhaseHost     Phase = "host"     // host panel
)

// Kind says what went wrong.
type Kind string

const (
	KindAlreadyCreated Kind = "already_created"
	KindNotInitialized Kind = "not_initialized"
	KindMissingHandle  Kind = "missing_handle"
	KindMissingExport  Kind = "missing_export"
	KindSignature      Kind = "signature_mismatch"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindAllocation     Kind = "allocation"
	KindInvalidInput   Kind = "invalid_input"
	KindInvalidData    Kind = "invalid_data"
	KindUnavailable    Kind = "unavailable"
	KindInstantiation  Kind = "instantiation"
	KindTrap           Kind = "trap"
	KindNotFound       Kind = "not_found"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Symbol string
	Detail string
	Path   []string
}

// Error formats as "[phase] kind at path: detail (caused by: ...)".
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Symbol != "" {
		b.WriteString(": ")
		b.WriteString(e.Symbol)
	}

	if e.Detail != "" {
		if e.Symbol != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error with the same phase and kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder assembles an *Error field by field.
type Builder struct {
	err Error
}

// New starts a Builder for phase and kind.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path records where in a document or guest the problem sits.
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Symbol sets the guest or host symbol involved
func (b *Builder) Symbol(s string) *Builder {
	b.err.Symbol = s
	return b
}

func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the message; args are applied with fmt.Sprintf when present.
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

func (b *Builder) Build() *Error {
	return &b.err
}

// AlreadyCreated reports a second creation of a process-wide singleton
func AlreadyCreated(what string) *Error {
	return &Error{
		Phase:  PhaseCreate,
		Kind:   KindAlreadyCreated,
		Detail: fmt.Sprintf("%s already created in this process", what),
	}
}

// NotInitialized reports use of component before it was created.
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// MissingHandle reports a host operation that was never bound
func MissingHandle(operation string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindMissingHandle,
		Symbol: operation,
		Detail: "host operation not bound",
	}
}

// MissingExport reports a required guest export that is absent
func MissingExport(name string) *Error {
	return &Error{
		Phase:  PhaseLink,
		Kind:   KindMissingExport,
		Symbol: name,
		Detail: "required guest export not found",
	}
}

// SignatureMismatch reports a guest function whose core signature differs from the ABI
func SignatureMismatch(name, want, got string) *Error {
	return &Error{
		Phase:  PhaseLink,
		Kind:   KindSignature,
		Symbol: name,
		Detail: fmt.Sprintf("want %s, got %s", want, got),
	}
}

// AllocationFailed reports an allocator that returned no memory.
func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// OutOfBounds reports a guest memory access past the end of memory.
func OutOfBounds(phase Phase, offset, length, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("range [%d, %d) outside memory of %d bytes", offset, uint64(offset)+uint64(length), size),
		Value:  offset,
	}
}

// Unavailable reports a transient resource that could not be obtained
func Unavailable(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnavailable,
		Detail: what,
	}
}

// InvalidInput reports a bad argument from the caller.
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidData reports malformed input data located at path.
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// NotFound reports a named item that does not exist.
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Wrap attaches phase, kind and detail to cause.
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load reports a guest that could not be read or compiled.
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseLink,
		Kind:   KindInstantiation,
		Detail: "instantiate guest",
		Cause:  cause,
	}
}

// Trap wraps an error raised while the guest was executing an export
func Trap(export string, cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindTrap,
		Symbol: export,
		Cause:  cause,
	}
}

// UnresolvedImport represents a single guest import the bridge cannot satisfy
type UnresolvedImport struct {
	Module string // e.g., "env"
	Name   string // e.g., "I_GetSound"
}

// UnresolvedImportsError is returned when a guest imports functions the bridge does not provide
type UnresolvedImportsError struct {
	Imports []UnresolvedImport
}

// NewUnresolvedImportsError parses "module#name" keys.
func NewUnresolvedImportsError(imports []string) *UnresolvedImportsError {
	result := &UnresolvedImportsError{
		Imports: make([]UnresolvedImport, 0, len(imports)),
	}
	for _, imp := range imports {
		mod, name := parseImportKey(imp)
		result.Imports = append(result.Imports, UnresolvedImport{
			Module: mod,
			Name:   name,
		})
	}
	return result
}

func parseImportKey(key string) (module, name string) {
	mod, name, found := strings.Cut(key, "#")
	if found {
		return mod, name
	}
	return key, ""
}

func (e *UnresolvedImportsError) Error() string {
	if len(e.Imports) == 0 {
		return "[link] missing_import: no imports specified"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("guest imports %d unresolved function(s):\n", len(e.Imports)))

	// Group by module for cleaner output
	byMod := make(map[string][]string)
	var modOrder []string
	for _, imp := range e.Imports {
		if _, exists := byMod[imp.Module]; !exists {
			modOrder = append(modOrder, imp.Module)
		}
		byMod[imp.Module] = append(byMod[imp.Module], imp.Name)
	}

	for _, mod := range modOrder {
		names := byMod[mod]
		sort.Strings(names)
		b.WriteString("\n  ")
		b.WriteString(mod)
		b.WriteString(":\n")
		for _, name := range names {
			b.WriteString("    - ")
			b.WriteString(name)
			b.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (e *UnresolvedImportsError) Is(target error) bool {
	_, ok := target.(*UnresolvedImportsError)
	return ok
}
