package log

import "log/slog"

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldURL        = "url"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldAttempt    = "attempt"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldCollection = "collection"
	FieldEntity     = "entity"
	FieldEntityID   = "entity_id"
	FieldGeneration = "generation"
	FieldUserID     = "user_id"
	FieldSelector   = "selector"
	FieldCount      = "count"
	FieldStatus     = "status"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentEngine  = "engine"
	ComponentRest    = "rest"
	ComponentMemory  = "memory"
	ComponentJournal = "journal"
	ComponentEvents  = "events"
	ComponentExport  = "export"
	ComponentFakeAPI = "fakeapi"
	ComponentCache   = "cache"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpReport   = "report"
	OpLogin    = "login"
	OpRegister = "register"
	OpAddFunds = "add_funds"
	OpValidate = "validate"
	OpExport   = "export"
	OpPublish  = "publish"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithError adds the error text; nil errors add nothing.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithCollection tags a record with the collection and the generation of
// the fetch that produced it.
func (f LogFields) WithCollection(collection string, generation uint64) LogFields {
	f[FieldCollection] = collection
	f[FieldGeneration] = generation
	return f
}

func (f LogFields) WithEntity(entity, id string) LogFields {
	f[FieldEntity] = entity
	if id != "" {
		f[FieldEntityID] = id
	}
	return f
}

func (f LogFields) WithUser(userID string) LogFields {
	f[FieldUserID] = userID
	return f
}

func (f LogFields) WithCount(n int) LogFields {
	f[FieldCount] = n
	return f
}

func (f LogFields) WithSelector(selector string) LogFields {
	f[FieldSelector] = selector
	return f
}

func (f LogFields) WithHTTPRequest(method, url string) LogFields {
	f[FieldMethod] = method
	f[FieldURL] = url
	return f
}

func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}

// StatusLevel picks the level for an HTTP exchange: warn for 4xx, error for
// 5xx and transport failures (status 0).
func StatusLevel(status int) slog.Level {
	switch {
	case status == 0 || status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
