package logger

import "time"

// Standard field keys.
const (
	FieldComponent = "component"
	FieldService   = "service"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
	FieldStatus    = "status"
	FieldState     = "state"
	FieldCount     = "count"

	FieldOrigin = "origin"
	FieldPoolID = "pool_id"
	FieldMethod = "method"
	FieldURL    = "url"
)

// Fields builds a map from alternating key-value pairs. Non-string keys and a
// trailing odd value are dropped.
//
//	log.Debug("evicted", logger.Fields(logger.FieldOrigin, o, logger.FieldCount, n))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// DurationFields creates fields for a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldDuration:  d.Milliseconds(),
	}
}

// MergeWithError adds an error field to fields, allocating when nil.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldError] = err.Error()
	return fields
}
