package logging

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldGameID     = "game_id"
	FieldAction     = "action"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldRequestID  = "request_id"
	FieldFetchSeq   = "fetch_seq"
	FieldUser       = "user"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
)
