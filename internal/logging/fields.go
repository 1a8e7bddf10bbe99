package logging

import "log/slog"

// Field keys shared by every package that logs.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldError      = "error"
	FieldProvider   = "provider"
	FieldEntityID   = "entity_id"
	FieldTeamID     = "team_id"
	FieldRequestID  = "request_id"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
)

// WithCommon appends the service and version attributes that are set.
func WithCommon(attrs []slog.Attr, service, version string) []slog.Attr {
	for _, a := range []slog.Attr{slog.String(FieldService, service), slog.String(FieldVersion, version)} {
		if a.Value.String() != "" {
			attrs = append(attrs, a)
		}
	}
	return attrs
}
