package metrics

// Attribute keys. HTTP keys follow the OpenTelemetry semantic conventions.
const (
	AttrMethod   = "http.request.method"
	AttrPath     = "http.route"
	AttrStatus   = "http.response.status_code"
	AttrProvider = "provider"
	AttrEntity   = "entity_id"
)
