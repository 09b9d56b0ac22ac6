package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRequestID carries the HTTP request identifier.
	FieldRequestID = "request_id"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to do next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldSource names an asset source (path or URL).
	FieldSource = "source"
	// FieldSequenceID identifies a practice sequence.
	FieldSequenceID = "sequence_id"
	// FieldPoseIndex is the zero-based pose position within a sequence.
	FieldPoseIndex = "pose_index"
)
