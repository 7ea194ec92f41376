package metrics

import "time"

// Outcome labels the result of a single render.
type Outcome string

const (
	OutcomeOK            Outcome = "ok"
	OutcomeEncodingError Outcome = "encoding_error"
	OutcomeError         Outcome = "error"
)

// Recorder receives render and HTTP observations. Implementations must be
// safe for concurrent use.
type Recorder interface {
	ObserveRender(d time.Duration, headings int, outcome Outcome)
	IncHTTPRequest(route string, status int)
}

// NoopRecorder discards everything. It is the default when metrics are off.
type NoopRecorder struct{}

func (NoopRecorder) ObserveRender(time.Duration, int, Outcome) {}
func (NoopRecorder) IncHTTPRequest(string, int)                {}
