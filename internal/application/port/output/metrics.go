package output

import "time"

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

type MetricsPort interface {
	ObserveTool(tool string, outcome string, d time.Duration)
	IncProtocolError(kind string)
	ObserveCaptcha(outcome string, attempts int)
	IncIteration()
}
