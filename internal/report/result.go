package report

// Result is the tagged value every caller of the core receives: either a
// report or a human-readable reason. Errors never cross this boundary as
// panics or raw error types.
type Result struct {
    OK     bool   `json:"ok"`
    Error  string `json:"error,omitempty"`
    Report any    `json:"report,omitempty"`
}

func Success(report any) Result { return Result{OK: true, Report: report} }

func Failure(err error) Result {
    if err == nil { return Result{OK: false, Error: "unknown failure"} }
    return Result{OK: false, Error: err.Error()}
}
