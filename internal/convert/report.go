package convert

import "github.com/rs/zerolog"

// Reporter receives the outcome of a conversion.
type Reporter interface {
	OnSuccess(outputPath string)
	OnError(message string)
	OnWarning(message string)
}

// SuccessMessage is the text shown once an artifact has been written.
func SuccessMessage(outputPath string) string {
	return "Conversion complete. Output written to " + outputPath
}

// ErrorMessage turns a pipeline error into the text shown to the user.
func ErrorMessage(err error) string {
	return "Error: " + err.Error()
}

// LogReporter reports through a zerolog logger.
type LogReporter struct {
	Logger zerolog.Logger
}

func (r LogReporter) OnSuccess(outputPath string) {
	r.Logger.Info().Str("out", outputPath).Msg(SuccessMessage(outputPath))
}

func (r LogReporter) OnError(message string) {
	r.Logger.Error().Msg(message)
}

func (r LogReporter) OnWarning(message string) {
	r.Logger.Warn().Msg(message)
}
