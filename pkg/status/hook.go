package status

import "github.com/sirupsen/logrus"

// ComponentField is the logrus field naming the emitting component.
const ComponentField = "component"

// Hook mirrors log entries of one component into a Log
type Hook struct {
	log       *Log
	component string
	levels    []logrus.Level
}

// NewHook creates a hook that copies info-and-above entries tagged with
// component into log.
func NewHook(log *Log, component string) *Hook {
	return &Hook{
		log:       log,
		component: component,
		levels: []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
			logrus.WarnLevel,
			logrus.InfoLevel,
		},
	}
}

// Ensure Hook implements logrus.Hook
var _ logrus.Hook = (*Hook)(nil)

// Levels implements logrus.Hook
func (h *Hook) Levels() []logrus.Level {
	return h.levels
}

// Fire implements logrus.Hook
func (h *Hook) Fire(entry *logrus.Entry) error {
	if c, _ := entry.Data[ComponentField].(string); c != h.component {
		return nil
	}
	h.log.Append(entry.Message)
	return nil
}
