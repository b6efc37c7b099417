package worker

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Notifier abstracts the delivery channel (email, SMS, push...).
type Notifier interface {
	Notify(subject, message string) error
}

// ConsoleNotifier logs notifications; the default sink until a real
// channel is configured.
type ConsoleNotifier struct {
	log zerolog.Logger
}

func NewConsole(log zerolog.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{log: log.With().Str("component", "notifier").Logger()}
}

func (n *ConsoleNotifier) Notify(subject, message string) error {
	n.log.Info().Str("subject", subject).Msg(message)
	return nil
}

func HumanTimeRange(startUnix, endUnix int64) string {
	st := time.Unix(startUnix, 0).Local()
	et := time.Unix(endUnix, 0).Local()
	return fmt.Sprintf("%s ~ %s", st.Format("2006-01-02 15:04"), et.Format("15:04"))
}
