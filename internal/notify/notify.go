package notify

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// LogNotifier writes user-facing messages to the log. It is the sink used when no
// display layer is attached to the process.
type LogNotifier struct {
	log *logrus.Entry
}

func NewLogNotifier(log *logrus.Entry) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyError(message string) {
	n.log.WithField("notification", "error").Warn(message)
}

// Recorder keeps every message it receives.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *Recorder) NotifyError(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Messages returns a copy of the recorded messages in arrival order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}

// Drain returns the recorded messages and forgets them.
func (r *Recorder) Drain() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.messages
	r.messages = nil
	return out
}

// Fanout forwards each message to every sink in order.
type Fanout []interface{ NotifyError(string) }

func (f Fanout) NotifyError(message string) {
	for _, n := range f {
		n.NotifyError(message)
	}
}
