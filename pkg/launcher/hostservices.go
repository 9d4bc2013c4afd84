package launcher

import (
	"github.com/sirupsen/logrus"

	"github.com/hpcdesk/launchpad/pkg/history"
	"github.com/hpcdesk/launchpad/pkg/session"
)

// hostServices backs the callbacks a running handler may invoke. Both
// are best-effort from the handler's point of view: failures are logged
// on the host side and never propagated back into the handler.
type hostServices struct {
	sessions *session.Registry
	recorder *history.Recorder
	logger   *logrus.Logger
}

func (h *hostServices) RegisterStartedSession(pid int, label string, pgid int) error {
	if err := h.sessions.Add(pid, label, pgid); err != nil {
		h.logger.WithError(err).Warn("handler session not recorded")
	}
	return nil
}

func (h *hostServices) RecordHistory(entry history.Entry) error {
	if err := h.recorder.Record(entry); err != nil {
		h.logger.WithError(err).Warn("history entry not recorded")
	}
	return nil
}
