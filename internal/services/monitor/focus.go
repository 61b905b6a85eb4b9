package monitor

import (
	"time"

	"github.com/vshulcz/focuswatch/internal/domain"
)

// focusDebouncer announces a label only after it held for a full window.
// changedAt is nil exactly when no window is open.
type focusDebouncer struct {
	lastLabel *string
	changedAt *time.Time
	window    time.Duration
}

// observe feeds one successful reading taken at now.
func (d *focusDebouncer) observe(label string, now time.Time) (domain.FocusLabel, bool) {
	if d.lastLabel == nil || *d.lastLabel != label {
		l, at := label, now
		d.lastLabel = &l
		d.changedAt = &at
		return "", false
	}
	if d.changedAt == nil || now.Sub(*d.changedAt) < d.window {
		return "", false
	}
	d.changedAt = nil
	return domain.CoarseFocus(label), true
}

func (d *focusDebouncer) reset() {
	d.lastLabel = nil
	d.changedAt = nil
}
