package monitor

// LinkState is the debounced view of the metrics source.
type LinkState uint8

const (
	LinkDisconnected LinkState = iota
	LinkConnected
)

func (s LinkState) String() string {
	if s == LinkConnected {
		return "connected"
	}
	return "disconnected"
}

// connectivity turns raw poll outcomes into connected/disconnected transitions.
// Callers hold Service.mu.
type connectivity struct {
	threshold          uint
	failures           uint
	state              LinkState
	disconnectNotified bool
}

// success resets the failure streak and reports whether the link just came up.
func (c *connectivity) success() (connected bool) {
	c.failures = 0
	if c.state == LinkConnected {
		return false
	}
	c.state = LinkConnected
	c.disconnectNotified = false
	return true
}

// failure records one failed poll. dropped is true on the Connected to
// Disconnected edge; notify is true the first time the episode is reported.
func (c *connectivity) failure() (dropped, notify bool) {
	c.failures++
	if c.failures < c.threshold {
		return false, false
	}
	if c.state == LinkConnected {
		c.state = LinkDisconnected
		dropped = true
	}
	if !c.disconnectNotified {
		c.disconnectNotified = true
		notify = true
	}
	return dropped, notify
}
