package domain

// Status is the read-only summary exposed to collaborators.
// SubscriberCount covers remote clients only; local sinks are counted apart.
type Status struct {
	Subscribers     []SubscriberStats `json:"subscribers,omitempty"`
	SubscriberCount int               `json:"subscriber_count"`
	LocalSinks      int               `json:"local_sinks"`
	MessagesEmitted uint64            `json:"messages_emitted"`
	Connected       bool              `json:"connected"`
}

// SubscriberStats describes the buffer usage of one subscriber. Local marks the
// in-process sink.
type SubscriberStats struct {
	ID       uint64 `json:"id"`
	Buffered int    `json:"buffered"`
	Capacity int    `json:"capacity"`
	Dropped  uint64 `json:"dropped"`
	Local    bool   `json:"local,omitempty"`
}
