package devserver

// MessageType is the type field of live channel messages.
type MessageType string

// Server to client.
const (
	// TypeInit carries the full document when a connection opens.
	TypeInit MessageType = "init"

	// TypeReplace carries a node replacement. Target is the node path
	// ("0/2/1") under the body.
	TypeReplace MessageType = "replace"

	// TypeNavigate reports a location change.
	TypeNavigate MessageType = "navigate"

	// TypeReload asks the client to reload the page.
	TypeReload MessageType = "reload"

	// TypeError reports a rejected client message.
	TypeError MessageType = "error"
)

// Client to server.
const (
	// TypeClick clicks the node at Target.
	TypeClick MessageType = "click"

	// TypeBack and TypeForward traverse history.
	TypeBack    MessageType = "back"
	TypeForward MessageType = "forward"

	// A client TypeNavigate navigates to Href, replacing the current
	// entry when Replace is set.
)

// Message is exchanged over the live websocket.
type Message struct {
	Type    MessageType `json:"type"`
	Target  string      `json:"target,omitempty"`
	HTML    string      `json:"html,omitempty"`
	Href    string      `json:"href,omitempty"`
	Replace bool        `json:"replace,omitempty"`
	Error   string      `json:"error,omitempty"`
}
