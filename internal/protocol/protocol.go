// Package protocol implements the synchronous control protocol components
// use to report liveness to the host: a HEARTBEAT or DONE status frame in,
// a literal "ack" reply out, modeled on a logical REQ/REP exchange.
package protocol

import "strings"

// Status is the second field of a sync frame.
type Status string

const (
	// StatusHeartbeat reports that a component is alive and still working.
	StatusHeartbeat Status = "HEARTBEAT"
	// StatusDone reports that a component has finished all of its work.
	StatusDone Status = "DONE"
)

// Ack is the host's fixed reply to every sync frame, valid or malformed.
const Ack = "ack"

// dataDonePrefix begins the sentinel value a producer sends on a
// data-carrying bus (the data or merge socket) in place of a framed
// payload, to signal it has no further records to send. It can never
// collide with a JSON-encoded payload frame, which always begins with '{'.
// The sender's own id is tagged on after the prefix so a duplicate DONE
// from the same sender can be told apart from one source's real DONE
// racing another's.
const dataDonePrefix = "DONE:"

// DataDoneFrame returns the sentinel frame a producer identified by id
// sends on a data-carrying bus to signal it is finished.
func DataDoneFrame(id string) []byte {
	return []byte(dataDonePrefix + id)
}

// IsDataDoneFrame reports whether frame is a done sentinel rather than a
// framed payload.
func IsDataDoneFrame(frame []byte) bool {
	return strings.HasPrefix(string(frame), dataDonePrefix)
}

// ParseDataDoneFrame extracts the sender id tagged onto a done sentinel.
// It returns ok=false for any frame that is not a done sentinel.
func ParseDataDoneFrame(frame []byte) (id string, ok bool) {
	s := string(frame)
	if !strings.HasPrefix(s, dataDonePrefix) {
		return "", false
	}
	return strings.TrimPrefix(s, dataDonePrefix), true
}

// FormatSyncFrame builds the wire representation of a sync frame: the
// component id and its status joined by a colon, e.g. "FEED:HEARTBEAT".
func FormatSyncFrame(id string, status Status) string {
	return id + ":" + string(status)
}

// ParseSyncFrame splits a sync frame into its component id and status. It
// returns ok=false for any frame that doesn't split into exactly two
// colon-separated parts; callers must still reply with Ack in that case,
// per the control protocol's always-ack reply discipline.
func ParseSyncFrame(frame string) (id string, status Status, ok bool) {
	parts := strings.SplitN(frame, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], Status(parts[1]), true
}
