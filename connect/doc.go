// Package connect implements the create-relationship control: the operator
// picks two nodes, names the relationship and chooses whether it is double
// sided, and the control performs a single POST /createRel exchange with the
// graph store.
//
// The control never mutates host state directly. Every effect is an Event
// delivered to a Sink owned by the host:
//
//	Hidden              the control closed
//	ResetRequested      the host should drop its pending node selection
//	RelationshipCreated the store accepted the relationship
//	NoticeChanged       the transient error notice changed ("" clears it)
//
// Error notices go through a NoticeBoard, which keeps one cancellable clear
// timer so a stale timer never erases a newer notice.
package connect
