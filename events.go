package arbor

type listener struct {
	id    uint32
	event EventType
	fn    func(Event)
}

// CallbackHandle allows removing a registered listener.
type CallbackHandle struct {
	id   uint32
	node *Node
}

// Remove unregisters this listener so it no longer fires.
// The entry is removed from the slice to avoid nil iteration waste.
func (h CallbackHandle) Remove() {
	if h.node == nil {
		return
	}
	s := h.node.listeners
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = listener{}
			h.node.listeners = s[:len(s)-1]
			return
		}
	}
}

// On registers fn to be called synchronously whenever evt fires on n.
// Listeners run in registration order and cannot veto the mutation.
func (n *Node) On(evt EventType, fn func(Event)) CallbackHandle {
	n.nextLID++
	id := n.nextLID
	n.listeners = append(n.listeners, listener{id: id, event: evt, fn: fn})
	return CallbackHandle{id: id, node: n}
}

// fire dispatches e to n's listeners. The list is snapshotted so listeners may
// remove themselves or register new ones while dispatching.
func (n *Node) fire(e Event) {
	if len(n.listeners) == 0 {
		return
	}
	snapshot := make([]listener, len(n.listeners))
	copy(snapshot, n.listeners)
	for _, l := range snapshot {
		if l.event == e.Type {
			l.fn(e)
		}
	}
}
