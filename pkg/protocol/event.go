package protocol

import (
	"github.com/hardfox-dev/hardfox/pkg/view"
)

// EventMessage carries one panel event from a client.
type EventMessage struct {
	Seq   uint64 // Client sequence number, echoed in logs
	Event view.Event
}

// EncodeEvent encodes an EventMessage to bytes.
func EncodeEvent(em *EventMessage) ([]byte, error) {
	e := NewEncoder()
	e.WriteUvarint(em.Seq)
	e.WriteString(string(em.Event.Kind))
	e.WriteString(em.Event.Key)
	e.WriteString(em.Event.Category)
	e.WriteString(em.Event.Query)
	if err := EncodeValue(e, em.Event.Value); err != nil {
		return nil, err
	}
	e.WriteBool(em.Event.Enabled)
	return e.Bytes(), nil
}

// DecodeEvent decodes an EventMessage from bytes.
func DecodeEvent(data []byte) (*EventMessage, error) {
	d := NewDecoder(data)
	em := &EventMessage{}

	var err error
	if em.Seq, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	kind, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	em.Event.Kind = view.EventKind(kind)
	if em.Event.Key, err = d.ReadString(); err != nil {
		return nil, err
	}
	if em.Event.Category, err = d.ReadString(); err != nil {
		return nil, err
	}
	if em.Event.Query, err = d.ReadString(); err != nil {
		return nil, err
	}
	if em.Event.Value, err = DecodeValue(d); err != nil {
		return nil, err
	}
	if em.Event.Enabled, err = d.ReadBool(); err != nil {
		return nil, err
	}
	return em, nil
}
