package protocol

// ProtocolVersion represents a protocol version as major.minor.
type ProtocolVersion struct {
	Major uint8
	Minor uint8
}

// CurrentVersion is the current protocol version.
var CurrentVersion = ProtocolVersion{Major: 1, Minor: 0}

// ServerHello is the first frame a client receives. It is followed by a
// FlagFull patches frame holding the current panel.
type ServerHello struct {
	Version  ProtocolVersion
	ClientID string
	Seq      uint64 // Sequence number of the full frame that follows
}

// EncodeServerHello encodes a ServerHello to bytes.
func EncodeServerHello(sh *ServerHello) []byte {
	e := NewEncoder()
	e.WriteByte(sh.Version.Major)
	e.WriteByte(sh.Version.Minor)
	e.WriteString(sh.ClientID)
	e.WriteUvarint(sh.Seq)
	return e.Bytes()
}

// DecodeServerHello decodes a ServerHello from bytes.
func DecodeServerHello(data []byte) (*ServerHello, error) {
	d := NewDecoder(data)

	major, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	minor, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	id, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}

	return &ServerHello{
		Version:  ProtocolVersion{Major: major, Minor: minor},
		ClientID: id,
		Seq:      seq,
	}, nil
}
