package protocol

import (
	"errors"
	"fmt"

	"github.com/hardfox-dev/hardfox/pkg/vtree"
)

// ErrInvalidPatchOp is returned when a patch carries an unknown op code.
var ErrInvalidPatchOp = errors.New("protocol: invalid patch op")

// PatchesFrame is a batch of patches from one render, in application order.
type PatchesFrame struct {
	Seq     uint64
	Patches []vtree.Patch
}

// EncodePatches encodes a patches frame to bytes.
func EncodePatches(pf *PatchesFrame) ([]byte, error) {
	e := NewEncoder()
	if err := EncodePatchesTo(e, pf); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// EncodePatchesTo encodes a patches frame using the provided encoder.
func EncodePatchesTo(e *Encoder, pf *PatchesFrame) error {
	e.WriteUvarint(pf.Seq)
	e.WriteUvarint(uint64(len(pf.Patches)))
	for i := range pf.Patches {
		if err := encodePatch(e, &pf.Patches[i]); err != nil {
			return fmt.Errorf("patch %d (%s): %w", i, pf.Patches[i].Key, err)
		}
	}
	return nil
}

func encodePatch(e *Encoder, p *vtree.Patch) error {
	e.WriteByte(byte(p.Op))
	e.WriteString(p.Key)
	e.WriteByte(byte(p.Type))
	e.WriteString(string(p.Handle))
	e.WriteSvarint(int64(p.Index))
	e.WriteString(p.After)

	switch p.Op {
	case vtree.OpCreate:
		return encodeProps(e, p.Props)
	case vtree.OpUpdate:
		e.WriteUvarint(uint64(len(p.Changes)))
		for _, c := range p.Changes {
			e.WriteString(c.Name)
			if err := EncodeValue(e, c.Old); err != nil {
				return fmt.Errorf("change %s: %w", c.Name, err)
			}
			if err := EncodeValue(e, c.New); err != nil {
				return fmt.Errorf("change %s: %w", c.Name, err)
			}
		}
	}
	return nil
}

// DecodePatches decodes a patches frame from bytes.
func DecodePatches(data []byte) (*PatchesFrame, error) {
	d := NewDecoder(data)
	return DecodePatchesFrom(d)
}

// DecodePatchesFrom decodes a patches frame from a decoder.
func DecodePatchesFrom(d *Decoder) (*PatchesFrame, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}

	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}

	patches := make([]vtree.Patch, count)
	for i := range patches {
		if err := decodePatch(d, &patches[i]); err != nil {
			return nil, fmt.Errorf("patch %d: %w", i, err)
		}
	}

	return &PatchesFrame{Seq: seq, Patches: patches}, nil
}

func decodePatch(d *Decoder, p *vtree.Patch) error {
	op, err := d.ReadByte()
	if err != nil {
		return err
	}
	p.Op = vtree.PatchOp(op)
	if p.Op.String() == "Unknown" {
		return fmt.Errorf("%w: 0x%02x", ErrInvalidPatchOp, op)
	}
	if p.Key, err = d.ReadString(); err != nil {
		return err
	}
	typ, err := d.ReadByte()
	if err != nil {
		return err
	}
	p.Type = vtree.NodeType(typ)
	handle, err := d.ReadString()
	if err != nil {
		return err
	}
	p.Handle = vtree.Handle(handle)
	index, err := d.ReadSvarint()
	if err != nil {
		return err
	}
	p.Index = int(index)
	if p.After, err = d.ReadString(); err != nil {
		return err
	}

	switch p.Op {
	case vtree.OpCreate:
		p.Props, err = decodeProps(d, p.Type)
		return err
	case vtree.OpUpdate:
		count, err := d.ReadCollectionCount()
		if err != nil {
			return err
		}
		p.Changes = make([]vtree.Change, count)
		for i := range p.Changes {
			c := &p.Changes[i]
			if c.Name, err = d.ReadString(); err != nil {
				return err
			}
			if c.Old, err = DecodeValue(d); err != nil {
				return err
			}
			if c.New, err = DecodeValue(d); err != nil {
				return err
			}
		}
	}
	return nil
}
