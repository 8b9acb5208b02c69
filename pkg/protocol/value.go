package protocol

import (
	"errors"
	"fmt"

	"github.com/hardfox-dev/hardfox/pkg/setting"
	"github.com/hardfox-dev/hardfox/pkg/vtree"
)

// Value tags.
const (
	tagNil     byte = 0x00
	tagBool    byte = 0x01
	tagInt     byte = 0x02
	tagFloat   byte = 0x03
	tagString  byte = 0x04
	tagList    byte = 0x05
	tagSetting byte = 0x06
)

var (
	// ErrUnsupportedValue is returned when a prop value has no wire
	// representation.
	ErrUnsupportedValue = errors.New("protocol: unsupported value type")

	// ErrInvalidTag is returned when a value starts with an unknown tag.
	ErrInvalidTag = errors.New("protocol: invalid value tag")
)

// EncodeValue appends a tagged value. Integers of any signed width decode
// back as int.
func EncodeValue(e *Encoder, v any) error {
	return encodeValue(e, v, 0)
}

func encodeValue(e *Encoder, v any, depth int) error {
	if depth > MaxValueDepth {
		return ErrMaxDepthExceeded
	}
	switch val := v.(type) {
	case nil:
		e.WriteByte(tagNil)
	case bool:
		e.WriteByte(tagBool)
		e.WriteBool(val)
	case int:
		e.WriteByte(tagInt)
		e.WriteSvarint(int64(val))
	case int64:
		e.WriteByte(tagInt)
		e.WriteSvarint(val)
	case int32:
		e.WriteByte(tagInt)
		e.WriteSvarint(int64(val))
	case float64:
		e.WriteByte(tagFloat)
		e.WriteFloat64(val)
	case string:
		e.WriteByte(tagString)
		e.WriteString(val)
	case []any:
		e.WriteByte(tagList)
		e.WriteUvarint(uint64(len(val)))
		for _, item := range val {
			if err := encodeValue(e, item, depth+1); err != nil {
				return err
			}
		}
	case setting.Setting:
		e.WriteByte(tagSetting)
		return encodeSetting(e, val, depth)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
	return nil
}

// DecodeValue reads a tagged value.
func DecodeValue(d *Decoder) (any, error) {
	return decodeValue(d, 0)
}

func decodeValue(d *Decoder, depth int) (any, error) {
	if depth > MaxValueDepth {
		return nil, ErrMaxDepthExceeded
	}
	tag, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagNil:
		return nil, nil
	case tagBool:
		return d.ReadBool()
	case tagInt:
		n, err := d.ReadSvarint()
		return int(n), err
	case tagFloat:
		return d.ReadFloat64()
	case tagString:
		return d.ReadString()
	case tagList:
		count, err := d.ReadCollectionCount()
		if err != nil {
			return nil, err
		}
		list := make([]any, count)
		for i := range list {
			if list[i], err = decodeValue(d, depth+1); err != nil {
				return nil, err
			}
		}
		return list, nil
	case tagSetting:
		return decodeSetting(d, depth)
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrInvalidTag, tag)
	}
}

func encodeSetting(e *Encoder, s setting.Setting, depth int) error {
	e.WriteString(s.Key)
	if err := encodeValue(e, s.Value, depth+1); err != nil {
		return err
	}
	e.WriteString(string(s.Level))
	e.WriteString(string(s.Type))
	e.WriteString(s.Category)
	e.WriteString(s.Description)
	e.WriteUvarint(uint64(len(s.Options)))
	for _, opt := range s.Options {
		if err := encodeValue(e, opt, depth+1); err != nil {
			return err
		}
	}
	e.WriteFloat64(s.Min)
	e.WriteFloat64(s.Max)
	e.WriteFloat64(s.Step)
	return nil
}

func decodeSetting(d *Decoder, depth int) (s setting.Setting, err error) {
	if s.Key, err = d.ReadString(); err != nil {
		return s, err
	}
	if s.Value, err = decodeValue(d, depth+1); err != nil {
		return s, err
	}
	var level, typ string
	if level, err = d.ReadString(); err != nil {
		return s, err
	}
	if typ, err = d.ReadString(); err != nil {
		return s, err
	}
	s.Level, s.Type = setting.Level(level), setting.Type(typ)
	if s.Category, err = d.ReadString(); err != nil {
		return s, err
	}
	if s.Description, err = d.ReadString(); err != nil {
		return s, err
	}
	count, err := d.ReadCollectionCount()
	if err != nil {
		return s, err
	}
	if count > 0 {
		s.Options = make([]any, count)
		for i := range s.Options {
			if s.Options[i], err = decodeValue(d, depth+1); err != nil {
				return s, err
			}
		}
	}
	if s.Min, err = d.ReadFloat64(); err != nil {
		return s, err
	}
	if s.Max, err = d.ReadFloat64(); err != nil {
		return s, err
	}
	s.Step, err = d.ReadFloat64()
	return s, err
}

// encodeProps writes the fields of p. Nil props encode as zero fields.
func encodeProps(e *Encoder, p vtree.Props) error {
	var fields []vtree.Field
	if p != nil {
		fields = p.Fields()
	}
	e.WriteUvarint(uint64(len(fields)))
	for _, f := range fields {
		e.WriteString(f.Name)
		if err := EncodeValue(e, f.Value); err != nil {
			return fmt.Errorf("prop %s: %w", f.Name, err)
		}
	}
	return nil
}

func decodeProps(d *Decoder, t vtree.NodeType) (vtree.Props, error) {
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	fields := make(vtree.PropList, count)
	for i := range fields {
		if fields[i].Name, err = d.ReadString(); err != nil {
			return nil, err
		}
		if fields[i].Value, err = DecodeValue(d); err != nil {
			return nil, err
		}
	}
	return typedProps(t, fields), nil
}

// typedProps rebuilds the dedicated props record of a built-in node type.
// Field lists that do not match the schema stay a PropList.
func typedProps(t vtree.NodeType, fields vtree.PropList) vtree.Props {
	switch t {
	case vtree.NodeCategoryHeader:
		if len(fields) != 3 {
			break
		}
		cat, ok1 := fieldAs[string](fields, 0, "category")
		count, ok2 := fieldAs[int](fields, 1, "count")
		expanded, ok3 := fieldAs[bool](fields, 2, "is_expanded")
		if ok1 && ok2 && ok3 {
			return vtree.HeaderProps{Category: cat, Count: count, Expanded: expanded}
		}
	case vtree.NodeSettingRow:
		if len(fields) != 2 {
			break
		}
		s, ok1 := fieldAs[setting.Setting](fields, 0, "setting")
		show, ok2 := fieldAs[bool](fields, 1, "show_description")
		if ok1 && ok2 {
			return vtree.RowProps{Setting: s, ShowDescription: show}
		}
	}
	return fields
}

func fieldAs[T any](fields vtree.PropList, i int, name string) (T, bool) {
	var zero T
	if fields[i].Name != name {
		return zero, false
	}
	v, ok := fields[i].Value.(T)
	return v, ok
}
