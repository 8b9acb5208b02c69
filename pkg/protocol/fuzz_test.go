package protocol

import (
	"testing"

	"github.com/hardfox-dev/hardfox/pkg/setting"
	"github.com/hardfox-dev/hardfox/pkg/view"
	"github.com/hardfox-dev/hardfox/pkg/vtree"
)

// FuzzDecodeFrame tests that decoding arbitrary bytes doesn't panic.
func FuzzDecodeFrame(f *testing.F) {
	frame, _ := NewFrame(FramePatches, FlagFull, []byte("test")).Encode()
	f.Add(frame)
	f.Add([]byte{0x00, 0x00, 0xFF, 0xFF})

	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = DecodeFrame(data)
	})
}

// FuzzDecodePatches tests that decoding arbitrary bytes doesn't panic.
func FuzzDecodePatches(f *testing.F) {
	res := vtree.Diff(nil, nil, []vtree.VNode{
		vtree.Header("privacy", 1, true),
		vtree.Row(setting.Setting{Key: "k", Value: true, Type: setting.TypeToggle, Options: []any{1}}, true),
	})
	seed, _ := EncodePatches(&PatchesFrame{Seq: 1, Patches: res.Patches})
	f.Add(seed)
	f.Add([]byte{0x01, 0x01, 0x02})

	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = DecodePatches(data)
	})
}

// FuzzDecodeEvent tests that decoding arbitrary bytes doesn't panic.
func FuzzDecodeEvent(f *testing.F) {
	seed, _ := EncodeEvent(&EventMessage{Seq: 1, Event: view.Event{Kind: view.EventSetValue, Key: "k", Value: []any{1}}})
	f.Add(seed)

	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = DecodeEvent(data)
	})
}
