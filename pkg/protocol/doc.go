// Package protocol implements the binary wire format used to stream
// reconciliation patches to remote widget hosts over WebSocket.
//
// # Wire Format
//
// Every message is a frame with a 4-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// # Frame Types
//
//   - FrameHello (0x00): Server → Client greeting with the client ID
//   - FrameEvent (0x01): Client → Server panel events
//   - FramePatches (0x02): Server → Client patch batches
//   - FrameError (0x05): Error message
//
// A patch frame flagged FlagFull carries the whole panel as Create
// patches; the client drops its widgets before applying it.
//
// # Encoding
//
//   - Varint: compact encoding for counts and sequence numbers
//   - ZigZag: signed integers (patch indexes, int values)
//   - Length-prefixed: strings
//   - Tagged values: every prop value starts with a one-byte tag
//
// # Patches
//
//	[Op: byte][Key: string][Type: byte][Handle: string][Index: svarint][After: string]
//	Create: [Fields: count][Name: string][Value: tagged]...
//	Update: [Changes: count][Name: string][Old: tagged][New: tagged]...
//
// Props of the two built-in node types decode back to vtree.HeaderProps and
// vtree.RowProps; anything else decodes to a vtree.PropList.
package protocol
