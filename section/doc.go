// Package section defines the fixed byte layouts of the record container.
//
// # Binary Layout
//
// Every binary record starts with a framed header block followed by zero or
// more framed data blocks. A frame is a payload surrounded by two identical
// 32 bit length markers in the file's byte order:
//
//	┌──────────┬─────────────────────────────────────────┬──────────┐
//	│ len (4)  │ payload (len bytes)                     │ len (4)  │
//	└──────────┴─────────────────────────────────────────┴──────────┘
//
// The header payload is always 16 bytes:
//
//	Bytes  | Field | Type   | Description
//	-------|-------|--------|-------------------------------------
//	0-7    | Name  | char8  | Record name, space padded
//	8-11   | Count | int32  | Number of elements
//	12-15  | Type  | char4  | Element type tag (CHAR, REAL, ...)
//
// Data blocks hold at most format.NumericBlock numeric or format.StringBlock
// string elements each.
//
// # Text Layout
//
// The text container writes the header as one line using TextHeaderFormat,
// then the elements in columns. Widths and formats are listed in
// TextElementFormat.
package section
