package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BlockType is the integer tag identifying a block's kind.
type BlockType int

// Known block types.
const (
	BlockTypePage      BlockType = 1
	BlockTypeText      BlockType = 2
	BlockTypeHeading1  BlockType = 3
	BlockTypeHeading2  BlockType = 4
	BlockTypeHeading3  BlockType = 5
	BlockTypeBullet    BlockType = 12
	BlockTypeOrdered   BlockType = 13
	BlockTypeCode      BlockType = 14
	BlockTypeQuote     BlockType = 15
	BlockTypeTodo      BlockType = 17
	BlockTypeBitable   BlockType = 18
	BlockTypeDiagram   BlockType = 21
	BlockTypeDivider   BlockType = 22
	BlockTypeFile      BlockType = 23
	BlockTypeImage     BlockType = 27
	BlockTypeSheet     BlockType = 30
	BlockTypeTable     BlockType = 31
	BlockTypeTableCell BlockType = 32
)

var blockTypeNames = map[BlockType]string{
	BlockTypePage:      "Page",
	BlockTypeText:      "Text",
	BlockTypeHeading1:  "Heading1",
	BlockTypeHeading2:  "Heading2",
	BlockTypeHeading3:  "Heading3",
	BlockTypeBullet:    "Bullet",
	BlockTypeOrdered:   "Ordered",
	BlockTypeCode:      "Code",
	BlockTypeQuote:     "Quote",
	BlockTypeTodo:      "Todo",
	BlockTypeBitable:   "Bitable",
	BlockTypeDiagram:   "Diagram",
	BlockTypeDivider:   "Divider",
	BlockTypeFile:      "File",
	BlockTypeImage:     "Image",
	BlockTypeSheet:     "Sheet",
	BlockTypeTable:     "Table",
	BlockTypeTableCell: "TableCell",
}

// Block types the create-children endpoint rejects.
var uncreatableBlockTypes = map[BlockType]bool{
	BlockTypeTable:     true,
	BlockTypeTableCell: true,
}

// Block types whose content is missing from the raw_content plain text.
var structuredBlockTypes = map[BlockType]bool{
	BlockTypeCode:      true,
	BlockTypeBitable:   true,
	BlockTypeDiagram:   true,
	BlockTypeFile:      true,
	BlockTypeImage:     true,
	BlockTypeSheet:     true,
	BlockTypeTable:     true,
	BlockTypeTableCell: true,
}

// BlockTypeName returns the display name of a block type.
// Unknown codes map to "type_<code>".
func BlockTypeName(t BlockType) string {
	if name, ok := blockTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type_%d", int(t))
}

// String implements fmt.Stringer.
func (t BlockType) String() string {
	return BlockTypeName(t)
}

// IsUncreatable reports whether blocks of this type cannot be created
// through the insert API.
func IsUncreatable(t BlockType) bool {
	return uncreatableBlockTypes[t]
}

// IsStructured reports whether blocks of this type are omitted from
// plain-text extraction.
func IsStructured(t BlockType) bool {
	return structuredBlockTypes[t]
}

// Block is a node in a remote document's content tree.
//
// Only the structural fields are decoded. Every other key (text, heading1,
// image, table, ...) is kept verbatim in Payload so that a block produced by
// the convert endpoint can be inserted without losing fields this package
// does not model.
type Block struct {
	BlockID   string
	ParentID  string
	Children  []string
	BlockType BlockType
	Payload   map[string]json.RawMessage
}

var blockStructuralKeys = []string{"block_id", "parent_id", "children", "block_type"}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Block) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out Block
	if v, ok := raw["block_id"]; ok {
		if err := json.Unmarshal(v, &out.BlockID); err != nil {
			return fmt.Errorf("block_id: %w", err)
		}
	}
	if v, ok := raw["parent_id"]; ok {
		if err := json.Unmarshal(v, &out.ParentID); err != nil {
			return fmt.Errorf("parent_id: %w", err)
		}
	}
	if v, ok := raw["children"]; ok {
		if err := json.Unmarshal(v, &out.Children); err != nil {
			return fmt.Errorf("children: %w", err)
		}
	}
	if v, ok := raw["block_type"]; ok {
		if err := json.Unmarshal(v, &out.BlockType); err != nil {
			return fmt.Errorf("block_type: %w", err)
		}
	}

	for _, key := range blockStructuralKeys {
		delete(raw, key)
	}
	if len(raw) > 0 {
		out.Payload = raw
	}

	*b = out
	return nil
}

// MarshalJSON implements json.Marshaler.
func (b Block) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(b.Payload)+4)
	for key, value := range b.Payload {
		out[key] = value
	}
	if b.BlockID != "" {
		out["block_id"] = b.BlockID
	}
	if b.ParentID != "" {
		out["parent_id"] = b.ParentID
	}
	if len(b.Children) > 0 {
		out["children"] = b.Children
	}
	out["block_type"] = int(b.BlockType)
	return json.Marshal(out)
}

// TextRun is a run of plain text inside a text element.
type TextRun struct {
	Content string `json:"content"`
}

// TextElement is one element of a text-bearing block.
type TextElement struct {
	TextRun *TextRun `json:"text_run,omitempty"`
}

type textBody struct {
	Elements []TextElement `json:"elements"`
}

// Payload keys that hold text elements, in lookup order.
var textPayloadKeys = []string{"text", "heading1", "heading2", "heading3"}

// Preview returns up to n runes of the block's plain text. Only text and
// heading blocks carry a preview; others return "". A non-positive n
// returns "".
func (b Block) Preview(n int) string {
	if n <= 0 {
		return ""
	}
	for _, key := range textPayloadKeys {
		raw, ok := b.Payload[key]
		if !ok {
			continue
		}
		var body textBody
		if err := json.Unmarshal(raw, &body); err != nil {
			return ""
		}
		var sb strings.Builder
		for _, el := range body.Elements {
			if el.TextRun != nil {
				sb.WriteString(el.TextRun.Content)
			}
		}
		runes := []rune(sb.String())
		if len(runes) > n {
			runes = runes[:n]
		}
		return string(runes)
	}
	return ""
}
