package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FilterResult is the outcome of cleaning converted blocks for insertion.
type FilterResult struct {
	// Blocks are the insertable blocks in their original order.
	Blocks []Block

	// Skipped holds the display names of removed block types, each once,
	// in order of first occurrence.
	Skipped []string
}

// Warning returns the user-facing skip warning, or "" if nothing was skipped.
func (r FilterResult) Warning() string {
	return SkipWarning(r.Skipped)
}

// SkipWarning formats the warning for skipped block type names.
func SkipWarning(skipped []string) string {
	if len(skipped) == 0 {
		return ""
	}
	return fmt.Sprintf(
		"Skipped unsupported block types: %s. Tables are not supported via this API.",
		strings.Join(skipped, ", "),
	)
}

// readOnlyFields lists, per block type, payload keys whose nested fields are
// read-only and must not be sent back on insert.
var readOnlyFields = map[BlockType]map[string][]string{
	BlockTypeTable: {"table": {"merge_info"}},
}

// FilterForInsert drops blocks the insert API cannot create and strips
// read-only fields from the rest.
func FilterForInsert(blocks []Block) FilterResult {
	result := FilterResult{Blocks: make([]Block, 0, len(blocks))}
	seen := make(map[string]bool)

	for _, block := range blocks {
		if IsUncreatable(block.BlockType) {
			name := BlockTypeName(block.BlockType)
			if !seen[name] {
				seen[name] = true
				result.Skipped = append(result.Skipped, name)
			}
			continue
		}
		result.Blocks = append(result.Blocks, StripReadOnly(block))
	}

	return result
}

// StripReadOnly returns a shallow copy of block without its read-only nested
// fields. Blocks of types with no read-only fields are returned unchanged.
// The input block is never modified.
func StripReadOnly(block Block) Block {
	rules, ok := readOnlyFields[block.BlockType]
	if !ok {
		return block
	}

	var payload map[string]json.RawMessage
	for key, fields := range rules {
		raw, ok := block.Payload[key]
		if !ok {
			continue
		}
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err != nil {
			continue
		}

		removed := false
		for _, field := range fields {
			if _, ok := nested[field]; ok {
				delete(nested, field)
				removed = true
			}
		}
		if !removed {
			continue
		}

		cleaned, err := json.Marshal(nested)
		if err != nil {
			continue
		}
		if payload == nil {
			payload = make(map[string]json.RawMessage, len(block.Payload))
			for k, v := range block.Payload {
				payload[k] = v
			}
		}
		payload[key] = cleaned
	}

	if payload == nil {
		return block
	}
	out := block
	out.Payload = payload
	return out
}
