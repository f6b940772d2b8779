package domain

// BlockPatch is the body of a block update request. Exactly one field is set.
type BlockPatch struct {
	ReplaceImage       *ReplaceImage       `json:"replace_image,omitempty"`
	UpdateTextElements *UpdateTextElements `json:"update_text_elements,omitempty"`
}

// ReplaceImage binds an image block to uploaded media.
type ReplaceImage struct {
	Token string `json:"token"`
}

// UpdateTextElements replaces the text elements of a text-bearing block.
type UpdateTextElements struct {
	Elements []TextElement `json:"elements"`
}

// ReplaceImagePatch points an image placeholder at a media token.
func ReplaceImagePatch(mediaToken string) BlockPatch {
	return BlockPatch{ReplaceImage: &ReplaceImage{Token: mediaToken}}
}

// TextPatch replaces a block's content with a single plain text run.
func TextPatch(text string) BlockPatch {
	return BlockPatch{UpdateTextElements: &UpdateTextElements{
		Elements: []TextElement{{TextRun: &TextRun{Content: text}}},
	}}
}
