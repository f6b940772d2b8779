package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var markdownImagePattern = regexp.MustCompile(`!\[[^\]]*\]\(([^)]+)\)`)

// ImageRef is a network image referenced from markdown.
type ImageRef struct {
	URL   string
	Index int
}

// ImagePair binds an image reference to the placeholder block that the
// convert step produced for it.
type ImagePair struct {
	Ref   ImageRef
	Block Block
}

// ExtractImageURLs returns the http(s) image URLs of markdown in source order.
// Duplicates are kept. Local paths and other schemes are dropped.
func ExtractImageURLs(markdown string) []string {
	var urls []string
	for _, match := range markdownImagePattern.FindAllStringSubmatch(markdown, -1) {
		u := strings.TrimSpace(match[1])
		if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
			urls = append(urls, u)
		}
	}
	return urls
}

// ExtractImageRefs is ExtractImageURLs with each URL's position attached.
func ExtractImageRefs(markdown string) []ImageRef {
	urls := ExtractImageURLs(markdown)
	refs := make([]ImageRef, len(urls))
	for i, u := range urls {
		refs[i] = ImageRef{URL: u, Index: i}
	}
	return refs
}

// CorrelateImages pairs image references with image placeholder blocks by
// position: the Nth reference goes with the Nth image block in insertion
// order. Extra references or blocks beyond the shorter list are ignored.
//
// The convert endpoint reports no link between a markdown image and the
// block it produced, so images the converter drops or reorders are paired
// with the wrong block.
func CorrelateImages(refs []ImageRef, inserted []Block) []ImagePair {
	var images []Block
	for _, block := range inserted {
		if block.BlockType == BlockTypeImage {
			images = append(images, block)
		}
	}

	n := min(len(refs), len(images))
	pairs := make([]ImagePair, n)
	for i := 0; i < n; i++ {
		pairs[i] = ImagePair{Ref: refs[i], Block: images[i]}
	}
	return pairs
}

// ImageFileName derives an upload file name from the last segment of an
// image URL's escaped path, falling back to "image_<index>.png".
func ImageFileName(rawURL string, index int) string {
	fallback := fmt.Sprintf("image_%d.png", index)
	u, err := url.Parse(rawURL)
	if err != nil {
		return fallback
	}
	p := u.EscapedPath()
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	if p == "" {
		return fallback
	}
	return p
}
