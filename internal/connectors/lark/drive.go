package lark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

const (
	uploadMediaPath = "/open-apis/drive/v1/medias/upload_all"
	listFilesPath   = "/open-apis/drive/v1/files"

	// parentTypeDocxImage attaches uploaded media to a docx image block.
	parentTypeDocxImage = "docx_image"

	filePageSize = 200
)

type uploadData struct {
	FileToken string `json:"file_token"`
}

type uploadExtra struct {
	DriveRouteToken string `json:"drive_route_token"`
}

type fileWire struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

type filePage struct {
	Files         []fileWire `json:"files"`
	HasMore       bool       `json:"has_more"`
	NextPageToken string     `json:"next_page_token"`
}

// UploadMedia uploads an image against a placeholder image block and
// returns the media token.
func (c *Client) UploadMedia(ctx context.Context, upload domain.MediaUpload) (string, error) {
	extra, err := json.Marshal(uploadExtra{DriveRouteToken: upload.DocumentID})
	if err != nil {
		return "", fmt.Errorf("encode upload extra: %w", err)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fields := []struct{ key, value string }{
		{"file_name", upload.FileName},
		{"parent_type", parentTypeDocxImage},
		{"parent_node", upload.ParentNode},
		{"size", strconv.Itoa(len(upload.Data))},
		{"extra", string(extra)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.key, f.value); err != nil {
			return "", fmt.Errorf("write %s field: %w", f.key, err)
		}
	}
	part, err := w.CreateFormFile("file", upload.FileName)
	if err != nil {
		return "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(upload.Data); err != nil {
		return "", fmt.Errorf("write file part: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(uploadMediaPath, nil), &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var data uploadData
	if err := c.send(ctx, req, uploadMediaPath, &data); err != nil {
		return "", fmt.Errorf("upload media: %w", err)
	}
	if data.FileToken == "" {
		return "", fmt.Errorf("upload media: %w", domain.ErrUploadFailed)
	}
	return data.FileToken, nil
}

// ListFolder returns the files of a drive folder. An empty token lists
// the root folder.
func (c *Client) ListFolder(ctx context.Context, folderToken string) ([]domain.FileEntry, error) {
	var entries []domain.FileEntry
	pageToken := ""
	for {
		query := url.Values{"page_size": {strconv.Itoa(filePageSize)}}
		if folderToken != "" {
			query.Set("folder_token", folderToken)
		}
		if pageToken != "" {
			query.Set("page_token", pageToken)
		}

		var page filePage
		if err := c.doJSON(ctx, http.MethodGet, listFilesPath, query, nil, &page); err != nil {
			return nil, fmt.Errorf("list folder: %w", err)
		}
		for _, f := range page.Files {
			entries = append(entries, domain.FileEntry{Token: f.Token, Name: f.Name, Type: f.Type, URL: f.URL})
		}

		if !page.HasMore || page.NextPageToken == "" {
			return entries, nil
		}
		pageToken = page.NextPageToken
	}
}
