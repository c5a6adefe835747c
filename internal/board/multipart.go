package board

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
)

// Upload is one attachment queued for submission.
type Upload struct {
	Name   string
	Reader io.Reader
}

// encodePostForm builds the mixed multipart body for post creation: exactly
// one "post" part carrying the draft as JSON (the part's own Content-Type
// must say application/json or the server won't bind it), followed by one
// "files" part per attachment.
func encodePostForm(draft PostDraft, files []Upload) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="post"`)
	header.Set("Content-Type", "application/json")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create post part: %w", err)
	}
	if err := json.NewEncoder(part).Encode(draft); err != nil {
		return nil, "", fmt.Errorf("encode post part: %w", err)
	}

	for _, file := range files {
		fw, err := writer.CreateFormFile("files", file.Name)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %q: %w", file.Name, err)
		}
		if _, err := io.Copy(fw, file.Reader); err != nil {
			return nil, "", fmt.Errorf("copy file part %q: %w", file.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return buf, writer.FormDataContentType(), nil
}
