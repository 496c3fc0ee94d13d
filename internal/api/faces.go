package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"time"
)

const (
	// VerifyPhotosTimeout bounds the artist photo verification call.
	VerifyPhotosTimeout = 30 * time.Second
	// QualityTimeout bounds the detailed image quality call.
	QualityTimeout = 10 * time.Second
)

// FormFile is an image uploaded in a multipart form.
type FormFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReadFormFile loads path from disk.
func ReadFormFile(path string) (FormFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FormFile{}, fmt.Errorf("api: read %s: %w", path, err)
	}
	return FormFile{Name: filepath.Base(path), ContentType: http.DetectContentType(data), Data: data}, nil
}

// As places the file under a form field.
func (f FormFile) As(field string) FormPart {
	return FormPart{Field: field, File: &f}
}

// FormPart is one field of a multipart form: either a file or a value.
type FormPart struct {
	Field string
	Value string
	File  *FormFile
}

// CompareFaces reports whether two images show the same face.
func (c *Client) CompareFaces(ctx context.Context, first, second FormFile) (FaceComparison, error) {
	var result FaceComparison
	err := c.postMultipart(ctx, "/api/face-comparison/compare", []FormPart{
		first.As("image1"),
		second.As("image2"),
	}, 0, &result)
	return result, err
}

// VerifyIdentity compares a selfie with an identity document.
func (c *Client) VerifyIdentity(ctx context.Context, selfie, document FormFile) (FaceComparison, error) {
	var result FaceComparison
	err := c.postMultipart(ctx, "/api/face-comparison/verify-identity", []FormPart{
		selfie.As("selfie"),
		document.As("document"),
	}, 0, &result)
	return result, err
}

// VerifyArtistSelfie compares a selfie with the artist's registered photo.
func (c *Client) VerifyArtistSelfie(ctx context.Context, artistID string, selfie FormFile) (FaceComparison, error) {
	var result FaceComparison
	err := c.postMultipart(ctx, "/api/face-comparison/verify-artist/"+escape(artistID), []FormPart{
		selfie.As("selfie"),
	}, 0, &result)
	return result, err
}

// AnalyzeQuality runs the quick quality check on a single image.
func (c *Client) AnalyzeQuality(ctx context.Context, image FormFile) (QualityAnalysis, error) {
	var result QualityAnalysis
	err := c.postMultipart(ctx, "/api/face-comparison/analyze-quality", []FormPart{
		image.As("image"),
	}, 0, &result)
	return result, err
}

// VerifyArtistPhotos submits a document photo and a selfie for artist
// verification.
func (c *Client) VerifyArtistPhotos(ctx context.Context, artistID string, document, selfie FormFile) (Verification, error) {
	var result Verification
	err := c.postMultipart(ctx, "/api/face-comparison/verify-artist", []FormPart{
		document.As("photos"),
		selfie.As("photos"),
		{Field: "artistId", Value: artistID},
	}, VerifyPhotosTimeout, &result)
	return result, err
}

// AnalyzeImageQuality runs the detailed quality analysis on an image.
func (c *Client) AnalyzeImageQuality(ctx context.Context, image FormFile) (ImageQuality, error) {
	var result ImageQuality
	err := c.postMultipart(ctx, "/api/face-comparison/analyze-quality", []FormPart{
		image.As("image"),
	}, QualityTimeout, &result)
	return result, err
}

// postMultipart sends parts as multipart/form-data. A positive timeout
// bounds this call in place of the client-wide one.
func (c *Client) postMultipart(ctx context.Context, path string, parts []FormPart, timeout time.Duration, out any) error {
	body, contentType, err := encodeMultipart(parts)
	if err != nil {
		return err
	}
	ctx, cancel := c.withDeadline(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.send(req, path, out)
}

func encodeMultipart(parts []FormPart) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, part := range parts {
		if part.File == nil {
			if err := writer.WriteField(part.Field, part.Value); err != nil {
				return nil, "", fmt.Errorf("api: write field %s: %w", part.Field, err)
			}
			continue
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, part.Field, fileName(part.File.Name)))
		contentType := part.File.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		w, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("api: write file %s: %w", part.Field, err)
		}
		if _, err := w.Write(part.File.Data); err != nil {
			return nil, "", fmt.Errorf("api: write file %s: %w", part.Field, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("api: close form: %w", err)
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

func fileName(name string) string {
	if name == "" {
		return "image.jpg"
	}
	return name
}
