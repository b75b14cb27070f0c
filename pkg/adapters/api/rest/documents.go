package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"legal-document-manager/pkg/domain"
	"legal-document-manager/pkg/ports"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func documentQuery(filter domain.DocumentFilter) string {
	q := url.Values{}
	if len(filter.States) > 0 {
		states := make([]string, len(filter.States))
		for i, s := range filter.States {
			states[i] = string(s)
		}
		q.Set("states", strings.Join(states, ","))
	}
	if filter.LawyerID != nil {
		q.Set("lawyer_id", strconv.FormatInt(*filter.LawyerID, 10))
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(filter.PageSize))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ListDocuments implementa ports.DocumentAPI.
// Acepta tanto la respuesta paginada como una lista plana.
func (c *Client) ListDocuments(ctx context.Context, filter domain.DocumentFilter) (*domain.DocumentPage, error) {
	var raw json.RawMessage
	if err := c.call(ctx, http.MethodGet, "dynamic-documents", "dynamic-documents/"+documentQuery(filter), nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var docs []domain.Document
		if err := json.Unmarshal(raw, &docs); err != nil {
			return nil, fmt.Errorf("failed to decode documents: %w", err)
		}
		return &domain.DocumentPage{Count: len(docs), Results: docs}, nil
	}

	var page domain.DocumentPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("failed to decode documents page: %w", err)
	}
	return &page, nil
}

// CreateDocument implementa ports.DocumentAPI.
func (c *Client) CreateDocument(ctx context.Context, doc domain.Document) (*domain.Document, error) {
	var result domain.Document
	if err := c.call(ctx, http.MethodPost, "dynamic-documents", "dynamic-documents/", doc, &result); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return &result, nil
}

// UpdateDocument implementa ports.DocumentAPI.
func (c *Client) UpdateDocument(ctx context.Context, id int64, patch domain.DocumentPatch) (*domain.Document, error) {
	var result domain.Document
	path := fmt.Sprintf("dynamic-documents/%d/update/", id)
	if err := c.call(ctx, http.MethodPatch, "dynamic-documents/update", path, patch, &result); err != nil {
		return nil, fmt.Errorf("failed to update document %d: %w", id, err)
	}
	return &result, nil
}

// DeleteDocument implementa ports.DocumentAPI.
func (c *Client) DeleteDocument(ctx context.Context, id int64) error {
	path := fmt.Sprintf("dynamic-documents/%d/delete/", id)
	if err := c.call(ctx, http.MethodDelete, "dynamic-documents/delete", path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete document %d: %w", id, err)
	}
	return nil
}

// DownloadPDF implementa ports.DocumentAPI.
func (c *Client) DownloadPDF(ctx context.Context, id int64) (*ports.Blob, error) {
	return c.download(ctx, http.MethodGet, "dynamic-documents/download-pdf", fmt.Sprintf("dynamic-documents/%d/download-pdf/", id), nil, contentTypePDF)
}

// DownloadWord implementa ports.DocumentAPI.
func (c *Client) DownloadWord(ctx context.Context, id int64) (*ports.Blob, error) {
	return c.download(ctx, http.MethodGet, "dynamic-documents/download-word", fmt.Sprintf("dynamic-documents/%d/download-word/", id), nil, contentTypeDOCX)
}

// download devuelve el cuerpo sin leer; quien llama debe cerrarlo.
func (c *Client) download(ctx context.Context, method, route, path string, body any, fallbackType string) (*ports.Blob, error) {
	resp, err := c.doRequest(ctx, method, route, path, body)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || strings.HasPrefix(contentType, "application/json") {
		contentType = fallbackType
	}
	return &ports.Blob{Body: resp.Body, ContentType: contentType}, nil
}

// UpdateRecent implementa ports.DocumentAPI.
func (c *Client) UpdateRecent(ctx context.Context, id int64) error {
	path := fmt.Sprintf("dynamic-documents/%d/update-recent/", id)
	if err := c.call(ctx, http.MethodPost, "dynamic-documents/update-recent", path, nil, nil); err != nil {
		return fmt.Errorf("failed to update recent document %d: %w", id, err)
	}
	return nil
}

type recentDocument struct {
	Document domain.Document `json:"document"`
}

// ListRecent implementa ports.DocumentAPI. Cada entrada viene envuelta en {"document": ...}.
func (c *Client) ListRecent(ctx context.Context) ([]domain.Document, error) {
	var recent []recentDocument
	if err := c.call(ctx, http.MethodGet, "dynamic-documents/recent", "dynamic-documents/recent/", nil, &recent); err != nil {
		return nil, fmt.Errorf("failed to list recent documents: %w", err)
	}

	docs := make([]domain.Document, len(recent))
	for i, r := range recent {
		docs[i] = r.Document
	}
	return docs, nil
}

// RejectDocument implementa ports.DocumentAPI.
func (c *Client) RejectDocument(ctx context.Context, id, userID int64, comment string) error {
	path := fmt.Sprintf("dynamic-documents/%d/reject/%d/", id, userID)
	body := map[string]string{"comment": comment}
	if err := c.call(ctx, http.MethodPost, "dynamic-documents/reject", path, body, nil); err != nil {
		return fmt.Errorf("failed to reject document %d: %w", id, err)
	}
	return nil
}

var _ ports.DocumentAPI = (*Client)(nil)
