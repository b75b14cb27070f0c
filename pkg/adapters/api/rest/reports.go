package rest

import (
	"context"
	"fmt"
	"net/http"

	"legal-document-manager/pkg/ports"
)

// GenerateExcel implementa ports.ReportAPI.
func (c *Client) GenerateExcel(ctx context.Context, req ports.ReportRequest) (*ports.Blob, error) {
	blob, err := c.download(ctx, http.MethodPost, "reports/generate-excel", "reports/generate-excel/", req, contentTypeXLSX)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}
	return blob, nil
}

var _ ports.ReportAPI = (*Client)(nil)
