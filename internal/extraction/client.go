// Package extraction talks to the upstream document extraction service.
// The service accepts a base64-encoded document plus a document-type hint
// and returns raw structured fields; every numeric or date field in its
// response is an untrusted string the normalizer must canonicalize.
package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"finbooks/bankrecon/internal/logging"
	"finbooks/bankrecon/internal/models"
	"finbooks/bankrecon/internal/normalize"
	"finbooks/bankrecon/internal/recerror"
)

// Payload is the structured data block of a successful extraction.
type Payload struct {
	RawText      string               `json:"rawText"`
	AccountInfo  models.AccountInfo   `json:"accountInfo"`
	Summary      normalize.RawSummary `json:"summary"`
	Transactions []normalize.RawRow   `json:"transactions"`
}

// Result is the extraction service's response envelope.
type Result struct {
	Success bool     `json:"success"`
	Data    *Payload `json:"data"`
	Error   string   `json:"error,omitempty"`
}

// Extractor yields raw statement fields for an uploaded document.
type Extractor interface {
	Extract(ctx context.Context, fileName string, content []byte, docType string) (*Payload, error)
}

// Client is the HTTP extraction client. Every call is bounded by the
// configured timeout; a deadline hit surfaces as recerror.TimeoutError so
// the caller can mark the statement with a distinguishable failure kind.
type Client struct {
	url     string
	timeout time.Duration
	http    *http.Client
	logger  logging.Logger
}

// NewClient creates an extraction client for the given endpoint.
func NewClient(url string, timeout time.Duration, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		url:     url,
		timeout: timeout,
		http:    &http.Client{},
		logger:  logger,
	}
}

type request struct {
	Document     string `json:"document"` // base64
	DocumentType string `json:"documentType"`
	FileName     string `json:"fileName"`
}

// Extract posts the document and decodes the response envelope.
func (c *Client) Extract(ctx context.Context, fileName string, content []byte, docType string) (*Payload, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(request{
		Document:     base64.StdEncoding.EncodeToString(content),
		DocumentType: docType,
		FileName:     fileName,
	})
	if err != nil {
		return nil, &recerror.ExtractionError{FileName: fileName, Msg: "encoding request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, &recerror.ExtractionError{FileName: fileName, Msg: "building request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &recerror.TimeoutError{FileName: fileName, Err: err}
		}
		return nil, &recerror.ExtractionError{FileName: fileName, Msg: "calling extraction service", Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	c.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: fileName},
		logging.Field{Key: "duration_ms", Value: time.Since(start).Milliseconds()},
		logging.Field{Key: logging.FieldStatus, Value: resp.StatusCode},
	).Debug("Extraction service responded")

	if resp.StatusCode != http.StatusOK {
		return nil, &recerror.ExtractionError{
			FileName: fileName,
			Msg:      fmt.Sprintf("extraction service returned status %d", resp.StatusCode),
		}
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &recerror.ExtractionError{FileName: fileName, Msg: "decoding response", Err: err}
	}
	return decodeResult(fileName, &result)
}

func decodeResult(fileName string, result *Result) (*Payload, error) {
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "extraction service reported failure"
		}
		return nil, &recerror.ExtractionError{FileName: fileName, Msg: msg}
	}
	if result.Data == nil {
		return nil, &recerror.ExtractionError{FileName: fileName, Msg: "malformed response: missing data"}
	}
	return result.Data, nil
}

// Local replays a pre-extracted response envelope from disk. It serves
// the CLI and tests, where the document has already been through the
// extraction service.
type Local struct{}

// Extract decodes content as a saved Result envelope.
func (Local) Extract(_ context.Context, fileName string, content []byte, _ string) (*Payload, error) {
	var result Result
	if err := json.Unmarshal(content, &result); err != nil {
		return nil, &recerror.ExtractionError{FileName: fileName, Msg: "decoding saved payload", Err: err}
	}
	return decodeResult(fileName, &result)
}
