// internal/infra/practicum/client.go
package practicum

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
)

const (
	maxBodyBytes   = 1 << 20
	maxExcerptRune = 200
)

// Client polls the homework status endpoint.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	logger   logrus.FieldLogger
}

func NewClient(endpoint, token string, httpClient *http.Client, logger logrus.FieldLogger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint: endpoint,
		token:    token,
		http:     httpClient,
		logger:   logger,
	}
}

// Fetch requests every status change since fromDate. The body is returned
// undecoded for the validator; only transport, HTTP and API-level rejections
// are reported here.
func (c *Client) Fetch(ctx context.Context, fromDate int64) (homework.RawResponse, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, FromDate: fromDate, Err: fmt.Errorf("invalid endpoint: %w", err)}
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(fromDate, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, FromDate: fromDate, Err: err}
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	c.logger.WithField("from_date", fromDate).Debug("Requesting homework statuses")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, FromDate: fromDate, Err: stripURL(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, FromDate: fromDate, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{
			Endpoint:   c.endpoint,
			FromDate:   fromDate,
			StatusCode: resp.StatusCode,
			Body:       excerpt(body),
		}
	}

	if appErr := applicationError(body); appErr != nil {
		appErr.Endpoint = c.endpoint
		appErr.FromDate = fromDate
		return nil, appErr
	}

	return homework.RawResponse(body), nil
}

// applicationError looks for the "code"/"error" fields the API uses to reject
// a request while still answering 200. Bodies that are not JSON objects are
// left for the validator.
func applicationError(body []byte) *ApplicationError {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil
	}
	rawCode, hasCode := fields["code"]
	rawMsg, hasMsg := fields["error"]
	if !hasCode && !hasMsg {
		return nil
	}

	code := scalarText(rawCode)
	msg := scalarText(rawMsg)
	if !hasMsg && code == strconv.Itoa(http.StatusOK) {
		return nil
	}
	if msg == "" && code == "" {
		msg = "unknown error"
	}
	return &ApplicationError{Code: code, Message: msg}
}

// scalarText renders a JSON string without quotes and anything else verbatim.
func scalarText(raw json.RawMessage) string {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil && nested.Message != "" {
		return nested.Message
	}
	return string(raw)
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if utf8.RuneCountInString(s) <= maxExcerptRune {
		return s
	}
	return string([]rune(s)[:maxExcerptRune]) + "…"
}

// stripURL drops the request URL from *url.Error so repeated failures render
// identically regardless of the from_date in the query string.
func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}
