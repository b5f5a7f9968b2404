// Package predict talks to the flight-delay prediction service.
package predict

import(
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	fdash "github.com/skypies/flightdash"
)

const(
	kPathPredict = "/predict"
	kPathHealth  = "/health"

	// What the user sees when the service gives us nothing better.
	FallbackMessage = "Something went wrong talking to the API"
)

var ErrBadResponse = fmt.Errorf("Unrecognized response from prediction service")

// Predictor is what the session needs from the prediction service.
type Predictor interface {
	Predict(ctx context.Context, in fdash.PredictionInput) (fdash.PredictionRecord, error)
	Health(ctx context.Context) (Status, error)
}

// HealthChecker is an alternative way of probing the service's health.
type HealthChecker interface {
	Check(ctx context.Context) (Status, error)
}

type Status struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s Status)String() string {
	if s.Detail == "" { return s.Status }
	return fmt.Sprintf("%s (%s)", s.Status, s.Detail)
}

// {{{ Client{}

type Client struct {
	HTTPClient  *http.Client
	BaseURL     string
	HealthProbe HealthChecker // if set, replaces the HTTP health endpoint
}

func NewClient(baseURL string, c *http.Client) *Client {
	if c == nil {
		c = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{HTTPClient:c, BaseURL:strings.TrimRight(baseURL, "/")}
}

// }}}
// {{{ c.Predict

func (c *Client)Predict(ctx context.Context, in fdash.PredictionInput) (fdash.PredictionRecord, error) {
	in = in.Normalized()

	body,err := json.Marshal(in)
	if err != nil { return fdash.PredictionRecord{}, fmt.Errorf("Predict: %v", err) }

	req,err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+kPathPredict, bytes.NewReader(body))
	if err != nil { return fdash.PredictionRecord{}, fmt.Errorf("Predict: %v", err) }
	req.Header.Set("Content-Type", "application/json")

	respBody,err := c.do(req)
	if err != nil { return fdash.PredictionRecord{}, err }

	wr := wireResponse{}
	if err := json.Unmarshal(respBody, &wr); err != nil {
		return fdash.PredictionRecord{}, fmt.Errorf("Predict: %w: %v", ErrBadResponse, err)
	}
	return wr.toRecord(in)
}

// }}}
// {{{ c.Health

func (c *Client)Health(ctx context.Context) (Status, error) {
	if c.HealthProbe != nil {
		return c.HealthProbe.Check(ctx)
	}

	req,err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+kPathHealth, nil)
	if err != nil { return Status{}, fmt.Errorf("Health: %v", err) }

	respBody,err := c.do(req)
	if err != nil { return Status{}, err }

	s := Status{}
	if err := json.Unmarshal(respBody, &s); err != nil {
		return Status{}, fmt.Errorf("Health: %w: %v", ErrBadResponse, err)
	}
	return s, nil
}

// }}}
// {{{ c.do

// do runs the request, and turns any non-2xx response into an *APIError.
func (c *Client)do(req *http.Request) ([]byte, error) {
	resp,err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &APIError{Op:req.URL.Path, Err:err}
	}
	defer resp.Body.Close()

	body,err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Op:req.URL.Path, StatusCode:resp.StatusCode, Err:err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			Op: req.URL.Path,
			StatusCode: resp.StatusCode,
			Detail: parseDetail(body),
		}
	}
	return body, nil
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
