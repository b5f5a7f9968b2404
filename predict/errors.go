package predict

import(
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError is any failure to get a usable answer out of the service: transport errors, and
// non-2xx responses (whose detail field, if any, ends up in Detail).
type APIError struct {
	Op         string
	StatusCode int    // zero if we never got a response
	Detail     string
	Err        error
}

func (e *APIError)Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Detail)
}

func (e *APIError)Unwrap() error { return e.Err }

// UserMessage extracts the text to show the user for a failed call.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return FallbackMessage
}

// The service returns {"detail": "..."} for its own errors, and {"detail": [{loc,msg,type}, ...]}
// for request validation failures.
func parseDetail(body []byte) string {
	var raw struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &raw); err != nil || len(raw.Detail) == 0 {
		return ""
	}

	var str string
	if err := json.Unmarshal(raw.Detail, &str); err == nil {
		return str
	}

	var items []struct {
		Loc []interface{} `json:"loc"`
		Msg string        `json:"msg"`
	}
	if err := json.Unmarshal(raw.Detail, &items); err == nil {
		msgs := []string{}
		for _,item := range items {
			loc := []string{}
			for _,l := range item.Loc {
				if s := fmt.Sprintf("%v", l); s != "body" { loc = append(loc, s) }
			}
			if len(loc) > 0 {
				msgs = append(msgs, fmt.Sprintf("%s: %s", strings.Join(loc, "."), item.Msg))
			} else {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
