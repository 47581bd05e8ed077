package places

import (
	"fmt"
	"strings"
)

// bodySnippetLimit caps how much of an upstream response ends up in logs.
const bodySnippetLimit = 512

// UpstreamRequestError carries HTTP context for failed upstream calls.
// All client calls are GETs, so the method is not recorded.
type UpstreamRequestError struct {
	URL        string
	StatusCode int
	Body       string
	Cause      error
}

func (e *UpstreamRequestError) Error() string {
	var b strings.Builder
	b.WriteString(ErrUpstream.Error())
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, "; status=%d", e.StatusCode)
	}
	if url := strings.TrimSpace(e.URL); url != "" {
		b.WriteString("; ")
		b.WriteString(url)
	}
	if snippet := bodySnippet(e.Body); snippet != "" {
		fmt.Fprintf(&b, "; body=%q", snippet)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, "; cause=%v", e.Cause)
	}
	return b.String()
}

func (e *UpstreamRequestError) Unwrap() error {
	return ErrUpstream
}

// bodySnippet collapses the response body onto one line and truncates it.
func bodySnippet(body string) string {
	body = strings.Join(strings.Fields(body), " ")
	if len(body) > bodySnippetLimit {
		return body[:bodySnippetLimit] + " (truncated)"
	}
	return body
}
