// vortexa/services/strategist/client.go
package strategist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lavyajn/Hackathon-Vortexa/vortexa/types"
	httputils "github.com/lavyajn/Hackathon-Vortexa/vortexa/utils/http"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/utils/jsonutils"
)

var (
	// ErrBackendUnavailable covers transport failures and non-2xx statuses.
	ErrBackendUnavailable = errors.New("strategist backend unavailable")
	// ErrMalformedReply means the backend answered 2xx but the payload
	// carried none of the recognized fields.
	ErrMalformedReply = errors.New("strategist reply missing recognized fields")
)

type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is one strategist turn. When Profile is set the structured body
// is sent; otherwise the raw prompt goes out as {"prompt": ...}.
type Request struct {
	Prompt  string
	Profile *types.Profile
	History []HistoryMessage
}

// Reply is the composed result of either backend response shape.
type Reply struct {
	Text  string
	Title string
	Chart *types.ChartSpec
}

// Client calls the generative strategist backend.
type Client interface {
	GenerateStrategy(ctx context.Context, req Request) (*Reply, error)
}

type HTTPClient struct {
	url    string
	client *http.Client
}

func NewHTTPClient(url string) *HTTPClient {
	return &HTTPClient{
		url:    url,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *HTTPClient) GenerateStrategy(ctx context.Context, req Request) (*Reply, error) {
	body, err := httputils.PostJSON(ctx, c.client, c.url, buildBody(req))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return decodeReply(body)
}

func buildBody(req Request) interface{} {
	if req.Profile == nil {
		return map[string]string{"prompt": req.Prompt}
	}
	return map[string]interface{}{
		"ongoing_loans":           req.Profile.OngoingLoans,
		"financial_context":       req.Profile.FinancialContext,
		"assets":                  req.Profile.Assets,
		"liabilities":             req.Profile.Liabilities,
		"monthly_income":          req.Profile.MonthlyIncome,
		"desired_interest_tenure": req.Profile.DesiredTenureMonths,
		"chat_history":            req.History,
	}
}

// decodeReply accepts both response shapes the backend has used:
// {response, title?, chart?} and {analysis, strategy, warnings[]}. The
// second is composed into a single markdown message. Model output is
// stripped of markdown code fences before decoding.
func decodeReply(body []byte) (*Reply, error) {
	var wire struct {
		Response string           `json:"response"`
		Title    string           `json:"title"`
		Chart    *types.ChartSpec `json:"chart"`
		Analysis string           `json:"analysis"`
		Strategy string           `json:"strategy"`
		Warnings []string         `json:"warnings"`
	}
	cleaned := jsonutils.ExtractJSON(string(body))
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, ErrMalformedReply
	}

	if wire.Response != "" {
		return &Reply{Text: wire.Response, Title: wire.Title, Chart: wire.Chart}, nil
	}
	if wire.Analysis == "" && wire.Strategy == "" && len(wire.Warnings) == 0 {
		return nil, ErrMalformedReply
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Analysis:**\n%s\n\n**Strategy:**\n%s", wire.Analysis, wire.Strategy)
	if len(wire.Warnings) > 0 {
		fmt.Fprintf(&b, "\n\n**Warnings:**\n- %s", strings.Join(wire.Warnings, "\n- "))
	}
	return &Reply{Text: b.String(), Title: wire.Title}, nil
}
