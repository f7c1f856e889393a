package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/httpclient"
)

const serviceName = "catalog"

// HTTPDoer executes HTTP requests. *httpclient.CircuitBreakerClient and
// *httpclient.Client both satisfy it.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// HTTPSource fetches a fakestore-compatible JSON array of products.
type HTTPSource struct {
	client HTTPDoer
	url    string
}

// NewHTTPSource creates a source reading from url.
func NewHTTPSource(client HTTPDoer, url string) *HTTPSource {
	return &HTTPSource{client: client, url: url}
}

// Fetch performs one GET against the catalog URL. Any non-200 response is
// returned as a *httpclient.StatusError.
func (s *HTTPSource) Fetch(ctx context.Context) ([]domain.RawProduct, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call catalog source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, serviceName)
	}

	var products []domain.RawProduct
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	return products, nil
}
