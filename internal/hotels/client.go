package hotels

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/go-querystring/query"

	apperrors "staywise/pkg/errors"
	"staywise/pkg/logger"
)

const providerName = "serpapi"

type SearchParams struct {
	Location string
	CheckIn  string
	CheckOut string
	Adults   int
}

// searchQuery is the SerpAPI google_hotels request shape. Currency and
// locale are pinned so results stay comparable across searches.
type searchQuery struct {
	Engine       string `url:"engine"`
	Query        string `url:"q"`
	CheckInDate  string `url:"check_in_date"`
	CheckOutDate string `url:"check_out_date"`
	Adults       int    `url:"adults"`
	Currency     string `url:"currency"`
	CountryCode  string `url:"gl"`
	Language     string `url:"hl"`
	APIKey       string `url:"api_key"`
}

type SearchClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *logger.Logger
}

func NewSearchClient(baseURL, apiKey string, client *http.Client, log *logger.Logger) *SearchClient {
	return &SearchClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
		log:     log,
	}
}

// Search forwards the query to the provider and returns the raw response
// body. Callers stream it through to the API client unchanged.
func (c *SearchClient) Search(ctx context.Context, params SearchParams) ([]byte, error) {
	values, err := query.Values(searchQuery{
		Engine:       "google_hotels",
		Query:        params.Location,
		CheckInDate:  params.CheckIn,
		CheckOutDate: params.CheckOut,
		Adults:       params.Adults,
		Currency:     "USD",
		CountryCode:  "us",
		Language:     "en",
		APIKey:       c.apiKey,
	})
	if err != nil {
		return nil, apperrors.Internal("Failed to encode search query", err)
	}

	url := fmt.Sprintf("%s/search.json?%s", c.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.Internal("Failed to build search request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Error("Hotel search request failed", "location", params.Location, "error", err)
		return nil, apperrors.Upstream(providerName, http.StatusBadGateway)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error("Failed to read hotel search response", "error", err)
		return nil, apperrors.Upstream(providerName, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("Hotel search provider returned an error",
			"status", resp.StatusCode,
			"location", params.Location,
		)
		return nil, apperrors.Upstream(providerName, resp.StatusCode)
	}

	return body, nil
}
