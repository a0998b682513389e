package database

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"purpose-workers/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
)

// resultsMapping keeps identifiers and tiers as keywords so the HR dashboard
// can filter on them exactly.
const resultsMapping = `{
  "mappings": {
    "properties": {
      "candidateId":   {"type": "keyword"},
      "tier":          {"type": "keyword"},
      "totalScore":    {"type": "integer"},
      "computedAt":    {"type": "date"},
      "schemaVersion": {"type": "integer"},
      "analysis": {
        "properties": {
          "profileSummary": {"type": "text"}
        }
      }
    }
  }
}`

// ElasticsearchClient wraps the Elasticsearch client
type ElasticsearchClient struct {
	Client *elasticsearch.Client
}

// NewElasticsearch creates a new Elasticsearch client. transport may be nil.
func NewElasticsearch(cfg config.ElasticsearchConfig, transport http.RoundTripper) (*ElasticsearchClient, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.GetAddresses(),
		Transport: transport,
	}

	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &ElasticsearchClient{Client: es}, nil
}

// Ping tests the Elasticsearch connection
func (c *ElasticsearchClient) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := c.Client.Ping(c.Client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}

	return nil
}

// EnsureResultsIndex creates index with the results mapping unless it exists.
func (c *ElasticsearchClient) EnsureResultsIndex(ctx context.Context, index string) error {
	exists, err := c.Client.Indices.Exists([]string{index}, c.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch index check failed: %w", err)
	}
	exists.Body.Close()

	if exists.StatusCode == http.StatusOK {
		return nil
	}
	if exists.StatusCode != http.StatusNotFound {
		return fmt.Errorf("elasticsearch index check error: %s", exists.Status())
	}

	res, err := c.Client.Indices.Create(index,
		c.Client.Indices.Create.WithContext(ctx),
		c.Client.Indices.Create.WithBody(strings.NewReader(resultsMapping)),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch index create failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch index create error: %s", res.Status())
	}
	return nil
}
