package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"go.uber.org/zap"

	"github.com/reef-chain/explorer-backtracker/internal/adapter"
	"github.com/reef-chain/explorer-backtracker/internal/logger"
	"github.com/reef-chain/explorer-backtracker/internal/metrics"
)

// ErrNoData is returned when a response carries neither data nor errors for an operation
var ErrNoData = errors.New("upstream returned no data")

// GraphQLRequest represents a GraphQL request
type GraphQLRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
	OperationName string                 `json:"operationName,omitempty"`
}

// GraphQLResponse represents a GraphQL response
type GraphQLResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors gqlerror.List              `json:"errors,omitempty"`
}

// Config holds the upstream GraphQL service configuration
type Config struct {
	URL       string
	JWTSecret string
}

// Client executes GraphQL documents against the upstream indexing service
//
//go:generate mockgen -source=client.go -destination=../../mocks/upstream_client.go -package=mocks -mock_names=Client=MockUpstreamClient
type Client interface {
	// Query runs a read-only document and decodes data[field] into out
	Query(ctx context.Context, field, document string, out interface{}) error

	// Mutate runs a mutation with the service bearer token and decodes data[field] into out
	Mutate(ctx context.Context, field, document string, out interface{}) error
}

type client struct {
	url           string
	http          adapter.HTTPClient
	mutationToken string
	metrics       metrics.UpstreamMetrics
}

// NewClient creates a GraphQL client. Mutations are authorized with an HS256 token signed with cfg.JWTSecret.
func NewClient(cfg Config, httpClient adapter.HTTPClient) (Client, error) {
	token, err := signMutationToken(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	return &client{
		url:           cfg.URL,
		http:          httpClient,
		mutationToken: token,
		metrics:       metrics.NewDefaultUpstreamMetrics("explorer"),
	}, nil
}

// signMutationToken builds the bearer token the upstream expects on mutations
func signMutationToken(secret string) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is required to sign mutations")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"value": "MUTATE"})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign mutation token: %w", err)
	}
	return signed, nil
}

func (c *client) Query(ctx context.Context, field, document string, out interface{}) error {
	return c.do(ctx, ast.Query, field, document, out)
}

func (c *client) Mutate(ctx context.Context, field, document string, out interface{}) error {
	return c.do(ctx, ast.Mutation, field, document, out)
}

func (c *client) do(ctx context.Context, operation ast.Operation, field, document string, out interface{}) error {
	if err := validateDocument(operation, document); err != nil {
		return err
	}

	timer := c.metrics.Latency(field)
	err := c.execute(ctx, operation, field, document, out)
	timer.ObserveDuration()

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusFailure
		logger.WarnCtx(ctx, "Upstream operation failed", zap.String("field", field), zap.Error(err))
	}
	c.metrics.Operations(field, status).Inc()

	return err
}

func (c *client) execute(ctx context.Context, operation ast.Operation, field, document string, out interface{}) error {
	body, err := json.Marshal(GraphQLRequest{Query: document})
	if err != nil {
		return fmt.Errorf("failed to marshal GraphQL request: %w", err)
	}

	headers := map[string]string{"Content-Type": "application/json"}
	if operation == ast.Mutation {
		headers["Authorization"] = "Bearer " + c.mutationToken
	}

	responseBody, err := c.http.Post(ctx, c.url, headers, body)
	if err != nil {
		return fmt.Errorf("failed to call upstream %s: %w", field, err)
	}

	var response GraphQLResponse
	if err := json.Unmarshal(responseBody, &response); err != nil {
		return fmt.Errorf("failed to unmarshal upstream response: %w", err)
	}
	if len(response.Errors) > 0 {
		return fmt.Errorf("upstream %s: %w", field, response.Errors)
	}

	data, ok := response.Data[field]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoData, field)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", field, err)
	}

	return nil
}

// validateDocument rejects malformed documents before they reach the network
func validateDocument(operation ast.Operation, document string) error {
	doc, err := parser.ParseQuery(&ast.Source{Name: "upstream", Input: document})
	if err != nil {
		return fmt.Errorf("invalid GraphQL document: %w", err)
	}
	if len(doc.Operations) != 1 {
		return fmt.Errorf("invalid GraphQL document: expected one operation, got %d", len(doc.Operations))
	}
	if doc.Operations[0].Operation != operation {
		return fmt.Errorf("invalid GraphQL document: expected %s, got %s", operation, doc.Operations[0].Operation)
	}
	return nil
}
