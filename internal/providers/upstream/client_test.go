package upstream_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reef-chain/explorer-backtracker/internal/logger"
	"github.com/reef-chain/explorer-backtracker/internal/mocks"
	"github.com/reef-chain/explorer-backtracker/internal/providers/upstream"
)

const (
	testURL    = "http://graphql.local/graphql"
	testSecret = "secret"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func setupClient(t *testing.T) (upstream.Client, *mocks.MockHTTPClient, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	httpClient := mocks.NewMockHTTPClient(ctrl)

	client, err := upstream.NewClient(upstream.Config{URL: testURL, JWTSecret: testSecret}, httpClient)
	require.NoError(t, err)

	return client, httpClient, ctrl
}

func TestNewClient_RequiresSecret(t *testing.T) {
	_, err := upstream.NewClient(upstream.Config{URL: testURL}, nil)
	assert.Error(t, err)
}

func TestClient_Query(t *testing.T) {
	client, httpClient, ctrl := setupClient(t)
	defer ctrl.Finish()

	ctx := context.Background()
	document := `query { newlyVerifiedContractQueues(limit: 10) { id } }`

	httpClient.EXPECT().
		Post(ctx, testURL, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, headers map[string]string, body []byte) ([]byte, error) {
			assert.Equal(t, "application/json", headers["Content-Type"])
			_, hasAuth := headers["Authorization"]
			assert.False(t, hasAuth)

			var request upstream.GraphQLRequest
			require.NoError(t, json.Unmarshal(body, &request))
			assert.Equal(t, document, request.Query)

			return []byte(`{"data":{"newlyVerifiedContractQueues":[{"id":"0xa"},{"id":"0xb"}]}}`), nil
		})

	var items []struct {
		ID string `json:"id"`
	}
	require.NoError(t, client.Query(ctx, "newlyVerifiedContractQueues", document, &items))
	require.Len(t, items, 2)
	assert.Equal(t, "0xa", items[0].ID)
	assert.Equal(t, "0xb", items[1].ID)
}

func TestClient_MutateSendsBearerToken(t *testing.T) {
	client, httpClient, ctrl := setupClient(t)
	defer ctrl.Finish()

	ctx := context.Background()

	httpClient.EXPECT().
		Post(ctx, testURL, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, headers map[string]string, _ []byte) ([]byte, error) {
			auth := headers["Authorization"]
			require.True(t, strings.HasPrefix(auth, "Bearer "))

			token, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), func(*jwt.Token) (interface{}, error) {
				return []byte(testSecret), nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			require.NoError(t, err)

			claims, ok := token.Claims.(jwt.MapClaims)
			require.True(t, ok)
			assert.Equal(t, "MUTATE", claims["value"])

			return []byte(`{"data":{"deleteNewlyVerifiedContractQueue":true}}`), nil
		})

	var ok bool
	require.NoError(t, client.Mutate(ctx, "deleteNewlyVerifiedContractQueue", `mutation { deleteNewlyVerifiedContractQueue(id: "0xa") }`, &ok))
	assert.True(t, ok)
}

func TestClient_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("graphql errors", func(t *testing.T) {
		client, httpClient, ctrl := setupClient(t)
		defer ctrl.Finish()

		httpClient.EXPECT().Post(ctx, testURL, gomock.Any(), gomock.Any()).
			Return([]byte(`{"data":null,"errors":[{"message":"unknown field"}]}`), nil)

		err := client.Query(ctx, "accounts", `query { accounts { id } }`, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown field")
	})

	t.Run("missing field", func(t *testing.T) {
		client, httpClient, ctrl := setupClient(t)
		defer ctrl.Finish()

		httpClient.EXPECT().Post(ctx, testURL, gomock.Any(), gomock.Any()).
			Return([]byte(`{"data":{}}`), nil)

		err := client.Query(ctx, "accounts", `query { accounts { id } }`, nil)
		assert.ErrorIs(t, err, upstream.ErrNoData)
	})

	t.Run("transport error", func(t *testing.T) {
		client, httpClient, ctrl := setupClient(t)
		defer ctrl.Finish()

		httpClient.EXPECT().Post(ctx, testURL, gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection reset"))

		assert.Error(t, client.Query(ctx, "accounts", `query { accounts { id } }`, nil))
	})

	t.Run("malformed response", func(t *testing.T) {
		client, httpClient, ctrl := setupClient(t)
		defer ctrl.Finish()

		httpClient.EXPECT().Post(ctx, testURL, gomock.Any(), gomock.Any()).
			Return([]byte(`<html>`), nil)

		assert.Error(t, client.Query(ctx, "accounts", `query { accounts { id } }`, nil))
	})

	t.Run("invalid document never reaches the network", func(t *testing.T) {
		client, _, ctrl := setupClient(t)
		defer ctrl.Finish()

		assert.Error(t, client.Query(ctx, "accounts", `query { accounts { id }`, nil))
	})

	t.Run("operation kind must match", func(t *testing.T) {
		client, _, ctrl := setupClient(t)
		defer ctrl.Finish()

		assert.Error(t, client.Query(ctx, "saveTransfers", `mutation { saveTransfers(transfers: []) }`, nil))
		assert.Error(t, client.Mutate(ctx, "accounts", `query { accounts { id } }`, nil))
	})
}
