// Package e2e provides end-to-end tests for the flower service.
// The suite starts MongoDB and NATS containers with testcontainers-go, serves the
// real application handler from an httptest.Server and cleans the collection before
// every test.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/flowersales/flowersales/flower_service/internal/app"
	"github.com/flowersales/flowersales/flower_service/internal/config"
	"github.com/flowersales/flowersales/flower_service/internal/service"
	"github.com/flowersales/flowersales/flower_service/internal/transport/rest"
	"github.com/flowersales/flowersales/pkg/bootstrap"
	"github.com/flowersales/flowersales/pkg/messaging"
	pnats "github.com/flowersales/flowersales/pkg/nats"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	tcnats "github.com/testcontainers/testcontainers-go/modules/nats"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// skipE2ETests is the environment variable that can be set to skip E2E tests.
const skipE2ETests = "FLOWER_SVC_SKIP_E2E_TESTS"

const (
	flowersURL = "/flowers"
	streamName = "FLOWERS"
)

// FlowerServiceE2ESuite is a test suite for end-to-end tests of the flower service.
type FlowerServiceE2ESuite struct {
	suite.Suite
	mongoContainer *mongodb.MongoDBContainer // MongoDB container for E2E tests
	natsContainer  *tcnats.NATSContainer     // NATS container receiving catalog events
	client         *mongo.Client             // MongoDB client
	collection     *mongo.Collection         // collection the service writes to
	js             jetstream.JetStream       // JetStream used to inspect published events
	server         *httptest.Server          // HTTP server for the flower service
	httpClient     *http.Client              // HTTP client for making requests to the server
	logger         *slog.Logger              // Logger for the test suite
	ctx            context.Context           // Context for the test suite
}

func testConfig() *config.Config {
	var cfg config.Config
	cfg.CORS.Origins = []string{"https://localhost:7283"}
	return &cfg
}

// SetupSuite starts the containers and the application.
func (s *FlowerServiceE2ESuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// 1. MongoDB
	s.mongoContainer, err = mongodb.Run(s.ctx, "mongo:7.0")
	require.NoError(s.T(), err, "Failed to run MongoDB container")
	uri, err := s.mongoContainer.ConnectionString(s.ctx)
	require.NoError(s.T(), err, "Failed to get MongoDB connection string")
	s.client, err = bootstrap.NewMongoClient(s.ctx, uri, 30*time.Second)
	require.NoError(s.T(), err, "Failed to connect to MongoDB")
	s.collection = s.client.Database("FlowerSales").Collection("Flowers")

	// 2. NATS with the catalog stream
	s.natsContainer, err = tcnats.Run(s.ctx, "nats:2.11.6-alpine")
	require.NoError(s.T(), err, "Failed to run NATS container")
	natsURL, err := s.natsContainer.ConnectionString(s.ctx)
	require.NoError(s.T(), err)
	nc, err := pnats.NewClient(natsURL, 5*time.Second)
	require.NoError(s.T(), err)
	s.js, err = pnats.NewJetStreamContext(nc)
	require.NoError(s.T(), err)
	require.NoError(s.T(), pnats.EnsureStream(s.ctx, s.js, streamName, messaging.FlowerSubjects))

	// 3. Application
	deps := app.SetupDependencies(s.collection, pnats.NewNatsPublisher(s.js), nil, testConfig(), s.logger)
	s.server = httptest.NewServer(app.SetupHttpHandler(deps))
	s.httpClient = s.server.Client()
	s.logger.Info("E2E test server started", "url", s.server.URL)
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *FlowerServiceE2ESuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
	if s.js != nil {
		s.js.Conn().Close()
	}
	if s.client != nil {
		_ = s.client.Disconnect(s.ctx)
	}
	for _, c := range []testcontainers.Container{s.mongoContainer, s.natsContainer} {
		if err := testcontainers.TerminateContainer(c); err != nil {
			s.logger.Warn("Failed to terminate container", "error", err)
		}
	}
}

// SetupTest empties the collection and the event stream before each test.
func (s *FlowerServiceE2ESuite) SetupTest() {
	_, err := s.collection.DeleteMany(s.ctx, bson.D{})
	require.NoError(s.T(), err, "Failed to clean flowers collection")
	stream, err := s.js.Stream(s.ctx, streamName)
	require.NoError(s.T(), err)
	require.NoError(s.T(), stream.Purge(s.ctx))
}

func TestFlowerServiceE2E(t *testing.T) {
	if os.Getenv(skipE2ETests) == "1" {
		t.Skip("Skipping E2E tests based on " + skipE2ETests + " env var")
	}
	suite.Run(t, new(FlowerServiceE2ESuite))
}

// --------------------------------------------------------------------------
// ---------- Payload structures and Helper methods for E2E tests -----------
// --------------------------------------------------------------------------

type flowerPayload struct {
	ID            string  `json:"id,omitempty"`
	Category      string  `json:"category"`
	Name          string  `json:"name"`
	StoreLocation string  `json:"storeLocation"`
	PostCode      int     `json:"postCode"`
	Price         float64 `json:"price"`
	IsAvailable   bool    `json:"isAvailable"`
}

func roseP() flowerPayload {
	return flowerPayload{Category: "Roses", Name: "Rose", StoreLocation: "Kyiv", PostCode: 1001, Price: 10, IsAvailable: true}
}

func tulipP() flowerPayload {
	return flowerPayload{Category: "Tulips", Name: "Tulip", StoreLocation: "Lviv", PostCode: 79000, Price: 5, IsAvailable: false}
}

// do sends a request with the optional version header and JSON body.
func (s *FlowerServiceE2ESuite) do(method, path, version string, payload any) *http.Response {
	s.T().Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		s.Require().NoError(err)
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(s.ctx, method, s.server.URL+path, body)
	s.Require().NoError(err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if version != "" {
		req.Header.Set(rest.VersionHeader, version)
	}
	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (s *FlowerServiceE2ESuite) create(p flowerPayload) service.FlowerDto {
	s.T().Helper()
	resp := s.do(http.MethodPost, flowersURL, "", p)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var created service.FlowerDto
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&created))
	s.Require().Equal(flowersURL+"/"+created.ID, resp.Header.Get("Location"))
	return created
}

func (s *FlowerServiceE2ESuite) list(query, version string) []service.FlowerDto {
	s.T().Helper()
	resp := s.do(http.MethodGet, flowersURL+query, version, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var list []service.FlowerDto
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&list))
	s.Require().NotNil(list, "list must be a JSON array")
	return list
}

func names(list []service.FlowerDto) []string {
	out := make([]string, 0, len(list))
	for _, f := range list {
		out = append(out, f.Name)
	}
	return out
}

// --------------------------------------------------------------------------
// ------------------------------- Tests ------------------------------------
// --------------------------------------------------------------------------

func (s *FlowerServiceE2ESuite) Test_VersionedListing() {
	// given
	s.create(roseP())
	s.create(tulipP())

	// then
	s.Equal([]string{"Rose", "Tulip"}, names(s.list("", "")))
	s.Equal([]string{"Rose", "Tulip"}, names(s.list("", "1.0")))
	s.Equal([]string{"Rose"}, names(s.list("", "2.0")))
	s.Equal([]string{"Rose"}, names(s.list("?minPrice=8", "1.0")))
}

func (s *FlowerServiceE2ESuite) Test_UnsupportedVersion() {
	resp := s.do(http.MethodGet, flowersURL, "9.0", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("1.0, 2.0", resp.Header.Get(rest.SupportedVersionsHeader))
}

func (s *FlowerServiceE2ESuite) Test_CreateGetRoundTrip() {
	// given
	p := roseP()
	p.ID = "ffffffffffffffffffffffff"

	// when
	created := s.create(p)
	resp := s.do(http.MethodGet, flowersURL+"/"+created.ID, "", nil)

	// then
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var found service.FlowerDto
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&found))
	s.NotEqual(p.ID, found.ID)
	s.Equal(created.ID, found.ID)
	s.Equal("Rose", found.Name)
	s.Equal("Roses", found.Category)
	s.Equal("Kyiv", found.StoreLocation)
	s.Equal(1001, found.PostCode)
	s.Equal("10", found.Price.String())
	s.True(found.IsAvailable)
}

func (s *FlowerServiceE2ESuite) Test_UpdateKeepsPathID() {
	// given
	created := s.create(roseP())
	update := tulipP()
	update.ID = "ffffffffffffffffffffffff"

	// when
	resp := s.do(http.MethodPut, flowersURL+"/"+created.ID, "", update)

	// then
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)
	list := s.list("", "1.0")
	s.Require().Len(list, 1)
	s.Equal(created.ID, list[0].ID)
	s.Equal("Tulip", list[0].Name)
}

func (s *FlowerServiceE2ESuite) Test_UpdateMissing() {
	missing := flowersURL + "/507f1f77bcf86cd799439011"
	s.Equal(http.StatusNotFound, s.do(http.MethodPut, missing, "1.0", roseP()).StatusCode)
	s.Equal(http.StatusBadRequest, s.do(http.MethodPut, missing, "2.0", roseP()).StatusCode)
}

func (s *FlowerServiceE2ESuite) Test_Delete() {
	// given
	created := s.create(roseP())
	path := flowersURL + "/" + created.ID

	// when
	resp := s.do(http.MethodDelete, path, "2.0", nil)

	// then
	s.Equal(http.StatusNoContent, resp.StatusCode)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, path, "", nil).StatusCode)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, path, "", nil).StatusCode)
}

func (s *FlowerServiceE2ESuite) Test_InvalidIDDoesNotMatchRoute() {
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, flowersURL+"/123", "", nil).StatusCode)
}

func (s *FlowerServiceE2ESuite) Test_Validation() {
	resp := s.do(http.MethodPost, flowersURL, "", map[string]any{"name": "Rose"})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	var body map[string]map[string]string
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Contains(body["validation_errors"], "price")
}

func (s *FlowerServiceE2ESuite) Test_SortFilterPaginate() {
	// given
	for i := range 7 {
		p := roseP()
		p.Name = fmt.Sprintf("Rose %d", i)
		p.Price = float64(i)
		s.create(p)
	}
	s.create(tulipP())

	// then
	s.Equal([]string{"Rose 6", "Rose 5", "Rose 4"}, names(s.list("?category=ROSE&sortBy=price&sortOrder=desc&size=3", "")))
	s.Equal([]string{"Rose 3", "Rose 2", "Rose 1"}, names(s.list("?category=rose&sortBy=price&sortOrder=desc&size=3&page=2", "")))
	s.Equal([]string{"Rose 0"}, names(s.list("?category=rose&sortBy=price&sortOrder=desc&size=3&page=3", "")))
	s.Empty(s.list("?size=0", ""))
	s.Len(s.list("?page=-1&size=2", ""), 2)
	s.Equal([]string{"Rose 2", "Rose 3"}, names(s.list("?minPrice=2&maxPrice=3&sortBy=Name", "")))
	s.Equal([]string{"Tulip"}, names(s.list("?postCode=79000", "")))
}

func (s *FlowerServiceE2ESuite) Test_EventsPublished() {
	// given
	created := s.create(roseP())
	s.Require().Equal(http.StatusNoContent, s.do(http.MethodDelete, flowersURL+"/"+created.ID, "", nil).StatusCode)

	// then
	stream, err := s.js.Stream(s.ctx, streamName)
	s.Require().NoError(err)
	for _, subject := range []string{messaging.FlowersCreatedSubject, messaging.FlowersDeletedSubject} {
		msg, err := stream.GetLastMsgForSubject(s.ctx, subject)
		s.Require().NoError(err, subject)
		var payload map[string]any
		s.Require().NoError(json.Unmarshal(msg.Data, &payload))
		s.Equal(created.ID, payload["flower_id"], subject)
	}
}
