package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"

	"travel-assistant/amadeus"
	"travel-assistant/models"
)

// testNow is mid-October so implicit spring dates fall in the next year
var testNow = time.Date(2026, time.October, 16, 14, 30, 0, 0, time.UTC)

type completion func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)

// fakeLLM replays scripted completions in order and records every request
type fakeLLM struct {
	mu       sync.Mutex
	replies  []completion
	requests []openai.ChatCompletionRequest
}

func newFakeLLM(replies ...completion) *fakeLLM {
	return &fakeLLM{replies: replies}
}

func (f *fakeLLM) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	if len(f.replies) == 0 {
		f.mu.Unlock()
		return openai.ChatCompletionResponse{}, errors.New("unexpected LLM call")
	}
	next := f.replies[0]
	f.replies = f.replies[1:]
	f.mu.Unlock()

	return next(ctx, req)
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeLLM) request(i int) openai.ChatCompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[i]
}

func respond(msg openai.ChatCompletionMessage) completion {
	return func(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: msg}},
		}, nil
	}
}

func text(content string) completion {
	return respond(openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content})
}

func toolCall(name, arguments string) completion {
	return respond(openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleAssistant,
		ToolCalls: []openai.ToolCall{{
			ID:       "call_1",
			Type:     openai.ToolTypeFunction,
			Function: openai.FunctionCall{Name: name, Arguments: arguments},
		}},
	})
}

func fail(err error) completion {
	return func(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, err
	}
}

// hang blocks until the call's context ends
func hang() completion {
	return func(ctx context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		<-ctx.Done()
		return openai.ChatCompletionResponse{}, ctx.Err()
	}
}

// fakeProvider serves canned provider data and counts calls per operation
type fakeProvider struct {
	mu    sync.Mutex
	calls map[string]int

	flights    []amadeus.FlightOffer
	flightsErr error
	hotels     []amadeus.HotelOffers
	hotelsErr  error
	// keyed by lower-case keyword
	locations    map[string][]amadeus.Location
	locationsErr error
	airports     []amadeus.Location
	airportsErr  error
	activities   []amadeus.Activity
	activityErr  error

	lastFlightSearch   amadeus.FlightSearch
	lastHotelSearch    amadeus.HotelSearch
	lastActivitySearch amadeus.ActivitySearch
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{calls: map[string]int{}, locations: map[string][]amadeus.Location{}}
}

func (p *fakeProvider) record(op string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls[op]++
}

func (p *fakeProvider) count(op string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[op]
}

func (p *fakeProvider) total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.calls {
		n += c
	}
	return n
}

func (p *fakeProvider) SearchFlightOffers(_ context.Context, search amadeus.FlightSearch) ([]amadeus.FlightOffer, error) {
	p.record("flights")
	p.lastFlightSearch = search
	return p.flights, p.flightsErr
}

func (p *fakeProvider) SearchHotelOffers(_ context.Context, search amadeus.HotelSearch) ([]amadeus.HotelOffers, error) {
	p.record("hotels")
	p.lastHotelSearch = search
	return p.hotels, p.hotelsErr
}

func (p *fakeProvider) SearchLocations(_ context.Context, keyword, _ string) ([]amadeus.Location, error) {
	p.record("locations")
	if p.locationsErr != nil {
		return nil, p.locationsErr
	}
	return p.locations[strings.ToLower(keyword)], nil
}

func (p *fakeProvider) NearestAirports(_ context.Context, _, _ float64) ([]amadeus.Location, error) {
	p.record("airports")
	return p.airports, p.airportsErr
}

func (p *fakeProvider) SearchActivities(_ context.Context, search amadeus.ActivitySearch) ([]amadeus.Activity, error) {
	p.record("activities")
	p.lastActivitySearch = search
	return p.activities, p.activityErr
}

func cityLocation(code, name string, lat, lon float64) amadeus.Location {
	return amadeus.Location{
		SubType:  amadeus.SubTypeCity,
		Name:     strings.ToUpper(name),
		IATACode: code,
		GeoCode:  amadeus.GeoCode{Latitude: lat, Longitude: lon},
		Address:  amadeus.Address{CityName: strings.ToUpper(name)},
	}
}

func flightOffer(airline, price, from, to string) amadeus.FlightOffer {
	return amadeus.FlightOffer{
		Price:                  amadeus.Price{Currency: "EUR", Total: price},
		ValidatingAirlineCodes: []string{airline},
		Itineraries: []amadeus.Itinerary{{Segments: []amadeus.Segment{
			{Departure: amadeus.FlightEndpoint{IATACode: from, At: "2027-03-03T08:00:00"}, Arrival: amadeus.FlightEndpoint{IATACode: "CDG", At: "2027-03-03T10:00:00"}},
			{Departure: amadeus.FlightEndpoint{IATACode: "CDG", At: "2027-03-03T11:00:00"}, Arrival: amadeus.FlightEndpoint{IATACode: to, At: "2027-03-03T12:00:00"}},
		}}},
	}
}

func activity(name, description string) amadeus.Activity {
	return amadeus.Activity{
		Name:             name,
		ShortDescription: description,
		Price:            amadeus.ActivityPrice{Amount: "25.00", CurrencyCode: "EUR"},
		BookingLink:      "https://example.com/" + strings.ReplaceAll(strings.ToLower(name), " ", "-"),
	}
}

// fakeStore is an in-memory LocationStore
type fakeStore struct {
	mu    sync.Mutex
	rows  map[string]models.Location
	saves int
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[string]models.Location{}}
}

func (s *fakeStore) Lookup(_ context.Context, keyword string) (*models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, ok := s.rows[keyword]
	if !ok {
		return nil, nil
	}
	return &loc, nil
}

func (s *fakeStore) Save(_ context.Context, location models.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[location.Keyword] = location
	s.saves++
	return nil
}

type testEnv struct {
	llm       *fakeLLM
	provider  *fakeProvider
	assistant *Assistant
}

func newTestEnv(t *testing.T, scopeGate bool, replies ...completion) *testEnv {
	t.Helper()

	llm := newFakeLLM(replies...)
	provider := newFakeProvider()
	locations := NewLocationResolver(provider, nil, time.Hour)
	tools := NewToolExecutor(provider, locations, DefaultDestinationCatalog())

	assistant := NewAssistant(llm, tools, locations, AssistantConfig{
		LLM:       LLMPolicy{Model: "test-model", Timeout: time.Second},
		ScopeGate: scopeGate,
	})
	assistant.now = func() time.Time { return testNow }

	return &testEnv{llm: llm, provider: provider, assistant: assistant}
}

// toolMessage returns the tool result sent with the follow-up call
func (e *testEnv) toolMessage(t *testing.T) openai.ChatCompletionMessage {
	t.Helper()
	followUp := e.llm.request(e.llm.calls() - 1)
	last := followUp.Messages[len(followUp.Messages)-1]
	if last.Role != openai.ChatMessageRoleTool {
		t.Fatalf("last follow-up message has role %q, want tool", last.Role)
	}
	return last
}
