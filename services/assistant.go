package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai"

	"travel-assistant/dates"
	"travel-assistant/models"
)

// historyWindow is the number of prior messages forwarded to the LLM
const historyWindow = 20

// AssistantConfig configures an Assistant
type AssistantConfig struct {
	LLM       LLMPolicy
	ScopeGate bool
}

// Assistant runs one conversational turn: scope check, tool selection,
// argument preparation, a single tool execution and the follow-up reply.
type Assistant struct {
	llm       ChatCompleter
	tools     *ToolExecutor
	locations *LocationResolver
	cfg       AssistantConfig
	now       func() time.Time
}

// NewAssistant creates an Assistant
func NewAssistant(llm ChatCompleter, tools *ToolExecutor, locations *LocationResolver, cfg AssistantConfig) *Assistant {
	return &Assistant{
		llm:       llm,
		tools:     tools,
		locations: locations,
		cfg:       cfg,
		now:       time.Now,
	}
}

// preparedCall is a tool invocation ready to run, or the reason it cannot
type preparedCall struct {
	inv models.ToolInvocation
	// reply ends the turn without running the tool or a follow-up
	reply *models.ChatResponse
	// result replaces execution and still gets a follow-up
	result *models.ToolResult
	// confirmation is prepended to the follow-up text
	confirmation string
}

// Reply produces the assistant's answer to turn. The only errors returned are
// LLM failures (ErrLLMUnavailable, ErrLLMTimeout); everything else becomes a reply.
func (a *Assistant) Reply(ctx context.Context, turn models.ChatTurn) (*models.ChatResponse, error) {
	message := strings.TrimSpace(turn.Message)
	if isGreeting(message) {
		return models.TextReply(greetingReply), nil
	}

	now := a.now()
	history := conversationHistory(turn.History)

	if a.cfg.ScopeGate {
		inScope, err := a.inScope(ctx, message, lastAssistantMessage(history))
		if err != nil {
			return nil, err
		}
		if !inScope {
			return models.TextReply(outOfScopeReply), nil
		}
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+4)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(now)})
	messages = append(messages, history...)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	selection, err := complete(ctx, a.llm, a.cfg.LLM, callSelect, openai.ChatCompletionRequest{
		Messages:   messages,
		Tools:      toolDefinitions(),
		ToolChoice: "auto",
	})
	if err != nil {
		return nil, err
	}

	if len(selection.ToolCalls) == 0 {
		return models.TextReply(lo.CoalesceOrEmpty(strings.TrimSpace(selection.Content), emptyReply)), nil
	}
	if len(selection.ToolCalls) > 1 {
		log.Printf("LLM requested %d tool calls, running only %s", len(selection.ToolCalls), selection.ToolCalls[0].Function.Name)
	}
	call := selection.ToolCalls[0]

	prepared := a.prepare(ctx, turn, call, now)
	if prepared.reply != nil {
		return prepared.reply, nil
	}

	var result models.ToolResult
	if prepared.result != nil {
		result = *prepared.result
	} else {
		result = a.tools.Execute(ctx, prepared.inv)
	}

	// echo only the executed call so the tool message always answers it
	selection.ToolCalls = []openai.ToolCall{call}
	messages = append(messages, selection, openai.ChatCompletionMessage{
		Role:       openai.ChatMessageRoleTool,
		Content:    result.String(),
		Name:       call.Function.Name,
		ToolCallID: call.ID,
	})

	followUp, err := complete(ctx, a.llm, a.cfg.LLM, callFollowUp, openai.ChatCompletionRequest{Messages: messages})
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(followUp.Content)
	if prepared.confirmation != "" {
		text = prepared.confirmation + "\n\n" + text
	}

	resp := models.TextReply(text)
	if tours, ok := result.Data.(models.TourResults); ok && prepared.inv.Name == models.ToolRecommendTours {
		city := tours.City
		resp.City = &city
	}
	return resp, nil
}

func (a *Assistant) inScope(ctx context.Context, message, lastAssistant string) (bool, error) {
	answer, err := complete(ctx, a.llm, a.cfg.LLM, callScope, openai.ChatCompletionRequest{
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: scopePrompt},
			{Role: openai.ChatMessageRoleUser, Content: scopeQuestion(message, lastAssistant)},
		},
	})
	if err != nil {
		return false, err
	}
	return affirmative(answer.Content), nil
}

// prepare decodes the tool call and fills in or checks its arguments
func (a *Assistant) prepare(ctx context.Context, turn models.ChatTurn, call openai.ToolCall, now time.Time) preparedCall {
	inv, err := models.DecodeToolInvocation(call.ID, call.Function.Name, call.Function.Arguments)
	switch {
	case errors.Is(err, models.ErrUnknownTool):
		// the executor answers unknown names with an error result
		log.Printf("LLM selected unknown tool %q", call.Function.Name)
		return preparedCall{inv: inv}
	case err != nil && inv.Name == models.ToolSearchFlights:
		log.Printf("Unreadable search_flights arguments: %v", err)
		return preparedCall{inv: inv, reply: models.TextReply(flightDetailsReply(nil))}
	case err != nil:
		log.Printf("Unreadable %s arguments: %v", inv.Name, err)
		result := models.ToolError("Invalid arguments for %s: %v", inv.Name, err)
		return preparedCall{inv: inv, result: &result}
	}

	switch args := inv.Arguments.(type) {
	case *models.FlightSearchArgs:
		return a.prepareFlights(ctx, inv, args, turn, now)
	case *models.HotelSearchArgs:
		return a.prepareHotels(ctx, inv, args, now)
	case *models.TourArgs:
		prepareTours(args, turn, now)
	}
	return preparedCall{inv: inv}
}

func (a *Assistant) prepareFlights(ctx context.Context, inv models.ToolInvocation, args *models.FlightSearchArgs, turn models.ChatTurn, now time.Time) preparedCall {
	if err := a.tools.validate.Struct(args); err != nil {
		return preparedCall{inv: inv, reply: models.TextReply(flightDetailsReply(missingFields(err)))}
	}

	raw := args.DepartureDate
	var date dates.NormalizedDate
	if _, literal := dates.YearLiteral(raw); literal && turn.PendingDate != "" {
		date = dates.ResolveWithYear(turn.PendingDate, raw, now)
		if date.Status == dates.StatusPast {
			return preparedCall{inv: inv, reply: &models.ChatResponse{
				Response:    fmt.Sprintf("That date (%s) has already passed this year. Would you like to search next year instead?", turn.PendingDate),
				PendingDate: turn.PendingDate,
			}}
		}
	} else {
		date = dates.Normalize(raw, now)
	}

	switch date.Status {
	case dates.StatusUnrecognized:
		return preparedCall{inv: inv, reply: models.TextReply(fmt.Sprintf(
			"I couldn't understand the departure date %q. Could you give it as a day and month, for example \"March 3\" or \"2027-03-03\"?", raw))}
	case dates.StatusPast:
		return preparedCall{inv: inv, reply: &models.ChatResponse{
			Response:    fmt.Sprintf("It looks like %s has already passed. Did you mean this year or next year?", raw),
			PendingDate: raw,
		}}
	}

	origin, ok := a.locations.ResolveCode(ctx, args.Origin)
	if !ok {
		return preparedCall{inv: inv, reply: models.TextReply(unresolvedPlaceReply(args.Origin))}
	}
	destination, ok := a.locations.ResolveCode(ctx, args.Destination)
	if !ok {
		return preparedCall{inv: inv, reply: models.TextReply(unresolvedPlaceReply(args.Destination))}
	}

	args.Origin, args.Destination, args.DepartureDate = origin, destination, date.String()

	return preparedCall{
		inv: inv,
		confirmation: fmt.Sprintf("Got it! You want flights on %s from %s to %s.",
			date.Date.Format("January 2, 2006"), origin, destination),
	}
}

func (a *Assistant) prepareHotels(ctx context.Context, inv models.ToolInvocation, args *models.HotelSearchArgs, now time.Time) preparedCall {
	args.CheckinDate = normalizeIfPossible(args.CheckinDate, now)
	args.CheckoutDate = normalizeIfPossible(args.CheckoutDate, now)

	if args.CityCode == "" {
		return preparedCall{inv: inv}
	}
	code, ok := a.locations.ResolveCode(ctx, args.CityCode)
	if !ok {
		result := models.ToolError("Could not find a city code for %s", args.CityCode)
		return preparedCall{inv: inv, result: &result}
	}
	args.CityCode = code
	return preparedCall{inv: inv}
}

// prepareTours injects the client's last known city, or its location, when
// the LLM did not name a city
func prepareTours(args *models.TourArgs, turn models.ChatTurn, now time.Time) {
	args.StartDate = normalizeIfPossible(args.StartDate, now)
	args.EndDate = normalizeIfPossible(args.EndDate, now)

	if args.City != "" {
		return
	}
	if turn.LastKnownCity != "" {
		args.City = turn.LastKnownCity
	} else if turn.UserLocation != nil {
		loc := *turn.UserLocation
		args.UserLocation = &loc
	}
}

// normalizeIfPossible rewrites raw as YYYY-MM-DD when it resolves to an
// upcoming date and leaves it untouched otherwise
func normalizeIfPossible(raw string, now time.Time) string {
	if raw == "" {
		return raw
	}
	if date := dates.Normalize(raw, now); date.OK() {
		return date.String()
	}
	return raw
}

func flightDetailsReply(missing []string) string {
	const base = "To search for flights I need the origin, the destination and the departure date."
	if len(missing) == 0 {
		return base + " Could you tell me where you're flying from, where to and when?"
	}
	return fmt.Sprintf("%s I'm still missing: %s.", base, strings.Join(lo.Map(missing, func(f string, _ int) string {
		return strings.ReplaceAll(f, "_", " ")
	}), ", "))
}

func unresolvedPlaceReply(place string) string {
	return fmt.Sprintf("I couldn't find an airport or city code for %q. Could you give the city name or its 3-letter airport code?", place)
}

func isGreeting(message string) bool {
	normalized := strings.ToLower(strings.TrimRight(strings.TrimSpace(message), ".!?, "))
	return lo.Contains(greetings, normalized)
}

// conversationHistory keeps the latest user and assistant messages with content
func conversationHistory(history []models.HistoryMessage) []openai.ChatCompletionMessage {
	kept := lo.Filter(history, func(m models.HistoryMessage, _ int) bool {
		return (m.Role == models.RoleUser || m.Role == models.RoleAssistant) && strings.TrimSpace(m.Content) != ""
	})
	if len(kept) > historyWindow {
		kept = kept[len(kept)-historyWindow:]
	}
	return lo.Map(kept, func(m models.HistoryMessage, _ int) openai.ChatCompletionMessage {
		return openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	})
}

func lastAssistantMessage(history []openai.ChatCompletionMessage) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == openai.ChatMessageRoleAssistant {
			return history[i].Content
		}
	}
	return ""
}
