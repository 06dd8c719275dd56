// Package mcpserver exposes rounds and scoring as MCP tools over streamable
// HTTP. Tools return JSON text content; failures are IsError results.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jcturnbull/DailyDraft/internal/game"
)

// Version is reported in the MCP implementation info.
const Version = "1.0.0"

// Tools holds the dependencies of the tool handlers.
type Tools struct {
	Data      game.Datasets
	Generator *game.Generator
	// Now defaults to time.Now.
	Now func() time.Time
}

// RoundArgs is the input of daily_round. Date defaults to today (UTC).
type RoundArgs struct {
	Date string `json:"date,omitempty" jsonschema:"Round date YYYY-MM-DD (default today, UTC)"`
}

// PracticeArgs is the input of practice_round (no parameters).
type PracticeArgs struct{}

// EligibleArgs is the input of eligible_players.
type EligibleArgs struct {
	Position string `json:"position" jsonschema:"One of QB, WR, RB, TE"`
	Year     int    `json:"year" jsonschema:"Season"`
}

// ScoreArgs is the input of score_answer.
type ScoreArgs struct {
	Seed     string `json:"seed" jsonschema:"Round seed as returned by daily_round or practice_round"`
	Index    int    `json:"index" jsonschema:"Question index 0-4"`
	PlayerID string `json:"player_id,omitempty" jsonschema:"Chosen player id (empty for no selection)"`
	Name     string `json:"player_name,omitempty" jsonschema:"Chosen player name"`
}

// ShareArgs is the input of share_text.
type ShareArgs struct {
	Date    string                 `json:"date" jsonschema:"Round date YYYY-MM-DD"`
	Results map[string]game.Result `json:"results" jsonschema:"Results keyed by question index 0-4"`
}

// RoundQuestion is a question without its answer.
type RoundQuestion struct {
	Index     int    `json:"index"`
	Slot      string `json:"slot"`
	Year      int    `json:"year"`
	Statistic string `json:"statistic,omitempty"`
	Prompt    string `json:"prompt"`
	DataIssue bool   `json:"data_issue"`
}

// RoundResult is the output of daily_round and practice_round.
type RoundResult struct {
	Mode      game.Mode       `json:"mode"`
	Date      string          `json:"date,omitempty"`
	Seed      string          `json:"seed"`
	Questions []RoundQuestion `json:"questions"`
}

// ScoreResult is the output of score_answer.
type ScoreResult struct {
	Result      game.Result `json:"result"`
	LeaderID    *string     `json:"leader_player_id"`
	LeaderName  *string     `json:"leader_name"`
	LeaderValue *float64    `json:"leader_value"`
}

// NewServer registers every tool on a new MCP server.
func NewServer(t *Tools) *mcp.Server {
	if t.Now == nil {
		t.Now = time.Now
	}

	server := mcp.NewServer(&mcp.Implementation{Name: "dailydraft", Version: Version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "daily_round",
		Description: "The five questions of a day's round, identical for every caller",
	}, t.DailyRound)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "practice_round",
		Description: "A freshly generated random round; keep the seed to score answers",
	}, t.PracticeRound)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "eligible_players",
		Description: "Players at a position who recorded usage in a season, sorted by name",
	}, t.EligiblePlayers)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "score_answer",
		Description: "Score a player pick for one question of a round and reveal the leader",
	}, t.ScoreAnswer)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "share_text",
		Description: "Render the copyable summary of a finished daily round",
	}, t.ShareText)

	return server
}

// Handler serves server over streamable HTTP with JSON responses.
func Handler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

func (t *Tools) dailySeed(date string) (int64, string, error) {
	if date == "" {
		seed, d := game.SeedAndDateForNow(t.Now())
		return seed, d, nil
	}
	day, err := time.Parse(game.DateLayout, date)
	if err != nil {
		return 0, "", fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	seed, d := game.SeedAndDateForNow(day)
	return seed, d, nil
}

func roundOf(mode game.Mode, date string, seed int64, questions []game.Question) RoundResult {
	out := RoundResult{Mode: mode, Date: date, Seed: strconv.FormatInt(seed, 10)}
	for _, q := range questions {
		out.Questions = append(out.Questions, RoundQuestion{
			Index:     q.Index,
			Slot:      string(q.Slot),
			Year:      q.Year,
			Statistic: q.Statistic,
			Prompt:    q.Prompt,
			DataIssue: q.DataIssue,
		})
	}
	return out
}

// DailyRound handles daily_round.
func (t *Tools) DailyRound(ctx context.Context, _ *mcp.CallToolRequest, args RoundArgs) (*mcp.CallToolResult, any, error) {
	seed, date, err := t.dailySeed(args.Date)
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(roundOf(game.ModeDaily, date, seed, t.Generator.ForSeed(ctx, seed)))
}

// PracticeRound handles practice_round.
func (t *Tools) PracticeRound(ctx context.Context, _ *mcp.CallToolRequest, _ PracticeArgs) (*mcp.CallToolResult, any, error) {
	seed := game.NewPracticeSeed()
	return toolJSON(roundOf(game.ModePractice, "", seed, t.Generator.ForSeed(ctx, seed)))
}

// EligiblePlayers handles eligible_players.
func (t *Tools) EligiblePlayers(ctx context.Context, _ *mcp.CallToolRequest, args EligibleArgs) (*mcp.CallToolResult, any, error) {
	if _, ok := game.StatMenu[args.Position]; !ok {
		return toolError(fmt.Errorf("position must be one of QB, WR, RB, TE, got %q", args.Position)), nil, nil
	}
	years := t.Generator.Years()
	if args.Year < years.Floor || args.Year > years.Ceiling {
		return toolError(fmt.Errorf("year must be between %d and %d", years.Floor, years.Ceiling)), nil, nil
	}
	return toolJSON(game.Eligible(ctx, t.Data, args.Position, args.Year))
}

// ScoreAnswer handles score_answer.
func (t *Tools) ScoreAnswer(ctx context.Context, _ *mcp.CallToolRequest, args ScoreArgs) (*mcp.CallToolResult, any, error) {
	seed, err := strconv.ParseInt(args.Seed, 10, 64)
	if err != nil {
		return toolError(fmt.Errorf("seed must be an integer: %w", err)), nil, nil
	}
	questions := t.Generator.ForSeed(ctx, seed)
	if args.Index < 0 || args.Index >= len(questions) {
		return toolError(fmt.Errorf("index must be between 0 and %d", len(questions)-1)), nil, nil
	}
	q := questions[args.Index]
	return toolJSON(ScoreResult{
		Result:      game.Answer(ctx, t.Data, q, args.PlayerID, args.Name),
		LeaderID:    q.LeaderPlayerID,
		LeaderName:  q.LeaderName,
		LeaderValue: q.LeaderValue,
	})
}

// ShareText handles share_text. Totals are recomputed from the results.
func (t *Tools) ShareText(ctx context.Context, _ *mcp.CallToolRequest, args ShareArgs) (*mcp.CallToolResult, any, error) {
	if args.Date == "" {
		return toolError(fmt.Errorf("date is required")), nil, nil
	}
	seed, date, err := t.dailySeed(args.Date)
	if err != nil {
		return toolError(err), nil, nil
	}
	results := make(map[int]game.Result, len(args.Results))
	for k, r := range args.Results {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 || i >= game.QuestionsPerRound {
			return toolError(fmt.Errorf("result key %q is not a question index", k)), nil, nil
		}
		results[i] = r
	}
	card := game.Tally(results)
	text := game.ShareText(card.Results, t.Generator.ForSeed(ctx, seed), card.Total, card.Max, date)
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}, nil, nil
}

func toolJSON(v interface{}) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(b)}}}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)}},
	}
}
