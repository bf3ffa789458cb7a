package main

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type NoArgs struct{}

type CompetitionFilterArgs struct {
	SeasonID   string `json:"season_id,omitempty" jsonschema:"Season id filter (optional)"`
	CategoryID string `json:"category_id,omitempty" jsonschema:"Category id filter (optional)"`
}

type CompetitionArgs struct {
	CompetitionID string `json:"competition_id" jsonschema:"Competition id (required)"`
}

type TeamArgs struct {
	CompetitionID string `json:"competition_id" jsonschema:"Competition id (required)"`
	TeamID        string `json:"team_id" jsonschema:"Team id (required)"`
}

type TeamPlayersArgs struct {
	CompetitionID string `json:"competition_id" jsonschema:"Competition id (required)"`
	TeamID        string `json:"team_id" jsonschema:"Team id (required)"`
	Order         string `json:"order,omitempty" jsonschema:"Sort order: ppg|points (default ppg)"`
	Minutes       string `json:"minutes,omitempty" jsonschema:"Minutes source: auto|direct|substitutions (default from config)"`
}

type PlayerMatchesArgs struct {
	CompetitionID string `json:"competition_id" jsonschema:"Competition id (required)"`
	TeamID        string `json:"team_id" jsonschema:"Team id (required)"`
	PlayerID      string `json:"player_id" jsonschema:"Player id (required)"`
}

type DataQualityArgs struct {
	CompetitionID string `json:"competition_id" jsonschema:"Competition id (required)"`
	TeamID        string `json:"team_id,omitempty" jsonschema:"Restrict the audit to one team (optional)"`
}

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func registerTools(server *mcp.Server, svc *service) []toolInfo {
	registry := make([]toolInfo, 0, 8)

	addTool(server, &registry, &mcp.Tool{
		Name:        "list_seasons",
		Description: "Seasons available in the league data, newest first",
	}, svc.listSeasonsTool)

	addTool(server, &registry, &mcp.Tool{
		Name:        "list_categories",
		Description: "Age/level categories; mini categories play 10-minute periods",
	}, svc.listCategoriesTool)

	addTool(server, &registry, &mcp.Tool{
		Name:        "list_competitions",
		Description: "Competitions, optionally filtered by season and category",
	}, svc.listCompetitionsTool)

	addTool(server, &registry, &mcp.Tool{
		Name:        "standings",
		Description: "League table for a competition (2 points per win, 1 per loss) plus data issues",
	}, svc.standingsTool)

	addTool(server, &registry, &mcp.Tool{
		Name:        "team_players",
		Description: "Per-player totals and per-game rates for a team's roster",
	}, svc.teamPlayersTool)

	addTool(server, &registry, &mcp.Tool{
		Name:        "team_matches",
		Description: "A team's matches with opponent, score, result and team shooting, newest first",
	}, svc.teamMatchesTool)

	addTool(server, &registry, &mcp.Tool{
		Name:        "player_matches",
		Description: "Match-by-match points, free throws and minutes for one player",
	}, svc.playerMatchesTool)

	addTool(server, &registry, &mcp.Tool{
		Name:        "data_quality",
		Description: "Audit of ties, unknown teams, unrostered players and broken substitution logs",
	}, svc.dataQualityTool)

	return registry
}

func addTool[T any](server *mcp.Server, registry *[]toolInfo, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	*registry = append(*registry, toolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(server, tool, handler)
}

func (s *service) listSeasonsTool(ctx context.Context, req *mcp.CallToolRequest, args NoArgs) (*mcp.CallToolResult, any, error) {
	return toolJSON(marshal(s.seasons(ctx)))
}

func (s *service) listCategoriesTool(ctx context.Context, req *mcp.CallToolRequest, args NoArgs) (*mcp.CallToolResult, any, error) {
	return toolJSON(marshal(s.categories(ctx)))
}

func (s *service) listCompetitionsTool(ctx context.Context, req *mcp.CallToolRequest, args CompetitionFilterArgs) (*mcp.CallToolResult, any, error) {
	return toolJSON(marshal(s.competitions(ctx, args.SeasonID, args.CategoryID)))
}

func (s *service) standingsTool(ctx context.Context, req *mcp.CallToolRequest, args CompetitionArgs) (*mcp.CallToolResult, any, error) {
	return toolJSON(marshal(s.standings(ctx, args.CompetitionID)))
}

func (s *service) teamPlayersTool(ctx context.Context, req *mcp.CallToolRequest, args TeamPlayersArgs) (*mcp.CallToolResult, any, error) {
	return toolJSON(marshal(s.teamPlayers(ctx, args.CompetitionID, args.TeamID, args.Minutes, args.Order)))
}

func (s *service) teamMatchesTool(ctx context.Context, req *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
	return toolJSON(marshal(s.teamMatches(ctx, args.CompetitionID, args.TeamID)))
}

func (s *service) playerMatchesTool(ctx context.Context, req *mcp.CallToolRequest, args PlayerMatchesArgs) (*mcp.CallToolResult, any, error) {
	return toolJSON(marshal(s.playerMatches(ctx, args.CompetitionID, args.TeamID, args.PlayerID)))
}

func (s *service) dataQualityTool(ctx context.Context, req *mcp.CallToolRequest, args DataQualityArgs) (*mcp.CallToolResult, any, error) {
	return toolJSON(marshal(s.dataQuality(ctx, args.CompetitionID, args.TeamID)))
}
