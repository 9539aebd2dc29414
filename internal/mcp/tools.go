package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listStoriesTool defines the list_stories MCP tool.
var listStoriesTool = mcp.NewTool("list_stories",
	mcp.WithDescription("List the stories in the library with their slugs, titles and chapter counts."),
)

// getStoryOverviewTool defines the get_story_overview MCP tool.
var getStoryOverviewTool = mcp.NewTool("get_story_overview",
	mcp.WithDescription("Get a story's intro text and its full chapter listing with IDs, places and dates."),
	mcp.WithString("slug",
		mcp.Required(),
		mcp.Description("Story slug as returned by list_stories"),
	),
)

// getChapterTool defines the get_chapter MCP tool.
var getChapterTool = mcp.NewTool("get_chapter",
	mcp.WithDescription("Get one chapter's full text, location and camera framing."),
	mcp.WithString("slug",
		mcp.Required(),
		mcp.Description("Story slug"),
	),
	mcp.WithString("chapter_id",
		mcp.Required(),
		mcp.Description("Chapter ID from the story's chapter listing"),
	),
)

// searchChaptersTool defines the search_chapters MCP tool.
var searchChaptersTool = mcp.NewTool("search_chapters",
	mcp.WithDescription("Search a story's chapters. Uses vector similarity when an embedding provider is configured, plain text matching otherwise."),
	mcp.WithString("slug",
		mcp.Required(),
		mcp.Description("Story slug"),
	),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of matches to return (default 5)"),
	),
)
