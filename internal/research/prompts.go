package research

import "fmt"

// Prompts for the three LLM steps: tool-name extraction, per-tool
// structuring and the final recommendation text.

const extractionSystem = `You are a tech researcher. Extract specific tool, library, platform, or service names from articles.
Focus on actual products/tools that developers can use, not general concepts or features.`

func extractionUser(query, content string) string {
	return fmt.Sprintf(`Query: %s
Article Content: %s

Extract a list of specific tool/service names mentioned in this content that are relevant to "%s".

Rules:
- Only include actual product names, not generic terms
- Focus on tools developers can directly use/implement
- Include both open source and commercial options
- Limit to the 5 most relevant tools
- Return just the tool names, one per line, no descriptions`, query, content, query)
}

const analysisSystem = `You are analyzing developer tools and programming technologies.
Focus on extracting information relevant to programmers and software developers.
Pay special attention to programming languages, frameworks, APIs, SDKs, and development workflows.
Reply with a single JSON object and nothing else.`

func analysisUser(toolName, content string) string {
	return fmt.Sprintf(`Company/Tool: %s
Website Content: %s

Analyze this content from a developer's perspective and reply with JSON using exactly these keys:
- "description": brief 1-sentence description of what this tool does for developers
- "website": the tool's homepage URL if mentioned, else ""
- "pricing_model": one of "free", "freemium", "paid", "enterprise", "unknown"
- "open_source": true if open source, false otherwise
- "has_api": true if a REST API, GraphQL API, SDK, or other programmatic access is mentioned
- "languages": array of programming languages explicitly supported (e.g. ["python", "go"])
- "tech_stack": array of frameworks, databases, or technologies supported/used
- "integrations": array of tools/platforms it integrates with (e.g. ["github", "vs code", "aws"])
- "popularity_score": integer 0-100 from community mentions, GitHub stars, Stack Overflow presence; null if unclear
- "community_activity": integer 0-100 from community engagement indicators
- "market_position": one of "leader", "challenger", "niche", "new"
- "trend_status": one of "rising", "hot", "emerging", "stable", "unknown"
- "documentation_quality": one of "poor", "good", "excellent", or "" if unclear`, toolName, content)
}

const recommendationSystem = `You are a senior software engineer providing quick, concise tech recommendations.
Keep responses brief and actionable - maximum 3-4 sentences total.`

func recommendationUser(query, toolData string) string {
	return fmt.Sprintf(`Developer Query: %s
Tools/Technologies Analyzed: %s

Provide a brief recommendation (3-4 sentences max) covering:
- Which tool is best and why
- Key cost/pricing consideration
- Main technical advantage

Be concise and direct - no long explanations needed.`, query, toolData)
}
