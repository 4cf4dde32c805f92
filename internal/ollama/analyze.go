package ollama

import (
	"context"
	"fmt"
)

// Chat forwards a free-form chat message, optionally prefixed with gathered
// context (recent logs, test summaries) serialized by the caller.
func (c *Client) Chat(ctx context.Context, message, contextData string) (string, error) {
	prompt := message
	if contextData != "" {
		prompt = fmt.Sprintf("Use the following system context when answering.\n\nContext:\n%s\n\nQuestion: %s", contextData, message)
	}
	return c.Generate(ctx, prompt)
}

// AnalyzeLogs asks the model for insights over raw log content.
func (c *Client) AnalyzeLogs(ctx context.Context, logs string) (string, error) {
	prompt := fmt.Sprintf(`Analyze the following logs and provide insights:

%s

Please provide:
1. Key issues or errors
2. Performance metrics
3. Security concerns
4. Recommendations`, logs)
	return c.Generate(ctx, prompt)
}

// AnalyzeTests asks the model for insights over serialized test results.
func (c *Client) AnalyzeTests(ctx context.Context, testResults string) (string, error) {
	prompt := fmt.Sprintf(`Analyze the following test results and provide insights:

%s

Please provide:
1. Test coverage analysis
2. Failed test patterns
3. Performance bottlenecks
4. Recommendations for improvement`, testResults)
	return c.Generate(ctx, prompt)
}

// AnalyzeSecurity asks the model for a risk assessment over security data.
func (c *Client) AnalyzeSecurity(ctx context.Context, securityData string) (string, error) {
	prompt := fmt.Sprintf(`Analyze the following security data and provide insights:

%s

Please provide:
1. Security vulnerabilities
2. Risk assessment
3. Compliance issues
4. Recommendations for improvement`, securityData)
	return c.Generate(ctx, prompt)
}
