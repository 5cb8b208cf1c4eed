package research

import "fmt"

func contextSummaryPrompt(history string) string {
	return fmt.Sprintf(`You are helping a research assistant remember what a user has already studied.

Below are the topics and introductions of the research briefs previously produced for this user.
Compress them into a single paragraph that captures the subjects covered and the key conclusions, so that a new follow-up request can be interpreted in context.
Return only the paragraph.

Previous briefs:
---
%s
---
`, history)
}

func rewriteTopicPrompt(contextSummary, topic string) string {
	return fmt.Sprintf(`Given the summary of a user's previous research and their new follow-up request, rewrite the request as a standalone research question.
Resolve every reference to earlier research ("it", "that approach", "the second option", ...) so the question can be understood without the previous conversation.
Return only the rewritten question.

Previous research:
%s

Follow-up request: %s
`, contextSummary, topic)
}

func planPrompt(topic string) string {
	return fmt.Sprintf(`As a professional research assistant, create a detailed and actionable research plan for the following topic: '%s'.

Your plan must include:
1. A list of 3 specific research questions that need to be answered.
2. A list of 3 search engine queries that will be used to find relevant information.

Ensure the plan is comprehensive and directly addresses the user's topic.`, topic)
}

func sourceSummaryPrompt(url, topic, text string) string {
	return fmt.Sprintf(`Your task is to create a structured summary of the following text, which was extracted from the URL %s. The research is for the topic: '%s'.

Generate a JSON object with:
- "url": The original URL of the source.
- "title": The title of the web page.
- "key_points": A list of 3-5 key takeaways from the text as strings.
- "relevance_to_topic": A brief explanation of why this text is relevant to the main topic '%s'.
- "relevance_score": A score between 0 and 1 indicating the relevance of the text to the topic.
Do not return any additional text or explanations, just the JSON object.

Here is the text to summarize:
---
%s
---
`, url, topic, topic, text)
}

func synthesisPrompt(topic, summariesJSON string) string {
	return fmt.Sprintf(`As a senior research analyst, your task is to produce a comprehensive research brief on the topic: "%s".

You have been provided with a list of structured summaries from various web sources. Synthesize this information into a single, coherent and well-structured report with:
- "topic": The original research topic.
- "introduction": A brief, engaging introduction to the topic.
- "synthesis": A highly detailed synthesis of the information from the provided summaries. This is the main body of the brief; combine insights, answer the core research questions and highlight areas of consensus or disagreement among the sources.
- "references": The list of source summaries you used.
- "potential_follow_ups": A list of 2-3 relevant follow-up questions or areas for future research.

Here are the source summaries in JSON format:
---
%s
---
`, topic, summariesJSON)
}
