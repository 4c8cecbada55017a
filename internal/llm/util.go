package llm

import "strings"

// CleanJSONBlock strips a markdown code fence from a model response. Gemini
// wraps JSON in ``` fences often enough, even under JSON response mode, that
// every consumer has to defend against it.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	body := text[3:]
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	// The fence's info string ("json") occupies the rest of the opening line.
	if nl := strings.Index(body, "\n"); nl >= 0 && isFenceInfo(body[:nl]) {
		body = body[nl+1:]
	}
	return strings.TrimSpace(body)
}

func isFenceInfo(line string) bool {
	line = strings.TrimSpace(line)
	return line == "" || (len(line) < 20 && !strings.ContainsAny(line, "{["))
}
