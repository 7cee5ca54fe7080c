package planner

import (
	"regexp"
	"strings"
)

var (
	toolsPattern     = regexp.MustCompile(`(?s)<TOOLS>(.*?)</TOOLS>`)
	reasoningPattern = regexp.MustCompile(`(?s)<think>.*?</think>`)
)

// tokenCutset is trimmed from both ends of every proposed name.
const tokenCutset = " \t\r\n\"'`"

// ExtractToolNames returns the names listed in the first <TOOLS>...</TOOLS>
// span of response, in order. Duplicates are kept. A response without the
// span returns a *PlanFormatError.
func ExtractToolNames(response string) ([]string, error) {
	match := toolsPattern.FindStringSubmatch(response)
	if match == nil {
		return nil, &PlanFormatError{Response: response}
	}

	return SplitToolList(match[1]), nil
}

// SplitToolList splits a comma separated list, trimming whitespace and quotes
// around every name and dropping empty names.
func SplitToolList(list string) []string {
	names := []string{}
	for _, tok := range strings.Split(list, ",") {
		name := strings.Trim(tok, tokenCutset)
		if name == "" {
			continue
		}
		names = append(names, name)
	}

	return names
}

// stripReasoning removes <think> blocks emitted by reasoning models, so a
// draft list inside them is not mistaken for the answer.
func stripReasoning(response string) string {
	return reasoningPattern.ReplaceAllString(response, "")
}
