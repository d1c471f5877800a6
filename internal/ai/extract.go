package ai

import (
	"fmt"
	"regexp"
	"strings"
)

var fencedJSON = regexp.MustCompile("```(json)?\\s*([\\s\\S]*?)\\s*```")

// ExtractJSON schneidet das JSON aus einer Modellantwort heraus. Zuerst wird
// ein Markdown-Codeblock versucht, danach das erste/letzte Klammerpaar.
func ExtractJSON(content string) (string, error) {
	if m := fencedJSON.FindStringSubmatch(content); m != nil {
		return m[2], nil
	}

	start := strings.Index(content, "{")
	if start == -1 {
		start = strings.Index(content, "[")
	}
	end := strings.LastIndex(content, "}") + 1
	if end == 0 {
		end = strings.LastIndex(content, "]") + 1
	}
	if start == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return strings.TrimSpace(content[start:end]), nil
}

// extractPageObject holt das Transkriptionsobjekt aus einer Vision-Antwort.
// Manche Modelle packen Codeblock-Markierungen mitten in die Klammern.
func extractPageObject(content string) (string, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}") + 1
	if start == -1 || end <= start {
		return "", fmt.Errorf("no JSON found in response")
	}
	s := strings.TrimSpace(content[start:end])
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s), nil
}
