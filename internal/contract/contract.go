// Package contract checks backend payloads before they are trusted as
// domain data. Checks run against the generic JSON document because a typed
// decode silently turns a missing field into its zero value.
package contract

import "encoding/json"

// IsValidAnalysis reports whether payload is a complete analysis document:
// html_version and page_title are strings, headings and links are objects,
// has_login_form is a boolean and analysis_time_ms is a number.
func IsValidAnalysis(payload any) bool {
	doc, ok := payload.(map[string]any)
	if !ok {
		return false
	}
	return isString(doc, "html_version") &&
		isString(doc, "page_title") &&
		isObject(doc, "headings") &&
		isObject(doc, "links") &&
		isBool(doc, "has_login_form") &&
		isNumber(doc, "analysis_time_ms")
}

// IsValidHealth reports whether payload is a health document: status,
// timestamp, version and build_date are strings, and git_commit and uptime
// are strings when present.
func IsValidHealth(payload any) bool {
	doc, ok := payload.(map[string]any)
	if !ok {
		return false
	}
	if !isString(doc, "status") || !isString(doc, "timestamp") ||
		!isString(doc, "version") || !isString(doc, "build_date") {
		return false
	}
	for _, key := range []string{"git_commit", "uptime"} {
		if _, present := doc[key]; present && !isString(doc, key) {
			return false
		}
	}
	return true
}

func isString(doc map[string]any, key string) bool {
	_, ok := doc[key].(string)
	return ok
}

func isBool(doc map[string]any, key string) bool {
	_, ok := doc[key].(bool)
	return ok
}

func isObject(doc map[string]any, key string) bool {
	_, ok := doc[key].(map[string]any)
	return ok
}

func isNumber(doc map[string]any, key string) bool {
	switch doc[key].(type) {
	case float64, json.Number:
		return true
	}
	return false
}
