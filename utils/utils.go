package utils

import "strings"

func StringInSlice(a string, list []string) bool {
	for _, b := range list {
		if b == a {
			return true
		}
	}
	return false
}

// SplitCommaParam splits a comma separated query value, dropping blanks
// and duplicates while keeping the first-seen order.
func SplitCommaParam(value string) []string {
	out := []string{}
	for _, token := range strings.Split(value, ",") {
		token = strings.TrimSpace(token)
		if token == "" || StringInSlice(token, out) {
			continue
		}
		out = append(out, token)
	}
	return out
}
