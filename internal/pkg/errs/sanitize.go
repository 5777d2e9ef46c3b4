package errs

import "strings"

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// sanitize keeps error messages on a single log line.
func sanitize(s string) string {
	return lineBreaks.Replace(s)
}
