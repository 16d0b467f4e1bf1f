package xmain

import "strings"

// wrap breaks s into lines that end before column width when each line after the first
// is indented to column indent. The first line is assumed to start at indent already.
// Words longer than a line are kept whole.
func wrap(indent, width int, s string) string {
	max := width - indent
	if max < 20 {
		max = 20
	}
	pad := "\n" + strings.Repeat(" ", indent)

	var lines []string
	for _, para := range strings.Split(s, "\n") {
		line := ""
		for _, w := range strings.Fields(para) {
			if line != "" && len(line)+1+len(w) > max {
				lines = append(lines, line)
				line = ""
			}
			if line != "" {
				line += " "
			}
			line += w
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, pad)
}
