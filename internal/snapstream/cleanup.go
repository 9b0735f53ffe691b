package snapstream

import "regexp"

var filenameRules = []struct {
	pattern *regexp.Regexp
	replace string
}{
	// "Show-(Episode_)-2006-11-02-0.avi" -> "Episode_ (2006-11-02)-0.avi"
	{regexp.MustCompile(`^[^()]*?-\((.*?)\)-(\d{4}-\d{2}-\d{2})`), "$1 ($2)"},
	// "Show-2006-11-02-0.avi" -> "Show (2006-11-02)-0.avi"
	{regexp.MustCompile(`^([^()]+?)-(\d{4}-\d{2}-\d{2})`), "$1 ($2)"},
	{regexp.MustCompile(`-0(\.[^./]*)$`), "$1"},
	{regexp.MustCompile(`_\s+`), " "},
}

// CleanupName turns a Beyond TV recording name into a library-style one,
// e.g. "South Park-(Christmas in Canada_)-2006-11-02-0.avi" becomes
// "Christmas in Canada (2006-11-02).avi".
func CleanupName(name string) string {
	for _, rule := range filenameRules {
		name = rule.pattern.ReplaceAllString(name, rule.replace)
	}
	return name
}
