package typo

// defaultEntries are the misspellings every dictionary starts with.
var defaultEntries = map[string]string{
	"pritn":    "print",
	"improt":   "import",
	"functoin": "function",
	"retun":    "return",
	"brak":     "break",
	"contnue":  "continue",
	"els":      "else",
	"defualt":  "default",
	"swich":    "switch",
	"whlie":    "while",
}

// Defaults returns a copy of the built-in misspelling table.
func Defaults() map[string]string {
	out := make(map[string]string, len(defaultEntries))
	for k, v := range defaultEntries {
		out[k] = v
	}
	return out
}
