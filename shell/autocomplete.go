package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// ShellCompleter completes command names, their options and fixed
// argument values.
type ShellCompleter struct{}

func NewShellCompleter() *ShellCompleter {
	return &ShellCompleter{}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"new":      {Options: []string{"-humans", "-roster"}},
	"show":     {Args: []string{"spymaster"}},
	"autoplay": {Options: []string{"-games", "-threads", "-file"}},
	"help":     {Args: []string{"new", "guess", "autoplay", "script"}},
}

var optionValues = map[string][]string{
	"-humans": {"spymaster", "operative", "all", "none"},
}

var commandNames = []string{
	"new", "load", "show", "clue", "guess", "pass", "history", "rate",
	"list", "stats", "autoplay", "script", "help", "exit",
}

func suffixes(candidates []string, prefix string) [][]rune {
	var out [][]rune
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) && c != prefix {
			out = append(out, []rune(c[len(prefix):]+" "))
		}
	}
	return out
}

// Do implements the readline.AutoCompleter interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := strings.HasSuffix(text, " ")
	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		prefix := ""
		if len(fields) == 1 {
			prefix = fields[0]
		}
		return suffixes(commandNames, prefix), len([]rune(prefix))
	}

	meta, ok := commandMetadata[fields[0]]
	if !ok {
		return nil, 0
	}
	current := ""
	prev := fields[len(fields)-1]
	if !endsWithSpace {
		current = prev
		prev = ""
		if len(fields) > 1 {
			prev = fields[len(fields)-2]
		}
	}
	if vals, ok := optionValues[prev]; ok {
		return suffixes(vals, current), len([]rune(current))
	}
	if strings.HasPrefix(current, "-") {
		return suffixes(meta.Options, current), len([]rune(current))
	}
	return suffixes(append(append([]string{}, meta.Args...), meta.Options...), current), len([]rune(current))
}
