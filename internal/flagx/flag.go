// Package flagx helps several configuration layers share one command line:
// each layer picks out only the flags it owns before handing them to its own
// flag.FlagSet.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs returns the subset of args that belongs to the allowed flags,
// together with their values.
//
// Flags are matched by name regardless of the number of leading dashes, so
// an allowed name "config" matches "-config", "--config" and
// "--config=conf.json". A value given as a separate argument is kept when it
// does not itself look like a flag.
func FilterArgs(args []string, allowed []string) []string {
	names := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		names[flagName(f)] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(arg, "=")
		if _, ok := names[flagName(name)]; !ok {
			continue
		}

		filtered = append(filtered, arg)
		if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}
	return filtered
}

// ConfigFileFlag extracts the JSON config path given with -c or -config.
// It returns an empty string when neither is present.
func ConfigFileFlag(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.SetOutput(discard{})
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"c", "config"}))

	return path
}

func flagName(s string) string {
	return strings.TrimLeft(s, "-")
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
