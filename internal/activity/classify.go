package activity

import (
	"strings"

	"github.com/GriffinCanCode/termwatch/internal/proc"
)

// Classification is an optional human-readable execution context for an
// active process: an environment label and, when derivable, an
// application context string.
type Classification struct {
	Environment string
	AppContext  string
}

// classifierRule pairs a predicate with a label producer. Rules are
// evaluated in priority order and the first match wins, so adding a new
// REPL or package manager is a data change, not a logic change.
type classifierRule struct {
	match func(r proc.Record, all []proc.Record) bool
	label func(r proc.Record, all []proc.Record) Classification
}

// replDisplayNames maps short process names to display labels. REPLs
// recognized by the scorer but absent here fall back to "<NAME> REPL".
var replDisplayNames = map[string]string{
	"irb":     "Ruby IRB",
	"pry":     "Pry Console",
	"node":    "Node.js REPL",
	"python":  "Python REPL",
	"ipython": "IPython Console",
}

var knownPackageManagers = map[string]bool{
	"brew": true,
	"npm":  true,
	"yarn": true,
	"pip":  true,
}

var classifierRules = []classifierRule{
	{match: matchRailsConsole, label: labelRailsConsole},
	{match: matchREPL, label: labelREPL},
	{match: matchPackageManager, label: labelPackageManager},
}

// Classify derives the execution environment of the active process. The
// full process list is consulted because the interesting detail (such as a
// Rails app's config/environment path) often lives on a sibling process
// rather than the winner itself.
func Classify(r proc.Record, all []proc.Record) (Classification, bool) {
	for _, rule := range classifierRules {
		if rule.match(r, all) {
			return rule.label(r, all), true
		}
	}
	return Classification{}, false
}

func matchRailsConsole(r proc.Record, _ []proc.Record) bool {
	if strings.Contains(r.Command, "rails console") {
		return true
	}
	return r.Name() == "ruby" && strings.Contains(r.Command, "rails server")
}

func labelRailsConsole(r proc.Record, all []proc.Record) Classification {
	env := railsEnv(r.Command)
	app := railsAppName(r, all)
	return Classification{
		Environment: "Rails Console",
		AppContext:  app + " (" + env + ")",
	}
}

// railsEnv extracts the RAILS_ENV=<value> token from a command line,
// defaulting to "development".
func railsEnv(command string) string {
	for _, token := range strings.Fields(command) {
		if v, ok := strings.CutPrefix(token, "RAILS_ENV="); ok && v != "" {
			return v
		}
	}
	return "development"
}

// railsAppName derives the application directory name from a path ending
// in /config/environment, checking the active command first and then the
// rest of the process list. Defaults to "Rails App".
func railsAppName(r proc.Record, all []proc.Record) string {
	if name, ok := appNameFromCommand(r.Command); ok {
		return name
	}
	for _, other := range all {
		if name, ok := appNameFromCommand(other.Command); ok {
			return name
		}
	}
	return "Rails App"
}

const railsEnvironmentPath = "/config/environment"

func appNameFromCommand(command string) (string, bool) {
	idx := strings.Index(command, railsEnvironmentPath)
	if idx < 0 {
		return "", false
	}
	prefix := command[:idx]
	if cut := strings.LastIndexAny(prefix, " \t"); cut >= 0 {
		prefix = prefix[cut+1:]
	}
	if cut := strings.LastIndex(prefix, "/"); cut >= 0 {
		prefix = prefix[cut+1:]
	}
	if prefix == "" {
		return "", false
	}
	return prefix, true
}

func matchREPL(r proc.Record, _ []proc.Record) bool {
	return knownREPLs[r.Name()]
}

func labelREPL(r proc.Record, _ []proc.Record) Classification {
	name := r.Name()
	if display, ok := replDisplayNames[name]; ok {
		return Classification{Environment: display}
	}
	return Classification{Environment: strings.ToUpper(name) + " REPL"}
}

func matchPackageManager(r proc.Record, _ []proc.Record) bool {
	return knownPackageManagers[r.Name()]
}

func labelPackageManager(r proc.Record, _ []proc.Record) Classification {
	name := r.Name()
	capitalized := strings.ToUpper(name[:1]) + name[1:]
	return Classification{Environment: capitalized + " Package Manager"}
}
