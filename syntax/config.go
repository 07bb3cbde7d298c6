package syntax

import (
	"fmt"
	"sort"
	"strings"
)

// SyntaxConfig lists language features a script may not use. The zero
// value allows everything.
type SyntaxConfig struct {
	DisallowVar           bool // var declarations; let and const remain
	DisallowClasses       bool
	DisallowGenerators    bool
	DisallowAsync         bool // async functions and await
	DisallowDestructuring bool
	DisallowLabels        bool
	DisallowTryCatch      bool // try and throw
	DisallowTemplates     bool
	DisallowSpread        bool
	DisallowDebugger      bool
}

var features = map[string]func(*SyntaxConfig){
	"var":           func(c *SyntaxConfig) { c.DisallowVar = true },
	"classes":       func(c *SyntaxConfig) { c.DisallowClasses = true },
	"generators":    func(c *SyntaxConfig) { c.DisallowGenerators = true },
	"async":         func(c *SyntaxConfig) { c.DisallowAsync = true },
	"destructuring": func(c *SyntaxConfig) { c.DisallowDestructuring = true },
	"labels":        func(c *SyntaxConfig) { c.DisallowLabels = true },
	"try":           func(c *SyntaxConfig) { c.DisallowTryCatch = true },
	"templates":     func(c *SyntaxConfig) { c.DisallowTemplates = true },
	"spread":        func(c *SyntaxConfig) { c.DisallowSpread = true },
	"debugger":      func(c *SyntaxConfig) { c.DisallowDebugger = true },
}

// Features returns the feature names accepted by ParseFeatures.
func Features() []string {
	names := make([]string, 0, len(features))
	for name := range features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseFeatures builds a config that disallows the named features.
func ParseFeatures(names []string) (SyntaxConfig, error) {
	var config SyntaxConfig
	for _, name := range names {
		set, ok := features[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return SyntaxConfig{}, fmt.Errorf("unknown syntax feature %q (expected one of %s)",
				name, strings.Join(Features(), ", "))
		}
		set(&config)
	}
	return config, nil
}

// IsZero reports whether the config allows every feature.
func (c SyntaxConfig) IsZero() bool {
	return c == SyntaxConfig{}
}
