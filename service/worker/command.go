package worker

import (
	"sort"
	"strings"
)

// Command represents a single worker invocation
type Command struct {
	Executable  string
	Args        []string
	Workdir     string
	Env         map[string]string
	MergeStderr bool
}

// String returns command line
func (c *Command) String() string {
	return strings.Join(append([]string{c.Executable}, c.Args...), " ")
}

// Environ returns sorted KEY=VALUE pairs of the additional environment
func (c *Command) Environ() []string {
	if len(c.Env) == 0 {
		return nil
	}
	ret := make([]string, 0, len(c.Env))
	for k, v := range c.Env {
		ret = append(ret, k+"="+v)
	}
	sort.Strings(ret)
	return ret
}
