package main

import "sync"

// nodeBuiltinModules lists the Node.js core modules, top-level names only
// (no private `_*` modules, no subpath exports like "fs/promises" —
// subpaths are covered by open-ended matching on the base name).
//
// To regenerate:
//   node -p "[...require('module').builtinModules].filter(m => !m.startsWith('_') && !m.includes('/')).sort().join('\n')"
var nodeBuiltinModules = []string{
	"assert",
	"async_hooks",
	"buffer",
	"child_process",
	"cluster",
	"console",
	"constants",
	"crypto",
	"dgram",
	"diagnostics_channel",
	"dns",
	"domain",
	"events",
	"fs",
	"http",
	"http2",
	"https",
	"inspector",
	"module",
	"net",
	"os",
	"path",
	"perf_hooks",
	"process",
	"punycode",
	"querystring",
	"readline",
	"repl",
	"stream",
	"string_decoder",
	"sys",
	"timers",
	"tls",
	"trace_events",
	"tty",
	"url",
	"util",
	"v8",
	"vm",
	"wasi",
	"worker_threads",
	"zlib",
}

var (
	builtinMatchersOnce sync.Once
	builtinMatchers     []TestMatcher
)

// GetBuiltinModuleMatchers returns open-ended matchers for every Node
// built-in module, in both the bare and the `node:`-prefixed spelling.
// The compiled list is shared process-wide; builtin names do not depend
// on any per-file state.
func GetBuiltinModuleMatchers() []TestMatcher {
	builtinMatchersOnce.Do(func() {
		builtinMatchers = make([]TestMatcher, 0, len(nodeBuiltinModules)*2)
		for _, name := range nodeBuiltinModules {
			for _, spelling := range []string{name, "node:" + name} {
				matcher, err := CompileTestMatcher(spelling, true)
				if err != nil {
					// Builtin names are plain identifiers, compilation cannot fail.
					continue
				}
				builtinMatchers = append(builtinMatchers, matcher)
			}
		}
	})
	return builtinMatchers
}
