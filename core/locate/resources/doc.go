/*
Package resources resolves font resources for the atlas generator.

A font argument may be a path to a font file, the name of a font packaged
with this module (the Go fonts, e.g. "go", "go-bold", "go-mono"), or the
name of a font installed on the system. Resolving a font may hit the
file system repeatedly, therefore

   ResolveFont(…)

works in an async/await fashion by returning a promise, which the client
will call later to receive the loaded font. The call to the promise-function
will block until loading has completed.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package resources

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'fontatlas.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("fontatlas.fonts")
}
