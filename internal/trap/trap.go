// Package trap implements the renderer's contract-violation trap (spec
// §7): a panic that names the file and line of the violated contract,
// not just the call site inside the trapping function itself.
package trap

import (
	"log"
	"runtime"
)

// Panicf reports a contract violation and panics. It walks one frame
// past its caller so the reported file:line is the site that detected
// the violation, then formats like log.Panicf.
func Panicf(format string, args ...any) {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		log.Panicf(format, args...)
	}
	args = append(append([]any{}, args...), file, line)
	log.Panicf(format+" (%s:%d)", args...)
}
