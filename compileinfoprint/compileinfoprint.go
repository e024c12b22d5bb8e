// compileinfoprint is imported for the side effect of printing the compileinfo
// to os.Stderr when a heredity binary starts.
package compileinfoprint

import "github.com/carbocation/heredity/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}
