package eval

import "github.com/domharness/domharness/internal/scriptparse"

// RunSource parses and executes src as a top-level script in the global
// scope, used both for the harness's public "run script" entry point and
// for inline <script> bodies discovered while ingesting HTML (§6).
func (it *Interp) RunSource(src string) error {
	prog, err := scriptparse.Parse(src)
	if err != nil {
		return err
	}
	return it.Run(prog)
}
