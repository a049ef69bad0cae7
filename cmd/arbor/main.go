// Command arbor inspects, queries and renders scene files.
//
//	arbor tree scene.yaml
//	arbor get scene.yaml "#hero, .enemy"
//	arbor pick scene.yaml 120 80
//	arbor render scene.yaml out.png
//
// Scene files are YAML or JSON Stage records as written by Node.ToYAML or
// Node.ToJSON. Stage size comes from the --config file (arbor.yaml by
// default); a missing config file falls back to the default size.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
