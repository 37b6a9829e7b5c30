// Command hedlctl is a thin CLI wrapper over pkg/hedl: parse, canonicalize,
// lint, and validate HEDL documents from the command line.
package main

func main() {
	execute()
}
