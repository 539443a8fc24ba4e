// Surveyor: questionnaire filling over MCP.
//
// Surveyor loads questionnaire definitions from a catalog directory, keeps
// one response tree per session and shows only the items whose enableWhen
// conditions currently hold.
//
// Usage:
//
//	surveyor serve           # Start MCP server (stdio transport)
//	surveyor render <file>   # Print the enabled items of a definition
//	surveyor fill <file>     # Fill a definition in the terminal
//	surveyor version
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
