// Command gosolve normalizes, classifies and solves first-degree equations
// from the command line, and serves the same operations over HTTP.
package main

func main() {
	Execute()
}
