// Command sit is the thin CLI front end over the repository core.
package main

import "github.com/javanhut/sit/cli"

func main() {
	cli.Execute()
}
