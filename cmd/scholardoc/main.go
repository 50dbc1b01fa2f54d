package main

import (
	"github.com/Nusrahkhan/Scholarship-Automation/cmd/scholardoc/cmd"
)

func main() {
	cmd.Execute()
}
