// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/niprov/niprov/cmd/niprov"

func main() {
	cmd.Execute()
}
