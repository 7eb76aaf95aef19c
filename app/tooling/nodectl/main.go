// This program provides a command line client for the blockchain node.
package main

import "github.com/jgagnon1/blockchain/app/tooling/nodectl/cmd"

func main() {
	cmd.Execute()
}
