package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/jgagnon1/blockchain/foundation/blockchain/ledger"
	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine the pending transactions into a new block.",
	Run:   mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) {
	resp, err := http.Post(fmt.Sprintf("%s/mine", url), "application/json", nil)
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("node responded %s", resp.Status)
	}

	var block ledger.Block
	if err := json.NewDecoder(resp.Body).Decode(&block); err != nil {
		log.Fatal(err)
	}

	out, err := json.MarshalIndent(block, "", "  ")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Sealed block", block.Index)
	fmt.Println(string(out))
}
