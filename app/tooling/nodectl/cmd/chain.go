package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/jgagnon1/blockchain/foundation/blockchain/ledger"
	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the node's blockchain.",
	Run:   chainRun,
}

func init() {
	rootCmd.AddCommand(chainCmd)
}

func chainRun(cmd *cobra.Command, args []string) {
	resp, err := http.Get(fmt.Sprintf("%s/chain", url))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("node responded %s", resp.Status)
	}

	var chain ledger.Chain
	if err := json.NewDecoder(resp.Body).Decode(&chain); err != nil {
		log.Fatal(err)
	}

	out, err := json.MarshalIndent(chain, "", "  ")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Chain height:", len(chain))
	fmt.Println(string(out))
}
