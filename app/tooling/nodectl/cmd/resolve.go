package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/jgagnon1/blockchain/foundation/blockchain/ledger"
	"github.com/spf13/cobra"
)

type resolveResult struct {
	Message string       `json:"message"`
	Chain   ledger.Chain `json:"chain"`
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Run consensus against the node's peers.",
	Run:   resolveRun,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func resolveRun(cmd *cobra.Command, args []string) {
	resp, err := http.Post(fmt.Sprintf("%s/node/resolve", url), "application/json", nil)
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("node responded %s", resp.Status)
	}

	var result resolveResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Fatal(err)
	}

	fmt.Println(result.Message)
	fmt.Println("Chain height:", len(result.Chain))
}
