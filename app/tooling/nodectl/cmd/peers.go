package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

type node struct {
	Address string `json:"address"`
}

type nodeList struct {
	Nodes []node `json:"nodes"`
	Total int    `json:"total"`
}

var peersCmd = &cobra.Command{
	Use:   "peers",
	Short: "Print the peers the node knows about.",
	Run:   peersRun,
}

func init() {
	rootCmd.AddCommand(peersCmd)
}

func peersRun(cmd *cobra.Command, args []string) {
	resp, err := http.Get(fmt.Sprintf("%s/nodes", url))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("node responded %s", resp.Status)
	}

	var list nodeList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Total peers:", list.Total)
	for _, n := range list.Nodes {
		fmt.Println(n.Address)
	}
}
