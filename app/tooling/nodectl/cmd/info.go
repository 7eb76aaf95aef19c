package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

type nodeInfo struct {
	NodeID  string `json:"node_id"`
	Address string `json:"address"`
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the node's identity.",
	Run:   infoRun,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func infoRun(cmd *cobra.Command, args []string) {
	resp, err := http.Get(fmt.Sprintf("%s/node/info", url))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("node responded %s", resp.Status)
	}

	var info nodeInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Node ID:", info.NodeID)
	fmt.Println("Address:", info.Address)
}
