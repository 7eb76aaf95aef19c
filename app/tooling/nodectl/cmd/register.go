package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var peerAddress string

type registerPeer struct {
	Address string `json:"address"`
}

type registerAck struct {
	Status    string `json:"status"`
	PeerIndex int    `json:"peer_index"`
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a peer with the node.",
	Run:   registerRun,
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVarP(&peerAddress, "address", "a", "", "Host and port of the peer.")
}

func registerRun(cmd *cobra.Command, args []string) {
	data, err := json.Marshal(registerPeer{Address: peerAddress})
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/node/register", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Fatalf("node responded %s", resp.Status)
	}

	var ack registerAck
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s: %d peers known\n", ack.Status, ack.PeerIndex)
}
