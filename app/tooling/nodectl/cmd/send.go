package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	from   string
	to     string
	amount uint64
)

type sendTx struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

type sendAck struct {
	Status     string `json:"status"`
	BlockIndex uint64 `json:"block_index"`
}

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction to the node.",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&from, "from", "f", "", "Sender of the transaction.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Recipient of the transaction.")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "a", 0, "Amount to transfer.")
}

func sendRun(cmd *cobra.Command, args []string) {
	tx := sendTx{
		Sender:    from,
		Recipient: to,
		Amount:    amount,
	}

	data, err := json.Marshal(tx)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/transaction", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		log.Fatalf("node responded %s", resp.Status)
	}

	var ack sendAck
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s: expected in block %d\n", ack.Status, ack.BlockIndex)
}
