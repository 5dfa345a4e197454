package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "futures-await",
	Short: "futures-await rewrites #[async] functions and await! sites into generator-based futures and streams",
	Long:  "futures-await rewrites #[async] functions, #[async_stream] functions, async blocks and await! sites in Rust sources into generator-based futures and streams",
	Run: func(cmd *cobra.Command, args []string) {
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
