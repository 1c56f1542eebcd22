package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var exportPath string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "write the whole state document as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, backend, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer backend.Close()

		doc, err := store.Document(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if exportPath != "" && exportPath != "-" {
			file, err := os.Create(exportPath)
			if err != nil {
				return err
			}
			defer file.Close()
			out = file
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportPath, "output", "o", "-", "file to write, - for stdout")
	rootCmd.AddCommand(exportCmd)
}
