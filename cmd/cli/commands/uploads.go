package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vectorops/dbdock/internal/types"
)

// Flag names
const (
	flagFile = "file"
)

func init() {
	uploadsCmd.AddCommand(registerUploadsCmd)
	uploadsCmd.AddCommand(listUploadsCmd)

	// Add flags for register
	registerUploadsCmd.Flags().StringP(flagFile, "f", "", "JSON file containing the upload registration request")
	if err := registerUploadsCmd.MarkFlagRequired(flagFile); err != nil {
		panic(fmt.Errorf("failed to mark file flag as required for register uploads command: %w", err))
	}

	// Add flags for list
	listUploadsCmd.Flags().Int(flagLimit, 0, "Maximum number of records to return")
	listUploadsCmd.Flags().Int(flagOffset, 0, "Number of records to skip")
}

// GetUploadsCmd returns the uploads command group
func GetUploadsCmd() *cobra.Command {
	return uploadsCmd
}

var uploadsCmd = &cobra.Command{
	Use:   "uploads",
	Short: "Manage PDF ingestion jobs",
}

var registerUploadsCmd = &cobra.Command{
	Use:   "register",
	Short: "Register PDF files for ingestion",
	RunE: func(cmd *cobra.Command, _ []string) error {
		userID, err := getUserID(cmd)
		if err != nil {
			return err
		}

		jsonFile, _ := cmd.Flags().GetString(flagFile)
		// #nosec G304 -- file path comes from the operator's own flag
		data, err := os.ReadFile(jsonFile)
		if err != nil {
			return fmt.Errorf("error reading JSON file: %w", err)
		}

		var req types.RegisterUploadRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return fmt.Errorf("error parsing JSON file: %w", err)
		}
		req.UserID = userID

		resp, err := apiClient.RegisterUploads(context.Background(), req)
		if err != nil {
			return fmt.Errorf("error registering uploads: %w", err)
		}

		return printJSON(resp)
	},
}

var listUploadsCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered ingestion jobs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		userID, err := getUserID(cmd)
		if err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt(flagLimit)
		offset, _ := cmd.Flags().GetInt(flagOffset)

		resp, err := apiClient.ListUploads(context.Background(), userID, limit, offset)
		if err != nil {
			return fmt.Errorf("error listing uploads: %w", err)
		}

		return printJSON(resp)
	},
}
