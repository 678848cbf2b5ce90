package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vectorops/dbdock/internal/types"
)

// Flag names
const (
	flagEngine        = "engine"
	flagName          = "name"
	flagPassword      = "password"
	flagStorage       = "storage"
	flagAPIKey        = "api-key"
	flagEnvironment   = "environment"
	flagEmail         = "email"
	flagDatabaseID    = "database-id"
	flagContainerName = "container-name"
	flagExecutionID   = "execution-id"
	flagLimit         = "limit"
	flagOffset        = "offset"
)

func init() {
	databasesCmd.AddCommand(createDatabaseCmd)
	databasesCmd.AddCommand(listDatabasesCmd)
	databasesCmd.AddCommand(getDatabaseCmd)
	databasesCmd.AddCommand(deleteDatabaseCmd)
	databasesCmd.AddCommand(databaseStatusCmd)

	// Add flags for create
	createDatabaseCmd.Flags().StringP(flagEngine, "e", "", "Database engine (postgres, weaviate, chroma, pinecone)")
	createDatabaseCmd.Flags().StringP(flagName, "n", "", "Database name")
	createDatabaseCmd.Flags().StringP(flagPassword, "p", "", "Database password (non-Pinecone engines)")
	createDatabaseCmd.Flags().Int(flagStorage, types.MinStorageGB, "Storage allocation in GB")
	createDatabaseCmd.Flags().String(flagAPIKey, "", "Pinecone API key")
	createDatabaseCmd.Flags().String(flagEnvironment, "", "Pinecone environment")
	createDatabaseCmd.Flags().String(flagEmail, "", "Owner email address")
	for _, f := range []string{flagEngine, flagName, flagEmail} {
		if err := createDatabaseCmd.MarkFlagRequired(f); err != nil {
			panic(fmt.Errorf("failed to mark %s flag as required for create database command: %w", f, err))
		}
	}

	// Add flags for list
	listDatabasesCmd.Flags().Int(flagLimit, 0, "Maximum number of records to return")
	listDatabasesCmd.Flags().Int(flagOffset, 0, "Number of records to skip")

	// Add flags for delete
	deleteDatabaseCmd.Flags().String(flagDatabaseID, "", "Database record ID")
	deleteDatabaseCmd.Flags().String(flagContainerName, "", "Container name of the database")
	deleteDatabaseCmd.Flags().StringP(flagEngine, "e", "", "Database engine")
	for _, f := range []string{flagDatabaseID, flagContainerName} {
		if err := deleteDatabaseCmd.MarkFlagRequired(f); err != nil {
			panic(fmt.Errorf("failed to mark %s flag as required for delete database command: %w", f, err))
		}
	}

	// Add flags for status
	databaseStatusCmd.Flags().String(flagExecutionID, "", "Provisioning execution ID")
	databaseStatusCmd.Flags().String(flagDatabaseID, "", "Database record ID")
	databaseStatusCmd.Flags().StringP(flagEngine, "e", "", "Database engine")
	if err := databaseStatusCmd.MarkFlagRequired(flagExecutionID); err != nil {
		panic(fmt.Errorf("failed to mark execution-id flag as required for status command: %w", err))
	}
}

// GetDatabasesCmd returns the databases command group
func GetDatabasesCmd() *cobra.Command {
	return databasesCmd
}

var databasesCmd = &cobra.Command{
	Use:   "databases",
	Short: "Manage database containers",
}

var createDatabaseCmd = &cobra.Command{
	Use:   "create",
	Short: "Provision a new database container",
	RunE: func(cmd *cobra.Command, _ []string) error {
		userID, err := getUserID(cmd)
		if err != nil {
			return err
		}

		engine, _ := cmd.Flags().GetString(flagEngine)
		name, _ := cmd.Flags().GetString(flagName)
		password, _ := cmd.Flags().GetString(flagPassword)
		storage, _ := cmd.Flags().GetInt(flagStorage)
		apiKey, _ := cmd.Flags().GetString(flagAPIKey)
		environment, _ := cmd.Flags().GetString(flagEnvironment)
		email, _ := cmd.Flags().GetString(flagEmail)

		req := types.CreateDatabaseRequest{
			Engine:      types.Engine(engine),
			DBName:      name,
			DBPassword:  password,
			StorageGB:   storage,
			APIKey:      apiKey,
			Environment: environment,
			UserID:      userID,
			UserEmail:   email,
		}

		resp, err := apiClient.CreateDatabase(context.Background(), req)
		if err != nil {
			return fmt.Errorf("error creating database: %w", err)
		}

		return printJSON(resp)
	},
}

var listDatabasesCmd = &cobra.Command{
	Use:   "list",
	Short: "List database records",
	RunE: func(cmd *cobra.Command, _ []string) error {
		userID, err := getUserID(cmd)
		if err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt(flagLimit)
		offset, _ := cmd.Flags().GetInt(flagOffset)

		resp, err := apiClient.ListDatabases(context.Background(), userID, limit, offset)
		if err != nil {
			return fmt.Errorf("error listing databases: %w", err)
		}

		return printJSON(resp)
	},
}

var getDatabaseCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get a database record by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := getUserID(cmd)
		if err != nil {
			return err
		}

		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid database ID: %w", err)
		}

		resp, err := apiClient.GetDatabase(context.Background(), userID, uint(id))
		if err != nil {
			return fmt.Errorf("error getting database: %w", err)
		}

		return printJSON(resp)
	},
}

var deleteDatabaseCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a database container",
	RunE: func(cmd *cobra.Command, _ []string) error {
		userID, err := getUserID(cmd)
		if err != nil {
			return err
		}

		databaseID, _ := cmd.Flags().GetString(flagDatabaseID)
		containerName, _ := cmd.Flags().GetString(flagContainerName)
		engine, _ := cmd.Flags().GetString(flagEngine)

		req := types.DeleteDatabaseRequest{
			DatabaseID:    databaseID,
			ContainerName: containerName,
			UserID:        userID,
			Engine:        types.Engine(engine),
		}

		resp, err := apiClient.DeleteDatabase(context.Background(), req)
		if err != nil {
			return fmt.Errorf("error deleting database: %w", err)
		}

		return printJSON(resp)
	},
}

var databaseStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the status of a provisioning execution",
	RunE: func(cmd *cobra.Command, _ []string) error {
		userID, err := getUserID(cmd)
		if err != nil {
			return err
		}

		executionID, _ := cmd.Flags().GetString(flagExecutionID)
		databaseID, _ := cmd.Flags().GetString(flagDatabaseID)
		engine, _ := cmd.Flags().GetString(flagEngine)

		req := types.StatusCheckRequest{
			ExecutionID: executionID,
			DatabaseID:  databaseID,
			UserID:      userID,
			Engine:      types.Engine(engine),
		}

		resp, err := apiClient.CheckDatabaseStatus(context.Background(), req)
		if err != nil {
			return fmt.Errorf("error checking status: %w", err)
		}

		return printJSON(resp)
	},
}

// printJSON prints the value in an indented, readable format
func printJSON(v interface{}) error {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	fmt.Println(string(pretty))
	return nil
}
