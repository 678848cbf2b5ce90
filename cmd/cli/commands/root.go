// Package commands implements the dbdock CLI commands.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vectorops/dbdock/internal/api/v1/client"
	"github.com/vectorops/dbdock/internal/api/v1/routes"
)

// flag names shared across commands
const (
	flagServerAddress = "server-address"
	flagAuthToken     = "auth-token"
	flagUserID        = "user-id"
)

// environment variable names
const (
	envServerAddress = "DBDOCK_SERVER_ADDRESS"
	envAuthToken     = "DBDOCK_AUTH_TOKEN"
)

var (
	// apiClient is the shared API client instance
	apiClient client.Client
	// serverAddress holds the target API server address. Flag parsing sets this.
	serverAddress string
	// authToken is the bearer token sent with every request
	authToken string
)

// initClient initializes the API client
func initClient() error {
	var err error
	opts := client.DefaultOptions()
	opts.BaseURL = serverAddress
	opts.AuthToken = authToken

	apiClient, err = client.NewClient(opts)
	return err
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&serverAddress, flagServerAddress, "s", routes.DefaultBaseURL, "Address of the dbdock API server (env: DBDOCK_SERVER_ADDRESS)")
	RootCmd.PersistentFlags().StringVar(&authToken, flagAuthToken, "", "Bearer token for API authentication (env: DBDOCK_AUTH_TOKEN)")
	RootCmd.PersistentFlags().StringP(flagUserID, "u", "", "User ID owning the resources")

	RootCmd.AddCommand(GetDatabasesCmd())
	RootCmd.AddCommand(GetUploadsCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "dbdock",
	Short: "dbdock CLI - A command line interface for the dbdock API",
	Long:  `dbdock CLI is a command line tool for provisioning and monitoring managed database containers through the dbdock API.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Flag > env var > default, each resolved only if the previous
		// level was not explicitly set.
		if !cmd.Flags().Changed(flagServerAddress) {
			if envAddr := os.Getenv(envServerAddress); envAddr != "" {
				serverAddress = envAddr
			}
		}
		if !cmd.Flags().Changed(flagAuthToken) {
			if envTok := os.Getenv(envAuthToken); envTok != "" {
				authToken = envTok
			}
		}

		if serverAddress == "" {
			return fmt.Errorf("server address cannot be empty")
		}
		return initClient()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// getUserID retrieves the user ID from the command's persistent flags.
func getUserID(cmd *cobra.Command) (string, error) {
	flag := cmd.Flag(flagUserID)
	if flag == nil {
		return "", fmt.Errorf("flag '%s' is not defined", flagUserID)
	}

	userID := flag.Value.String()
	if userID == "" {
		return "", fmt.Errorf("required flag(s) \"%s\" not set", flagUserID)
	}
	return userID, nil
}
