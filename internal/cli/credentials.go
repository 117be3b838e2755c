package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var credentialScopes []string

var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Manage machine credentials",
	Long:  "Manage client_credentials identities used by other services to call the API",
}

var credentialsAddCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Add a new credential",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		credential, secret, err := services.AuthService.CreateCredential(cmd.Context(), args[0], credentialScopes)
		if err != nil {
			return fmt.Errorf("failed to create credential: %w", err)
		}

		fmt.Println("Credential created successfully")
		fmt.Printf("Client ID: %s\n", credential.ID)
		fmt.Printf("Client Secret: %s\n", secret)
		fmt.Printf("Scopes: %s\n", strings.Join(credential.Scopes, ", "))
		fmt.Println("\nIMPORTANT: Save the client secret now. It will not be shown again!")

		return nil
	},
}

var credentialsDeleteCmd = &cobra.Command{
	Use:   "delete <client-id>",
	Short: "Delete a credential",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		if !confirm(fmt.Sprintf("Are you sure you want to delete credential '%s'?", id)) {
			fmt.Println("Cancelled")
			return nil
		}

		if err := services.AuthService.DeleteCredential(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete credential: %w", err)
		}

		fmt.Printf("Credential '%s' deleted successfully\n", id)
		return nil
	},
}

var credentialsUpdateCmd = &cobra.Command{
	Use:   "update <client-id> [new-label]",
	Short: "Update credential label and/or scopes",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		var label *string
		if len(args) == 2 {
			label = &args[1]
		}
		var scopes []string
		if cmd.Flags().Changed("scope") {
			scopes = credentialScopes
		}
		if label == nil && scopes == nil {
			return fmt.Errorf("nothing to update: pass a new label or --scope")
		}

		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		if _, err := services.AuthService.UpdateCredential(cmd.Context(), id, label, scopes); err != nil {
			return fmt.Errorf("failed to update credential: %w", err)
		}

		fmt.Printf("Credential '%s' updated successfully\n", id)
		return nil
	},
}

var credentialsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		credentials, err := services.AuthService.ListCredentials(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list credentials: %w", err)
		}

		if len(credentials) == 0 {
			fmt.Println("No credentials found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CLIENT ID\tLABEL\tSCOPES\tCREATED AT")
		for _, credential := range credentials {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				credential.ID,
				credential.Label,
				strings.Join(credential.Scopes, ","),
				credential.CreatedAt.Format(timeLayout),
			)
		}
		w.Flush()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(credentialsCmd)
	credentialsCmd.AddCommand(credentialsAddCmd)
	credentialsCmd.AddCommand(credentialsDeleteCmd)
	credentialsCmd.AddCommand(credentialsUpdateCmd)
	credentialsCmd.AddCommand(credentialsListCmd)

	for _, c := range []*cobra.Command{credentialsAddCmd, credentialsUpdateCmd} {
		c.Flags().StringSliceVar(&credentialScopes, "scope", nil, "scope to grant, repeatable (clients:read, clients:write, admin, all)")
	}
}
