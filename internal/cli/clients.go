package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jpbaz28/Banking-API/internal/api/util"
	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
	"github.com/jpbaz28/Banking-API/internal/core/service"
)

var (
	clientsQuery    string
	clientsOrder    string
	clientFirstName string
	clientLastName  string
	clientAccounts  []string
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage bank clients",
	Long:  "Inspect and change bank clients and their accounts directly in the configured store",
}

// parseAccount reads a name=amount pair
func parseAccount(value string) (domain.Account, error) {
	name, amount, ok := strings.Cut(value, "=")
	if !ok || name == "" {
		return domain.Account{}, fmt.Errorf("invalid account %q (expected name=amount)", value)
	}
	d, err := parseAmount(amount)
	if err != nil {
		return domain.Account{}, err
	}
	return domain.Account{Name: name, Amount: d}, nil
}

func parseAmount(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", value)
	}
	return d, nil
}

func printClient(client *domain.Client) {
	fmt.Printf("ID:       %s\n", client.ID)
	fmt.Printf("Name:     %s %s\n", client.FirstName, client.LastName)
	fmt.Printf("Version:  %d\n", client.Version)
	fmt.Printf("Created:  %s\n", client.CreatedAt.Format(timeLayout))
	fmt.Printf("Updated:  %s\n", client.UpdatedAt.Format(timeLayout))

	if len(client.Accounts) == 0 {
		fmt.Println("Accounts: none")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nACCOUNT\tAMOUNT")
	for _, account := range client.Accounts {
		fmt.Fprintf(w, "%s\t%s\n", account.Name, account.Amount.StringFixed(domain.MaxAmountScale))
	}
	w.Flush()
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		listFilter, err := util.ParseListFilter(clientsQuery, clientsOrder, 0, 0, repository.ClientFields)
		if err != nil {
			return err
		}

		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		clients, err := services.ClientService.ListClients(cmd.Context(), repository.ClientFilter{ListFilter: listFilter})
		if err != nil {
			return fmt.Errorf("failed to list clients: %w", err)
		}

		if len(clients) == 0 {
			fmt.Println("No clients found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CLIENT ID\tFIRST NAME\tLAST NAME\tACCOUNTS\tCREATED AT")
		for _, client := range clients {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				client.ID,
				client.FirstName,
				client.LastName,
				len(client.Accounts),
				client.CreatedAt.Format(timeLayout),
			)
		}
		w.Flush()

		return nil
	},
}

var clientsShowCmd = &cobra.Command{
	Use:   "show <client-id>",
	Short: "Show a client and its accounts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		client, err := services.ClientService.GetClient(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		printClient(client)
		return nil
	},
}

var clientsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a client",
	Example: `  bankapi clients create --fname Mr. --lname T. --account Savings=50000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		accounts := make([]domain.Account, 0, len(clientAccounts))
		for _, value := range clientAccounts {
			account, err := parseAccount(value)
			if err != nil {
				return err
			}
			accounts = append(accounts, account)
		}

		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		client, err := services.ClientService.CreateClient(cmd.Context(), clientFirstName, clientLastName, accounts)
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}

		fmt.Println("Client created successfully")
		printClient(client)
		return nil
	},
}

var clientsDeleteCmd = &cobra.Command{
	Use:   "delete <client-id>",
	Short: "Delete a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		if !confirm(fmt.Sprintf("Are you sure you want to delete client '%s'?", id)) {
			fmt.Println("Cancelled")
			return nil
		}

		if err := services.ClientService.DeleteClient(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete client: %w", err)
		}

		fmt.Printf("Client '%s' deleted successfully\n", id)
		return nil
	},
}

var clientsAddAccountCmd = &cobra.Command{
	Use:   "add-account <client-id> <name> <amount>",
	Short: "Add an account to a client",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[2])
		if err != nil {
			return err
		}

		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		client, err := services.AccountService.AddAccount(cmd.Context(), args[0], domain.Account{Name: args[1], Amount: amount})
		if err != nil {
			return fmt.Errorf("failed to add account: %w", err)
		}

		printClient(client)
		return nil
	},
}

type balanceOp func(s *service.AccountService, ctx context.Context, clientID, accountName string, amount decimal.Decimal) (*service.BalanceChange, error)

// balanceCommand builds the deposit and withdraw commands, which differ only in the service call
func balanceCommand(use, short, verb string, apply balanceOp) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <client-id> <account-name> <amount>",
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}

			services, err := initServices(cmd.Context())
			if err != nil {
				return err
			}
			defer services.Close()

			change, err := apply(services.AccountService, cmd.Context(), args[0], args[1], amount)
			if err != nil {
				return fmt.Errorf("%s failed: %w", use, err)
			}

			if change.Matched == 0 {
				fmt.Printf("No account named '%s', nothing changed\n", args[1])
				return nil
			}
			fmt.Printf("%s %s on %d account(s)\n", verb, amount.StringFixed(domain.MaxAmountScale), change.Matched)
			printClient(change.Client)
			return nil
		},
	}
}

var (
	clientsDepositCmd  = balanceCommand("deposit", "Deposit into every account with the given name", "Deposited", (*service.AccountService).Deposit)
	clientsWithdrawCmd = balanceCommand("withdraw", "Withdraw from every account with the given name", "Withdrew", (*service.AccountService).Withdraw)
)

func init() {
	rootCmd.AddCommand(clientsCmd)
	clientsCmd.AddCommand(clientsListCmd)
	clientsCmd.AddCommand(clientsShowCmd)
	clientsCmd.AddCommand(clientsCreateCmd)
	clientsCmd.AddCommand(clientsDeleteCmd)
	clientsCmd.AddCommand(clientsAddAccountCmd)
	clientsCmd.AddCommand(clientsDepositCmd)
	clientsCmd.AddCommand(clientsWithdrawCmd)

	clientsListCmd.Flags().StringVar(&clientsQuery, "query", "", "filter, e.g. lname|Bono")
	clientsListCmd.Flags().StringVar(&clientsOrder, "order", "", "ordering, e.g. fname|asc")

	clientsCreateCmd.Flags().StringVar(&clientFirstName, "fname", "", "first name")
	clientsCreateCmd.Flags().StringVar(&clientLastName, "lname", "", "last name")
	clientsCreateCmd.Flags().StringArrayVar(&clientAccounts, "account", nil, "account as name=amount, repeatable")
}
