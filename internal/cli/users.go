package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const minPasswordLength = 8

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage operators",
	Long:  "Manage operator accounts that log in through /auth/authorize",
}

func readSecret(prompt string) (string, error) {
	fmt.Print(prompt + ": ")
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(secret), nil
}

// readNewPassword prompts twice and checks the two entries match
func readNewPassword(prompt string) (string, error) {
	password, err := readSecret(prompt)
	if err != nil {
		return "", err
	}
	again, err := readSecret("Confirm password")
	if err != nil {
		return "", err
	}

	switch {
	case password != again:
		return "", errors.New("passwords do not match")
	case len(password) < minPasswordLength:
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return password, nil
}

// confirm asks a yes/no question on stdin
func confirm(question string) bool {
	fmt.Printf("%s (yes/no): ", question)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.EqualFold(strings.TrimSpace(answer), "yes")
}

var usersAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Add an operator",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(ctx context.Context, s *Services, args []string) error {
		password, err := readNewPassword("Enter password")
		if err != nil {
			return err
		}
		if _, err := s.AuthService.CreateUser(ctx, args[0], password); err != nil {
			return fmt.Errorf("failed to create operator: %w", err)
		}
		fmt.Printf("Operator '%s' created\n", args[0])
		return nil
	}),
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete an operator",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(ctx context.Context, s *Services, args []string) error {
		if !confirm(fmt.Sprintf("Delete operator '%s'?", args[0])) {
			fmt.Println("Cancelled")
			return nil
		}
		if err := s.AuthService.DeleteUser(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to delete operator: %w", err)
		}
		fmt.Printf("Operator '%s' deleted\n", args[0])
		return nil
	}),
}

var usersUpdatePasswordCmd = &cobra.Command{
	Use:   "update-password <username>",
	Short: "Change an operator's password",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(ctx context.Context, s *Services, args []string) error {
		password, err := readNewPassword("Enter new password")
		if err != nil {
			return err
		}
		if err := s.AuthService.UpdateUserPassword(ctx, args[0], password); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		fmt.Printf("Password updated for '%s'\n", args[0])
		return nil
	}),
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List operators",
	RunE: withServices(func(ctx context.Context, s *Services, _ []string) error {
		users, err := s.AuthService.ListUsers(ctx)
		if err != nil {
			return fmt.Errorf("failed to list operators: %w", err)
		}
		if len(users) == 0 {
			fmt.Println("No operators found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "USERNAME\tCREATED\tUPDATED")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\n", u.Username,
				u.CreatedAt.Format(timeLayout), u.UpdatedAt.Format(timeLayout))
		}
		return w.Flush()
	}),
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersAddCmd, usersDeleteCmd, usersUpdatePasswordCmd, usersListCmd)
}
