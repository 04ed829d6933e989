// ABOUTME: Login and logout CLI commands against the remote backend
package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/mkarcz/prospekt/auth"
)

// LoginCommand signs in against the remote backend and stores the
// session locally
func LoginCommand(provider auth.Provider, sessionPath string, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Account email (required)")
	password := fs.String("password", "", "Account password (required)")
	fs.Parse(args)

	if *email == "" || *password == "" {
		return fmt.Errorf("--email and --password are required")
	}

	session, err := provider.SignIn(context.Background(), *email, *password)
	if err != nil {
		return err
	}
	if err := auth.Save(sessionPath, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	fmt.Printf("✓ Signed in as %s\n", session.Email)
	return nil
}

// RegisterCommand creates an account on the remote backend and stores
// the returned session
func RegisterCommand(provider auth.Provider, sessionPath string, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "Account email (required)")
	password := fs.String("password", "", "Account password (required)")
	fs.Parse(args)

	if *email == "" || *password == "" {
		return fmt.Errorf("--email and --password are required")
	}

	session, err := provider.SignUp(context.Background(), *email, *password)
	if err != nil {
		return err
	}
	if err := auth.Save(sessionPath, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	fmt.Printf("✓ Account created for %s\n", session.Email)
	return nil
}

// LogoutCommand revokes the stored session and removes it
func LogoutCommand(provider auth.Provider, sessionPath string, args []string) error {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	fs.Parse(args)

	session, err := auth.Load(sessionPath)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if err := provider.SignOut(context.Background(), session); err != nil {
		return err
	}
	if err := auth.Clear(sessionPath); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}

	fmt.Println("✓ Signed out")
	return nil
}
