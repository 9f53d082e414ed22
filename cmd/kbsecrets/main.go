// kbsecrets manages the encrypted API-key store used by the connector
// resolver. Secrets live in an scrypt/AES-GCM encrypted file under the
// user's home directory.
package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"browseroskb/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "set", "get", "delete":
		if len(os.Args) != 3 {
			fmt.Fprintf(os.Stderr, "Error: %s requires a secret name\n\n", cmd)
			printUsage()
			os.Exit(1)
		}
	case "list":
		if len(os.Args) != 2 {
			fmt.Fprintf(os.Stderr, "Error: list takes no arguments\n\n")
			printUsage()
			os.Exit(1)
		}
	case "help", "--help", "-h":
		printUsage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err := run(cmd, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd string, args []string) error {
	dir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to locate home directory: %w", err)
	}

	password, err := readSecret("Store password: ")
	if err != nil {
		return err
	}

	store := config.NewSecretStore()
	if config.SecretsFileExists(dir) {
		store, err = config.OpenSecretStore(dir, password)
		if err != nil {
			return err
		}
	}

	switch cmd {
	case "set":
		name := args[1]
		value, err := readSecret(fmt.Sprintf("Value for %s: ", name))
		if err != nil {
			return err
		}
		if value == "" {
			return fmt.Errorf("refusing to store an empty secret")
		}
		store.Set(name, value)
		if err := store.Save(dir, password); err != nil {
			return err
		}
		fmt.Printf("Stored %s\n", name)

	case "get":
		value, err := store.Get(args[1])
		if err != nil {
			return err
		}
		fmt.Println(value)

	case "list":
		names := store.Names()
		if len(names) == 0 {
			fmt.Println("No secrets stored")
			return nil
		}
		fmt.Println(strings.Join(names, "\n"))

	case "delete":
		store.Delete(args[1])
		if err := store.Save(dir, password); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[1])
	}

	return nil
}

// readSecret prompts on stderr and reads a line without echo.
func readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	value, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(string(value)), nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "kbsecrets - encrypted API-key store\n\n")
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  %s set <name>      Store a secret (value prompted without echo)\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s get <name>      Print a secret\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s list            List stored secret names\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s delete <name>   Remove a secret\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nSecrets are encrypted with a password-derived key and stored in\n")
	fmt.Fprintf(os.Stderr, "~/%s/secrets.json.enc (0600).\n", config.AppConfigDir)
}
