// Command hashpw prints the bcrypt hash of a password, for provisioning
// accounts by hand.
package main

import (
	"fmt"
	"os"

	"allmanager/internal/auth"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hashpw <password>")
		os.Exit(2)
	}

	if err := auth.CheckPasswordPolicy(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}

	hasher, err := auth.NewPasswordHasher(auth.BcryptCost)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	hash, err := hasher.Hash(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
