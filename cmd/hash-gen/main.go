package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"ideagraph.backend/pkg/crypto"
)

var (
	printfFn       = fmt.Printf
	generateHashFn = generateHash
	fatalfFn       = log.Fatalf
)

var errPasswordLength = errors.New("password must be between 8 and 72 characters")

// resolvePassword takes the password from the first argument. Seed
// accounts go through the same length rule as registration.
func resolvePassword(args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("usage: hash-gen <password>")
	}
	password := args[0]
	if len(password) < 8 || len(password) > 72 {
		return "", errPasswordLength
	}
	return password, nil
}

func generateHash(password string) (string, error) {
	return crypto.HashPassword(password)
}

func main() {
	password, err := resolvePassword(os.Args[1:])
	if err != nil {
		fatalfFn("%v", err)
		return
	}

	hash, err := generateHashFn(password)
	if err != nil {
		fatalfFn("Failed to hash password: %v", err)
		return
	}

	printfFn("Bcrypt Hash: %s\n", hash)
}
