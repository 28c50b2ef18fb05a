// Command hashtoken prints the bcrypt hash of an operator token for
// use as OPERATOR_TOKEN_HASH.
package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatal("usage: hashtoken <token>")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(os.Args[1]), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash token: %v", err)
	}
	fmt.Println(string(hash))
}
