// Package main writes a self-signed server certificate and key for serving
// the API with -tls-cert and -tls-key during development.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atinyakov/carlot/internal/certgen"
)

func main() {
	dir := flag.String("dir", "certs", "output directory")
	hosts := flag.String("hosts", "localhost,127.0.0.1", "comma-separated DNS names and IPs")
	validity := flag.Duration("validity", 365*24*time.Hour, "certificate lifetime")
	flag.Parse()

	certPath, keyPath, err := certgen.WriteServerPair(*dir, strings.Split(*hosts, ","), *validity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "certgen: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s and %s\n", certPath, keyPath)
}
